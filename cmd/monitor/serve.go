// cmd/monitor/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/appliance-monitor/internal/config"
	"github.com/tamzrod/appliance-monitor/internal/hub"
	"github.com/tamzrod/appliance-monitor/internal/lifecycle"
	"github.com/tamzrod/appliance-monitor/internal/logging"
	"github.com/tamzrod/appliance-monitor/internal/power"
	"github.com/tamzrod/appliance-monitor/internal/probe"
	"github.com/tamzrod/appliance-monitor/internal/server"
	"github.com/tamzrod/appliance-monitor/internal/writer"
)

const shutdownGrace = 5 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve <config.yaml>",
		Short: "Run the monitor and its rendering endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0])
		},
	}
}

func runServe(parent context.Context, cfgPath string) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	level := cfg.Monitor.Log.Level
	if debug {
		level = logging.LevelDebug
	}
	if err := logging.Configure(level, logging.FormatJSON); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Appliance clients
	// --------------------

	base := cfg.Monitor.Appliance.BaseURL

	prb, err := probe.New(probe.Config{BaseURL: base})
	if err != nil {
		return err
	}
	act, err := power.New(power.Config{BaseURL: base})
	if err != nil {
		return err
	}

	// --------------------
	// Monitor + renderers
	// --------------------

	renderers := hub.New()

	mon, err := lifecycle.New(lifecycle.Config{
		Source:   prb,
		Actuator: act,
		Renderer: renderers,
	})
	if err != nil {
		return err
	}
	defer mon.Close()

	stopFollow := renderers.Follow(mon.Store())
	defer stopFollow()

	// ---- optional status export ----
	if ex := cfg.Monitor.Export; ex != nil {
		sw, closeWriter, err := writer.BuildStatusWriter(ex)
		if err != nil {
			return fmt.Errorf("status export (endpoint=%s): %w", ex.Endpoint, err)
		}
		defer closeWriter()

		go func() {
			if err := writer.NewExporter(mon.Store(), sw, nil).Run(ctx); err != nil {
				slog.Error("status export stopped", "error", err)
			}
		}()
		slog.Info("status export enabled", "endpoint", ex.Endpoint, "unit_id", ex.UnitID, "base_slot", ex.BaseSlot)
	}

	// --------------------
	// Rendering boundary
	// --------------------

	srv := &http.Server{
		Addr: cfg.Monitor.HTTP.Listen,
		Handler: server.New(server.Deps{
			Monitor:   mon,
			Views:     mon.Store(),
			Renderers: renderers,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	go func() {
		if err := mon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("monitor stopped", "error", err)
		}
	}()

	slog.Info("monitor starting", "appliance", base, "listen", cfg.Monitor.HTTP.Listen)

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", cfg.Monitor.HTTP.Listen, err)
		}
	}

	renderers.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "error", err)
	}

	slog.Info("monitor stopped")
	return nil
}
