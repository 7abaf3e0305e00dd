// internal/lifecycle/monitor.go
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tamzrod/appliance-monitor/internal/clock"
	"github.com/tamzrod/appliance-monitor/internal/metrics"
	"github.com/tamzrod/appliance-monitor/internal/power"
	"github.com/tamzrod/appliance-monitor/internal/probe"
)

// Fixed cadences. These are part of the appliance contract and MUST NOT
// be configurable.
const (
	PollInterval   = 1 * time.Second
	RestartWarmup  = 10 * time.Second // outlasts the shutdown part of a reboot
	ShutdownSettle = 30 * time.Second // display wait only, nothing is verified
)

// ErrActionFailed is returned when the appliance refused a power action.
// The state is unchanged and one alert has been raised.
var ErrActionFailed = errors.New("power action failed")

// PollError wraps a failure inside a starting-loop tick.
// It is logged and never changes state.
type PollError struct {
	Err error
}

func (e *PollError) Error() string { return fmt.Sprintf("poll tick: %v", e.Err) }

func (e *PollError) Unwrap() error { return e.Err }

// Actuator is the write path used for user-initiated power actions.
type Actuator interface {
	Perform(ctx context.Context, action power.Action) power.Outcome
}

// Renderer receives the one-shot effects that are not part of the View.
type Renderer interface {
	// Reload hands control back to the normal appliance UI.
	Reload()
	// Alert shows a one-shot message for a failed power action.
	Alert(message string)
}

// Config wires a Monitor. Clock and Renderer may be nil.
type Config struct {
	Source   probe.Source
	Actuator Actuator
	Clock    clock.Clock
	Renderer Renderer
}

// Monitor reconciles the View with the appliance's operational state.
type Monitor struct {
	src    probe.Source
	act    Actuator
	clock  clock.Clock
	store  *Store
	render Renderer

	reenter    chan struct{}
	recovering atomic.Bool
	actions    atomic.Uint64 // bumped by every accepted power action

	life   context.Context
	cancel context.CancelFunc
	bg     sync.WaitGroup
}

func New(cfg Config) (*Monitor, error) {
	if cfg.Source == nil {
		return nil, errors.New("monitor: probe source required")
	}
	if cfg.Actuator == nil {
		return nil, errors.New("monitor: power actuator required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Renderer == nil {
		cfg.Renderer = nopRenderer{}
	}

	life, cancel := context.WithCancel(context.Background())
	m := &Monitor{
		src:     cfg.Source,
		act:     cfg.Actuator,
		clock:   cfg.Clock,
		store:   NewStore(cfg.Clock),
		render:  cfg.Renderer,
		reenter: make(chan struct{}, 1),
		life:    life,
		cancel:  cancel,
	}
	m.recordState(Starting)
	return m, nil
}

// Store exposes the read side to renderers.
func (m *Monitor) Store() *Store { return m.store }

// Close stops background waits (shutdown settle, restart recovery)
// and blocks until they have returned.
func (m *Monitor) Close() error {
	m.cancel()
	m.bg.Wait()
	return nil
}

// ------------------------------------------------------------
// STARTING LOOP
// ------------------------------------------------------------

// Run drives the starting loop until ctx is done or Close is called.
// An episode ends when the state leaves Starting. A successful restart
// recovery re-enters Run with a fresh Starting episode.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		m.runStarting(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.life.Done():
			return nil
		case <-m.reenter:
			slog.Info("lifecycle episode re-entered")
		}
	}
}

func (m *Monitor) runStarting(ctx context.Context) {
	for m.store.View().Status == Starting {
		m.Tick(ctx)

		if !m.wait(ctx, PollInterval) {
			return
		}
	}
}

// Tick performs one starting-loop iteration. A failing tick is a no-op.
// Transitions only apply while the state is still Starting, so a power
// action that lands mid-tick is never overwritten.
func (m *Monitor) Tick(ctx context.Context) {
	res := probe.PollOnce(ctx, m.src)

	switch {
	case res.Live:
		metrics.PollTicks.WithLabelValues("live").Inc()
		if m.transition(Starting, View{Status: Ready}) {
			slog.Info("appliance is up")
			m.reload()
		}

	case res.Err != nil:
		metrics.PollTicks.WithLabelValues("failed").Inc()
		slog.Warn("transient poll failure", "error", &PollError{Err: res.Err})

	default:
		code, ok := probe.FirstErrorCode(res.Services)
		if !ok {
			metrics.PollTicks.WithLabelValues("pending").Inc()
			return
		}
		metrics.PollTicks.WithLabelValues("errored").Inc()
		if m.transition(Starting, View{Status: Error, Error: code}) {
			slog.Error("appliance service errored", "code", code)
		}
	}
}

// ------------------------------------------------------------
// POWER ACTIONS
// ------------------------------------------------------------

// Shutdown requests a shutdown. On success the state becomes
// ShuttingDown and, after ShutdownSettle, ShutdownComplete.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if err := m.perform(ctx, power.Shutdown, "Failed to shutdown the appliance"); err != nil {
		return err
	}

	seq := m.actions.Add(1)
	m.setView(View{Status: ShuttingDown})

	m.background(func(ctx context.Context) {
		if !m.wait(ctx, ShutdownSettle) {
			return
		}
		// A later action owns the state now.
		if m.actions.Load() != seq {
			return
		}
		if m.transition(ShuttingDown, View{Status: ShutdownComplete}) {
			slog.Info("shutdown settle elapsed")
		}
	})
	return nil
}

// Restart requests a restart. On success the state becomes Restarting
// and a recovery loop waits for the appliance to answer again.
func (m *Monitor) Restart(ctx context.Context) error {
	if err := m.perform(ctx, power.Restart, "Failed to restart the appliance"); err != nil {
		return err
	}

	m.actions.Add(1)
	m.setView(View{Status: Restarting})

	if !m.recovering.CompareAndSwap(false, true) {
		return nil
	}
	m.background(m.recover)
	return nil
}

func (m *Monitor) perform(ctx context.Context, action power.Action, alert string) error {
	out := m.act.Perform(ctx, action)
	metrics.PowerActions.WithLabelValues(string(action), out.String()).Inc()
	slog.Info("power action", "action", string(action), "outcome", out.String())

	if out.OK() {
		return nil
	}

	metrics.Alerts.Inc()
	m.render.Alert(alert)
	return fmt.Errorf("%s: %w", action, ErrActionFailed)
}

// recover waits out the warm-up, then checks reachability every
// PollInterval with no retry limit. It returns on the first success,
// when the state is taken over by another action, or on cancellation.
// It owns the recovering flag and releases it on every exit.
func (m *Monitor) recover(ctx context.Context) {
	if !m.wait(ctx, RestartWarmup) {
		m.recovering.Store(false)
		return
	}

	for {
		if m.store.View().Status != Restarting {
			if m.release() {
				slog.Info("restart recovery abandoned", "state", string(m.store.View().Status))
				return
			}
			continue
		}

		if probe.Reachable(ctx, m.src) {
			metrics.RecoveryChecks.WithLabelValues("reachable").Inc()

			// A newer action between the check and here keeps the loop going.
			if !m.transition(Restarting, View{Status: Starting}) {
				continue
			}
			slog.Info("appliance answered after restart")
			m.reload()
			select {
			case m.reenter <- struct{}{}:
			default:
			}
			if m.release() {
				return
			}
			continue
		}
		metrics.RecoveryChecks.WithLabelValues("unreachable").Inc()

		if !m.wait(ctx, PollInterval) {
			m.recovering.Store(false)
			return
		}
	}
}

// release gives up recovery ownership. It reports false when a Restart
// landed while the flag was still held, in which case ownership is taken
// back and the caller keeps recovering.
func (m *Monitor) release() bool {
	m.recovering.Store(false)
	if m.store.View().Status != Restarting {
		return true
	}
	return !m.recovering.CompareAndSwap(false, true)
}

// ------------------------------------------------------------
// helpers
// ------------------------------------------------------------

// wait blocks for d on the monitor clock. False means cancelled.
func (m *Monitor) wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-m.life.Done():
		return false
	case <-m.clock.After(d):
		return true
	}
}

func (m *Monitor) background(fn func(ctx context.Context)) {
	m.bg.Add(1)
	go func() {
		defer m.bg.Done()
		fn(m.life)
	}()
}

func (m *Monitor) reload() {
	metrics.Reloads.Inc()
	m.render.Reload()
}

func (m *Monitor) setView(v View) {
	if m.store.set(v) {
		m.recordState(v.Status)
	}
}

func (m *Monitor) transition(from State, v View) bool {
	if !m.store.transition(from, v) {
		return false
	}
	m.recordState(v.Status)
	return true
}

func (m *Monitor) recordState(current State) {
	for _, s := range States {
		v := 0.0
		if s == current {
			v = 1
		}
		metrics.State.WithLabelValues(string(s)).Set(v)
	}
}

type nopRenderer struct{}

func (nopRenderer) Reload()      {}
func (nopRenderer) Alert(string) {}
