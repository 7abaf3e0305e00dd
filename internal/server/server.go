// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamzrod/appliance-monitor/internal/lifecycle"
)

// Controller is the part of the monitor the HTTP surface drives.
type Controller interface {
	Shutdown(ctx context.Context) error
	Restart(ctx context.Context) error
}

// ViewReader reads the current lifecycle view.
type ViewReader interface {
	View() lifecycle.View
}

type Deps struct {
	Monitor   Controller
	Views     ViewReader
	Renderers http.Handler // websocket endpoint
}

// New returns the rendering boundary handler with the framing guard applied.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/state", d.handleState)
	mux.HandleFunc("POST /api/shutdown", d.handleAction("shutdown", d.Monitor.Shutdown))
	mux.HandleFunc("POST /api/restart", d.handleAction("restart", d.Monitor.Restart))
	if d.Renderers != nil {
		mux.Handle("GET /api/ws", d.Renderers)
	}
	return denyFraming(mux)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type stateResponse struct {
	lifecycle.View
	Attributes map[string]string `json:"attributes"`
}

func (d Deps) handleState(w http.ResponseWriter, r *http.Request) {
	v := d.Views.View()
	writeJSON(w, http.StatusOK, stateResponse{View: v, Attributes: v.Attributes()})
}

type actionResponse struct {
	OK    bool           `json:"ok"`
	Error string         `json:"error,omitempty"`
	State lifecycle.View `json:"state"`
}

func (d Deps) handleAction(name string, do func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// A client hanging up must not cancel a request already on its way
		// to the appliance.
		err := do(context.WithoutCancel(r.Context()))
		resp := actionResponse{OK: err == nil, State: d.Views.View()}

		switch {
		case err == nil:
			writeJSON(w, http.StatusAccepted, resp)
		case errors.Is(err, lifecycle.ErrActionFailed):
			resp.Error = err.Error()
			writeJSON(w, http.StatusBadGateway, resp)
		default:
			slog.Error("power action request", "action", name, "error", err)
			resp.Error = err.Error()
			writeJSON(w, http.StatusInternalServerError, resp)
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "error", err)
	}
}
