// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PollTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_poll_ticks_total",
		Help: "Starting-loop ticks by outcome (live, errored, pending, failed)",
	}, []string{"outcome"})

	State = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "monitor_lifecycle_state",
		Help: "1 for the current lifecycle state, 0 otherwise",
	}, []string{"state"})

	PowerActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_power_actions_total",
		Help: "Power actions by action and outcome (confirmed, assumed, failed)",
	}, []string{"action", "outcome"})

	RecoveryChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_recovery_checks_total",
		Help: "Post-restart reachability checks by result",
	}, []string{"result"})

	Reloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_reloads_total",
		Help: "Reload events handed to renderers",
	})

	Alerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_alerts_total",
		Help: "One-shot alerts raised for failed power actions",
	})

	Renderers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "monitor_renderers_connected",
		Help: "Connected WebSocket renderers",
	})

	ExportWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_export_writes_total",
		Help: "Modbus status block writes by kind (full, incremental) and result",
	}, []string{"kind", "result"})
)
