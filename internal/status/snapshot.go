// internal/status/snapshot.go
package status

import "github.com/tamzrod/appliance-monitor/internal/lifecycle"

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	State          uint16
	ErrorCode      string
	SecondsInState uint16
}

// FromView maps a lifecycle view onto a snapshot.
func FromView(v lifecycle.View, seconds int) Snapshot {
	if seconds < 0 {
		seconds = 0
	}
	if seconds > MaxSecondsInState {
		seconds = MaxSecondsInState
	}
	return Snapshot{
		State:          StateCode(v.Status),
		ErrorCode:      v.Error,
		SecondsInState: uint16(seconds),
	}
}

// StateCode returns the register value for a lifecycle state.
func StateCode(s lifecycle.State) uint16 {
	switch s {
	case lifecycle.Starting:
		return StateStarting
	case lifecycle.Ready:
		return StateReady
	case lifecycle.Error:
		return StateError
	case lifecycle.ShuttingDown:
		return StateShuttingDown
	case lifecycle.ShutdownComplete:
		return StateShutdownComplete
	case lifecycle.Restarting:
		return StateRestarting
	default:
		return StateUnknown
	}
}
