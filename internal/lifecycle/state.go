// internal/lifecycle/state.go
package lifecycle

// State is the single lifecycle value a renderer selects visuals from.
type State string

const (
	Starting         State = "starting"
	Ready            State = "ready" // terminal: renderers reload
	Error            State = "error"
	ShuttingDown     State = "shutting-down"
	ShutdownComplete State = "shutdown-complete"
	Restarting       State = "restarting"
)

// States lists every state in a stable order.
var States = []State{Starting, Ready, Error, ShuttingDown, ShutdownComplete, Restarting}

func (s State) Valid() bool {
	for _, v := range States {
		if s == v {
			return true
		}
	}
	return false
}

// Attribute keys of the rendering contract.
const (
	AttrStatus = "status"
	AttrError  = "error"
)

// View is everything a renderer may read.
// Error is set only while Status is Error.
type View struct {
	Status State  `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Attributes renders the view as the two key/value attributes.
// The error key is present only when there is a code.
func (v View) Attributes() map[string]string {
	attrs := map[string]string{AttrStatus: string(v.Status)}
	if v.Error != "" {
		attrs[AttrError] = v.Error
	}
	return attrs
}
