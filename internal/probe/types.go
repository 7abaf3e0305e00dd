// internal/probe/types.go
package probe

import "fmt"

// StatusErrored is the only service status the monitor interprets.
// Every other status value is opaque.
const StatusErrored = "errored"

// ServiceStatus is one entry of the status feed.
// Each fetch is a full snapshot: entries are never merged across polls.
type ServiceStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"` // set only when Status == errored
}

// PollResult is what one starting-loop sample observed.
type PollResult struct {
	Live bool

	// Services is nil when Live is true (the feed is not read) or Err is set.
	Services []ServiceStatus

	// Err is non-nil when the status feed could not be read.
	// It means "status unknown", never "no errors".
	Err error
}

// FetchError reports a failed status feed read.
type FetchError struct {
	Op  string // "request", "decode"
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("status feed %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FirstErrorCode returns the error code of the first errored service in
// feed order. Later errored services are not surfaced.
func FirstErrorCode(services []ServiceStatus) (string, bool) {
	for _, s := range services {
		if s.Status == StatusErrored {
			return s.Error, true
		}
	}
	return "", false
}
