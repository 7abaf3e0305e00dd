// internal/probe/poll.go
package probe

import "context"

// Source abstracts the appliance read path.
// *Client implements it; tests use fakes.
type Source interface {
	Live(ctx context.Context) bool
	FetchStatus(ctx context.Context) ([]ServiceStatus, error)
}

// PollOnce performs exactly one starting-loop sample.
// Liveness short-circuits: when live, the status feed is not read.
func PollOnce(ctx context.Context, src Source) PollResult {
	if src.Live(ctx) {
		return PollResult{Live: true}
	}

	services, err := src.FetchStatus(ctx)
	if err != nil {
		return PollResult{Err: err}
	}
	return PollResult{Services: services}
}

// Reachable reports whether either signal says the appliance answers again.
// A readable status feed counts regardless of its content.
func Reachable(ctx context.Context, src Source) bool {
	if _, err := src.FetchStatus(ctx); err == nil {
		return true
	}
	return src.Live(ctx)
}
