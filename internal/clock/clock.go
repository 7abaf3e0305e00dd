// internal/clock/clock.go
package clock

import "time"

// Clock is the only source of time for the monitor loops.
// Production wires Real(); tests wire Fake() and move time with Advance.
type Clock interface {
	Now() time.Time

	// After delivers the current time once d has elapsed.
	// d <= 0 delivers immediately.
	After(d time.Duration) <-chan time.Time

	// NewTicker panics if d <= 0, like time.NewTicker.
	NewTicker(d time.Duration) *Ticker
}

// Ticker delivers periodic ticks on C (capacity 1, ticks dropped when full).
type Ticker struct {
	C <-chan time.Time

	stop func()
}

// Stop turns off the ticker. C is not closed.
func (t *Ticker) Stop() { t.stop() }
