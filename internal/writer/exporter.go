// internal/writer/exporter.go
package writer

import (
	"context"
	"log/slog"
	"time"

	"github.com/tamzrod/appliance-monitor/internal/clock"
	"github.com/tamzrod/appliance-monitor/internal/lifecycle"
	"github.com/tamzrod/appliance-monitor/internal/status"
)

// ViewSource is the read side of the lifecycle store.
type ViewSource interface {
	Subscribe() (<-chan lifecycle.Change, func())
}

// Exporter mirrors the lifecycle view into a status block:
// on every change, and on a 1 Hz tick for the seconds counter.
type Exporter struct {
	src   ViewSource
	w     StatusWriter
	clock clock.Clock
}

func NewExporter(src ViewSource, w StatusWriter, c clock.Clock) *Exporter {
	if c == nil {
		c = clock.Real()
	}
	return &Exporter{src: src, w: w, clock: c}
}

// Run blocks until ctx is done. Write failures are logged; the writer
// re-asserts the full block on the next write.
func (e *Exporter) Run(ctx context.Context) error {
	changes, cancel := e.src.Subscribe()
	defer cancel()

	secTicker := e.clock.NewTicker(time.Second)
	defer secTicker.Stop()

	// State code and seconds always come from the same change.
	var (
		cur  lifecycle.Change
		have bool
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case c, ok := <-changes:
			if !ok {
				return nil
			}
			cur, have = c, true
			e.write(cur)

		case <-secTicker.C:
			if have {
				e.write(cur)
			}
		}
	}
}

func (e *Exporter) write(c lifecycle.Change) {
	seconds := int(e.clock.Now().Sub(c.Since) / time.Second)
	if err := e.w.WriteStatus(status.FromView(c.View, seconds)); err != nil {
		slog.Warn("status export write failed", "state", string(c.View.Status), "error", err)
	}
}
