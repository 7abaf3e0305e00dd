// internal/writer/exporter_test.go
package writer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tamzrod/appliance-monitor/internal/clock"
	"github.com/tamzrod/appliance-monitor/internal/lifecycle"
	"github.com/tamzrod/appliance-monitor/internal/status"
)

type fakeViewSource struct {
	ch chan lifecycle.Change
}

func (f *fakeViewSource) Subscribe() (<-chan lifecycle.Change, func()) {
	return f.ch, func() {}
}

func (f *fakeViewSource) set(v lifecycle.View, since time.Time) {
	f.ch <- lifecycle.Change{View: v, Since: since}
}

type recordingWriter struct {
	mu    sync.Mutex
	snaps []status.Snapshot
}

func (r *recordingWriter) WriteStatus(s status.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
	return nil
}

func (r *recordingWriter) lastSnap() (status.Snapshot, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return status.Snapshot{}, 0
	}
	return r.snaps[len(r.snaps)-1], len(r.snaps)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestExporterWritesOnChangeAndTick(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.Fake(start)
	src := &fakeViewSource{ch: make(chan lifecycle.Change, 1)}
	w := &recordingWriter{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = NewExporter(src, w, clk).Run(ctx)
	}()

	src.set(lifecycle.View{Status: lifecycle.Error, Error: "E1"}, start)
	waitFor(t, func() bool { _, n := w.lastSnap(); return n == 1 })

	s, _ := w.lastSnap()
	if s.State != status.StateError || s.ErrorCode != "E1" || s.SecondsInState != 0 {
		t.Fatalf("unexpected snapshot on change: %+v", s)
	}

	clk.WaitForTimers(1)
	clk.Advance(3 * time.Second)
	// Ticks may coalesce; every tick reads the same clock.
	waitFor(t, func() bool { s, n := w.lastSnap(); return n >= 2 && s.SecondsInState == 3 })

	cancel()
	<-done
}

func TestExporterSecondsMatchDeliveredState(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.Fake(start)
	src := &fakeViewSource{ch: make(chan lifecycle.Change, 1)}
	w := &recordingWriter{}

	// The state was entered 40s before the change is read.
	clk.Advance(40 * time.Second)
	src.set(lifecycle.View{Status: lifecycle.Restarting}, start)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewExporter(src, w, clk).Run(ctx) }()

	waitFor(t, func() bool { _, n := w.lastSnap(); return n >= 1 })
	s, _ := w.lastSnap()
	if s.State != status.StateRestarting || s.SecondsInState != 40 {
		t.Fatalf("snapshot=%+v want restarting/40s", s)
	}

	// A newer state restarts the counter from its own entry time.
	src.set(lifecycle.View{Status: lifecycle.Starting}, start.Add(40*time.Second))
	waitFor(t, func() bool { s, _ := w.lastSnap(); return s.State == status.StateStarting })
	if s, _ := w.lastSnap(); s.SecondsInState != 0 {
		t.Fatalf("seconds=%d want 0 for a fresh state", s.SecondsInState)
	}
}
