// internal/lifecycle/store.go
package lifecycle

import (
	"sync"
	"time"

	"github.com/tamzrod/appliance-monitor/internal/clock"
)

// Store holds the current View. The Monitor is its only writer;
// renderers read it or subscribe to changes.
type Store struct {
	clock clock.Clock

	mu        sync.Mutex
	view      View
	since     time.Time
	subs      map[int]chan Change
	observers map[int]func(View)
	next      int
}

// Change is a view together with the moment its state was entered.
type Change struct {
	View  View
	Since time.Time
}

// NewStore returns a store in the initial Starting state.
func NewStore(c clock.Clock) *Store {
	return &Store{
		clock: c,
		view:  View{Status: Starting},
		since: c.Now(),
		subs:      make(map[int]chan Change),
		observers: make(map[int]func(View)),
	}
}

// View returns the current view.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Subscribe returns a channel that first carries the current view and
// then every change. A slow reader only sees the latest change.
// Call cancel to release the subscription; the channel is then closed.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan Change, 1)
	ch <- Change{View: s.view, Since: s.since}
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Observe calls fn with the current view and then with every change, in
// order. fn has seen a change before the write that made it returns.
// fn runs under the store lock: it must not block or call the store.
func (s *Store) Observe(fn func(View)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	s.observers[id] = fn
	fn(s.view)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// set replaces the view unconditionally. Returns false when nothing changed.
func (s *Store) set(v View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(v)
}

// transition replaces the view only while the current state is from.
func (s *Store) transition(from State, v View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view.Status != from {
		return false
	}
	return s.setLocked(v)
}

func (s *Store) setLocked(v View) bool {
	if v.Status != Error {
		v.Error = ""
	}
	if v == s.view {
		return false
	}
	if v.Status != s.view.Status {
		s.since = s.clock.Now()
	}
	s.view = v

	for _, fn := range s.observers {
		fn(v)
	}

	c := Change{View: v, Since: s.since}
	for _, ch := range s.subs {
		// Latest wins: drop a pending stale change.
		select {
		case <-ch:
		default:
		}
		ch <- c
	}
	return true
}
