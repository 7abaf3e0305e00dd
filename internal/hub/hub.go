// internal/hub/hub.go
package hub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tamzrod/appliance-monitor/internal/lifecycle"
	"github.com/tamzrod/appliance-monitor/internal/metrics"
)

// Event types sent to renderers.
const (
	EventState  = "state"
	EventReload = "reload"
	EventAlert  = "alert"
)

// Event is one text frame on the renderer socket.
type Event struct {
	Type    string            `json:"type"`
	State   *lifecycle.View   `json:"state,omitempty"`
	Attrs   map[string]string `json:"attributes,omitempty"`
	Message string            `json:"message,omitempty"`
}

// subscriber queue depth; a renderer that falls further behind loses events
const queueDepth = 16

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Hub fans lifecycle events out to connected renderers.
// It implements lifecycle.Renderer.
type Hub struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
	last []byte // latest state frame, replayed to new renderers

	quit     chan struct{}
	quitOnce sync.Once
}

func New() *Hub {
	return &Hub{
		subs: map[chan []byte]struct{}{},
		quit: make(chan struct{}),
	}
}

func (h *Hub) subscribe() chan []byte {
	ch := make(chan []byte, queueDepth)
	h.mu.Lock()
	if h.last != nil {
		ch <- h.last
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

func (h *Hub) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("encode renderer event", "type", ev.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if ev.Type == EventState {
		h.last = data
	}
	for ch := range h.subs {
		select {
		case ch <- data:
		default:
			slog.Warn("renderer queue full, event dropped", "type", ev.Type)
		}
	}
}

// Reload tells every renderer to hand control back to the appliance UI.
func (h *Hub) Reload() { h.broadcast(Event{Type: EventReload}) }

// Alert shows a one-shot message on every renderer.
func (h *Hub) Alert(message string) { h.broadcast(Event{Type: EventAlert, Message: message}) }

// Publish sends a state frame.
func (h *Hub) Publish(v lifecycle.View) {
	h.broadcast(Event{Type: EventState, State: &v, Attrs: v.Attributes()})
}

// Observer is the ordered read side of the lifecycle store.
type Observer interface {
	Observe(fn func(lifecycle.View)) (cancel func())
}

// Follow publishes every view change in step with the store, so a state
// frame always precedes the reload or alert that follows the transition.
// Call the returned func to stop.
func (h *Hub) Follow(src Observer) (stop func()) {
	return src.Observe(h.Publish)
}

// Close disconnects every renderer. The hub stays usable for broadcasts.
func (h *Hub) Close() {
	h.quitOnce.Do(func() { close(h.quit) })
}

// ServeHTTP upgrades the connection and streams events until the
// renderer goes away or the hub is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	metrics.Renderers.Inc()
	defer metrics.Renderers.Dec()

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	// Renderers never send; reading only detects the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case <-h.quit:
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		case msg := <-ch:
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Info("renderer write failed", "error", err)
				return
			}
		}
	}
}
