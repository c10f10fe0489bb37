package events

import (
	"errors"
	"sync"
	"time"

	"github.com/guttosm/shoppulse/internal/metrics"
)

// Type names a change to the session log.
type Type string

const (
	SessionLoaded  Type = "session.loaded"
	SessionCleared Type = "session.cleared"
)

// Event is broadcast whenever the session log is replaced or discarded.
type Event struct {
	Type     Type      `json:"type"`
	UploadID string    `json:"upload_id,omitempty"`
	FileName string    `json:"file_name,omitempty"`
	At       time.Time `json:"at"`
}

const subscriberBuffer = 16

// ErrClosed reports that the hub has been shut down and no longer delivers events.
var ErrClosed = errors.New("event hub closed")

// Hub fans events out to any number of subscribers. Publish never blocks:
// a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]chan Event
	next   uint64
	closed bool
}

// NewHub returns a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan Event)}
}

// Subscribe registers a new subscriber. The returned func ends the
// subscription and closes the channel; calling it twice is harmless.
// Subscribing to a closed hub yields an already closed channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.next
	h.next++
	h.subs[id] = ch
	metrics.EventSubscribers.Inc()

	return ch, func() { h.unsubscribe(id) }
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
		metrics.EventSubscribers.Dec()
	}
}

// Publish delivers ev to every subscriber with room for it and returns how
// many received it.
func (h *Hub) Publish(ev Event) int {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for _, ch := range h.subs {
		select {
		case ch <- ev:
			delivered++
		default:
			metrics.EventsDroppedTotal.Inc()
		}
	}
	return delivered
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every subscription. Later Publish calls are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
		metrics.EventSubscribers.Dec()
	}
}

// Err returns ErrClosed once Close has run, nil before.
func (h *Hub) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	return nil
}
