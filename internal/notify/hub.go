// Package notify fans change notifications out to in-process subscribers.
package notify

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// Change is one committed mutation of the identifier.
type Change struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	At         time.Time `json:"at"`
}

// Hub delivers changes to every subscriber without blocking the notifier.
// A subscriber whose buffer is full misses the change.
type Hub struct {
	mu      sync.RWMutex
	subs    map[chan Change]struct{}
	buffer  int
	dropped atomic.Uint64
	closed  bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[chan Change]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a listener. The returned cancel func unregisters it and
// closes the channel; calling it more than once is safe.
func (h *Hub) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, h.buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
}

// NotifyChange implements provider.ChangeNotifier.
func (h *Hub) NotifyChange(identifier string) {
	h.Publish(Change{
		ID:         uuid.NewString(),
		Identifier: identifier,
		At:         time.Now().UTC(),
	})
}

func (h *Hub) Publish(c Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- c:
		default:
			h.dropped.Add(1)
		}
	}
}

// Dropped returns how many deliveries were skipped because a subscriber was
// not keeping up.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscriber channel. Later subscriptions get a closed
// channel and later changes go nowhere.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
