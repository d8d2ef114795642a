package realtime

import (
	"sync"
	"time"

	"cinebook/internal/holds"

	"github.com/google/uuid"
)

const subscriberBuffer = 16

// Hub fans events out to every subscriber watching a showing. Delivery is
// best-effort: a publisher never blocks on a slow watcher. Per showing,
// events are delivered in publish order; when a subscriber's buffer fills,
// the oldest buffered event is dropped in favour of the newer one, so a
// watcher can never end up holding a newer state and then receive an older
// one.
type Hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[uuid.UUID]map[chan Event]struct{}),
	}
}

// Subscribe registers a watcher for one showing. The returned cancel func
// must be called when the watcher disconnects; it closes the channel.
func (h *Hub) Subscribe(showingID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[showingID] == nil {
		h.subs[showingID] = make(map[chan Event]struct{})
	}
	h.subs[showingID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[showingID], ch)
			if len(h.subs[showingID]) == 0 {
				delete(h.subs, showingID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers an event to all subscribers of its showing.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[ev.ShowingID] {
		select {
		case ch <- ev:
		default:
			// Buffer full: evict the oldest event, then enqueue.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// WatcherCount returns how many subscribers a showing currently has.
func (h *Hub) WatcherCount(showingID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[showingID])
}

// HoldsUpdated implements holds.Broadcaster.
func (h *Hub) HoldsUpdated(showingID uuid.UUID, live []holds.Hold) {
	h.Publish(Event{
		Type:      EventHoldsUpdated,
		ShowingID: showingID,
		Holds:     live,
		At:        time.Now(),
	})
}

// SeatsConfirmed implements holds.Broadcaster.
func (h *Hub) SeatsConfirmed(showingID uuid.UUID, seats []string) {
	h.Publish(Event{
		Type:      EventSeatsConfirmed,
		ShowingID: showingID,
		Seats:     seats,
		At:        time.Now(),
	})
}
