package service

import "sync"

// Event resources.
const (
	ResourceLayers = "layers"
	ResourceMap    = "map"
	ResourceNotice = "notice"
)

// Event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionShown   = "shown"
	ActionHidden  = "hidden"
	ActionReset   = "reset"
	ActionLoaded  = "loaded"
	ActionFailed  = "failed"
)

// Event represents a document mutation or a notice for the user.
type Event struct {
	Resource string // "layers", "map" or "notice"
	Action   string // "created", "updated", "deleted", ...
	ID       string // layer ID, empty for map-wide events
	Message  string // human readable text for notices
}

// EventBus is a simple fan-out pub/sub for document change events.
type EventBus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[chan Event]struct{})}
}

// Publish sends an event to all subscribers (non-blocking).
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			// subscriber too slow, skip
		}
	}
}

// Subscribe returns a buffered channel that receives events.
func (b *EventBus) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *EventBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}
