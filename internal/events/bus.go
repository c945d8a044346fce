package events

import "sync"

// Lifecycle event names published by the cart transport and controller.
// External collaborators (analytics, upsell widgets) subscribe to these
// without touching the cart internals.
const (
	BeforeGetCart        = "beforeGetCart"
	AfterGetCart         = "afterGetCart"
	BeforeAddItem        = "beforeAddItem"
	AfterAddItem         = "afterAddItem"
	ErrorAddItem         = "errorAddItem"
	BeforeChangeItem     = "beforeChangeItem"
	AfterChangeItem      = "afterChangeItem"
	ErrorChangeItem      = "errorChangeItem"
	BeforeUpdateCartNote = "beforeUpdateCartNote"
	AfterUpdateCartNote  = "afterUpdateCartNote"
	ErrorUpdateCartNote  = "errorUpdateCartNote"
	AfterCartLoad        = "afterCartLoad"
)

// Handler receives the payload published with an event.
type Handler func(payload interface{})

// Bus is a small in-process publish/subscribe hub. Handlers run synchronously
// in subscription order on the publishing goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for the named event.
func (b *Bus) Subscribe(event string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], h)
}

// Publish delivers payload to every handler subscribed to the named event.
// Publishing with no subscribers is a no-op.
func (b *Bus) Publish(event string, payload interface{}) {
	b.mu.RLock()
	handlers := b.handlers[event]
	b.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}
