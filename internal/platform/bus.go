// Package platform carries host-environment signals (visibility,
// connectivity, shutdown) to the components that react to them.
package platform

import "sync"

// Signal is one platform event.
type Signal int

const (
	Visible Signal = iota
	Hidden
	Online
	Offline
	Unload
)

func (s Signal) String() string {
	switch s {
	case Visible:
		return "visible"
	case Hidden:
		return "hidden"
	case Online:
		return "online"
	case Offline:
		return "offline"
	case Unload:
		return "unload"
	default:
		return "unknown"
	}
}

// Handler receives signals. Handlers run on the publisher's goroutine and
// must not block.
type Handler func(Signal)

// Bus fans signals out to subscribers.
type Bus struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[uint64]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[uint64]Handler)}
}

// Subscribe registers fn and returns the handle that removes it.
func (b *Bus) Subscribe(fn Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.handlers[id] = fn
	return &Subscription{bus: b, id: id}
}

// Publish delivers sig to every current subscriber.
func (b *Bus) Publish(sig Signal) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(sig)
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, id)
}

// Subscription is the unsubscribe handle returned by Subscribe.
type Subscription struct {
	bus  *Bus
	id   uint64
	once sync.Once
}

// Unsubscribe stops delivery. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.bus.remove(s.id)
	})
}
