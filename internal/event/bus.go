package event

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/globenav/internal/logging"
)

// Handler receives events.
type Handler func(ev Event)

// Subscription identifies one registered handler.
type Subscription struct {
	// ID is the unique subscription identifier.
	ID string
	// Topic is the subscribed topic pattern.
	Topic Topic
}

type subscriber struct {
	Subscription
	handler Handler
}

// Stats contains bus statistics.
type Stats struct {
	Subscriptions   int
	EventsPublished uint64
	EventsDelivered uint64
	HandlerPanics   uint64
	EventsUnmatched uint64
}

// Bus delivers events synchronously to subscribed handlers. It is safe for
// concurrent use; handlers may subscribe and unsubscribe while running.
type Bus struct {
	mu          sync.RWMutex
	subscribers []*subscriber

	logger *slog.Logger

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	eventsUnmatched atomic.Uint64
	handlerPanics   atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithLogger sets the logger used for handler panics.
func WithLogger(l *slog.Logger) BusOption {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{logger: logging.Discard()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn for every topic matching pattern.
func (b *Bus) Subscribe(pattern Topic, fn Handler) (Subscription, error) {
	if !pattern.Valid() {
		return Subscription{}, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	if fn == nil {
		return Subscription{}, ErrNilHandler
	}

	sub := &subscriber{
		Subscription: Subscription{ID: uuid.NewString(), Topic: pattern},
		handler:      fn,
	}

	b.mu.Lock()
	b.subscribers = append(b.subscribers, sub)
	b.mu.Unlock()
	return sub.Subscription, nil
}

// Unsubscribe removes the subscription with the given ID.
func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subscribers {
		if s.ID == id {
			b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers ev to every matching handler before returning. It
// reports how many handlers ran.
func (b *Bus) Publish(ev Event) int {
	b.mu.RLock()
	matched := make([]*subscriber, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		if ev.Topic.Matches(s.Topic) {
			matched = append(matched, s)
		}
	}
	b.mu.RUnlock()

	b.eventsPublished.Add(1)
	if len(matched) == 0 {
		b.eventsUnmatched.Add(1)
		return 0
	}

	delivered := 0
	for _, s := range matched {
		if b.deliver(s, ev) {
			delivered++
		}
	}
	return delivered
}

// Emit is shorthand for Publish(NewEvent(t, payload, source)).
func (b *Bus) Emit(t Topic, payload any, source string) int {
	return b.Publish(NewEvent(t, payload, source))
}

func (b *Bus) deliver(s *subscriber, ev Event) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			b.logger.Error("event handler panicked",
				"topic", ev.Topic, "subscription", s.ID, "panic", r)
			ok = false
		}
	}()

	s.handler(ev)
	b.eventsDelivered.Add(1)
	return true
}

// Stats returns bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	n := len(b.subscribers)
	b.mu.RUnlock()

	return Stats{
		Subscriptions:   n,
		EventsPublished: b.eventsPublished.Load(),
		EventsDelivered: b.eventsDelivered.Load(),
		HandlerPanics:   b.handlerPanics.Load(),
		EventsUnmatched: b.eventsUnmatched.Load(),
	}
}
