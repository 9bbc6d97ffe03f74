package bus

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/trackkit/pkg/logger"
)

// State is the bus connection state. It is owned exclusively by the bus;
// collaborators observe it via State() but never set it directly.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnected    State = "connected"
)

// Bus multiplexes named events to registered handlers.
// All methods are safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]*Subscription
	state    State
	nextID   uint64

	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used for dropped publishes and handler panics.
func WithLogger(log *slog.Logger) Option {
	return func(b *Bus) {
		if log != nil {
			b.logger = log
		}
	}
}

// WithClock injects the time source used to stamp events.
// Tests use this to run deterministically without wall-clock reads.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a bus in the disconnected state. A collaborator owning the
// session lifecycle calls Connect once an authenticated session exists.
func New(opts ...Option) *Bus {
	b := &Bus{
		handlers: make(map[Kind][]*Subscription),
		state:    StateDisconnected,
		logger:   slog.Default(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Subscription represents a registered handler. It stays active until
// Unsubscribe is called, surviving bus disconnects.
type Subscription struct {
	id      uint64
	kind    Kind
	handler Handler
	bus     *Bus
	once    sync.Once
}

// Kind returns the event kind this subscription listens for.
func (s *Subscription) Kind() Kind { return s.kind }

// Unsubscribe deregisters the handler. It is idempotent and safe to call
// concurrently with Publish; an in-flight delivery may still complete.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.remove(s)
	})
}

// Subscribe registers handler for every published event of the given kind.
// Handlers for a kind are invoked in registration order.
func (b *Bus) Subscribe(kind Kind, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:      b.nextID,
		kind:    kind,
		handler: handler,
		bus:     b,
	}
	b.handlers[kind] = append(b.handlers[kind], sub)
	return sub
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[sub.kind]
	for i, s := range subs {
		if s.id == sub.id {
			b.handlers[sub.kind] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[sub.kind]) == 0 {
		delete(b.handlers, sub.kind)
	}
}

// Publish delivers an event to every handler registered for kind, in
// registration order, on the caller's goroutine. Publishing while
// disconnected is a no-op: the event is dropped and logged, never an error.
func (b *Bus) Publish(kind Kind, payload map[string]any) {
	b.mu.RLock()
	state := b.state
	// Copy the slice header so handlers registered or removed mid-publish
	// do not affect this delivery.
	subs := b.handlers[kind]
	now := b.now()
	b.mu.RUnlock()

	if state != StateConnected {
		b.logger.LogAttrs(context.Background(), slog.LevelDebug, "event dropped: bus disconnected",
			logger.EventKind(string(kind)),
		)
		return
	}

	event := Event{Kind: kind, Payload: payload, OccurredAt: now}
	for _, sub := range subs {
		b.deliver(sub, event)
	}
}

// deliver invokes one handler, containing panics so a misbehaving consumer
// cannot take down the publisher or starve later handlers.
func (b *Bus) deliver(sub *Subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.LogAttrs(context.Background(), slog.LevelError, "event handler panicked",
				logger.EventKind(string(event.Kind)),
				slog.Any("panic", r),
			)
		}
	}()
	sub.handler(event)
}

// Connect transitions the bus to the connected state. Idempotent.
func (b *Bus) Connect() {
	b.setState(StateConnected)
}

// Disconnect stops event delivery without deregistering any handlers.
// Delivery resumes on the next Connect. Idempotent.
func (b *Bus) Disconnect() {
	b.setState(StateDisconnected)
}

func (b *Bus) setState(s State) {
	b.mu.Lock()
	changed := b.state != s
	b.state = s
	b.mu.Unlock()

	if changed {
		b.logger.LogAttrs(context.Background(), slog.LevelInfo, "bus state changed",
			slog.String("state", string(s)),
		)
	}
}

// State reports the current connection state.
func (b *Bus) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Connected reports whether the bus currently delivers events.
func (b *Bus) Connected() bool {
	return b.State() == StateConnected
}

// SubscriberCount returns the number of active subscriptions for a kind.
// Exposed for observability; not part of the delivery contract.
func (b *Bus) SubscriberCount(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[kind])
}
