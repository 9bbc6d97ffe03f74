package trackkit

import (
	"log/slog"
	"sync"

	"github.com/dmitrymomot/trackkit/pkg/bus"
	"github.com/dmitrymomot/trackkit/pkg/dispatch"
	"github.com/dmitrymomot/trackkit/pkg/email"
	"github.com/dmitrymomot/trackkit/pkg/livemetrics"
	"github.com/dmitrymomot/trackkit/pkg/notifications"
)

// Session owns one wired event pipeline for an authenticated user: the bus,
// the notification store, the metrics aggregator, and the email dispatcher.
// The session lifecycle drives the bus connection state: Start connects,
// Stop disconnects. Consumers stay subscribed across Stop/Start cycles.
type Session struct {
	mu      sync.Mutex
	started bool
	detach  []func()

	bus        *bus.Bus
	store      *notifications.Store
	metrics    *livemetrics.Aggregator
	dispatcher *dispatch.Dispatcher

	kindCategories map[bus.Kind]string
	logger         *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger propagated to components the session constructs.
func WithLogger(log *slog.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithBus injects a pre-built bus instead of the session constructing one.
func WithBus(b *bus.Bus) SessionOption {
	return func(s *Session) {
		if b != nil {
			s.bus = b
		}
	}
}

// WithStore injects a pre-built notification store.
func WithStore(store *notifications.Store) SessionOption {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithAggregator injects a pre-built metrics aggregator.
func WithAggregator(a *livemetrics.Aggregator) SessionOption {
	return func(s *Session) {
		if a != nil {
			s.metrics = a
		}
	}
}

// WithDispatcher injects a pre-built dispatcher; the sender passed to
// NewSession is ignored in that case.
func WithDispatcher(d *dispatch.Dispatcher) SessionOption {
	return func(s *Session) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithKindCategories overrides the event-kind to delivery-category mapping
// used when attaching the dispatcher.
func WithKindCategories(mapping map[bus.Kind]string) SessionOption {
	return func(s *Session) {
		if mapping != nil {
			s.kindCategories = mapping
		}
	}
}

// NewSession builds a session with default components for any not injected
// via options. The sender backs the session's email dispatcher.
func NewSession(sender email.Sender, opts ...SessionOption) *Session {
	s := &Session{logger: slog.Default()}

	for _, opt := range opts {
		opt(s)
	}

	if s.bus == nil {
		s.bus = bus.New(bus.WithLogger(s.logger))
	}
	if s.store == nil {
		s.store = notifications.NewStore()
	}
	if s.metrics == nil {
		s.metrics = livemetrics.New()
	}
	if s.dispatcher == nil {
		s.dispatcher = dispatch.New(sender, dispatch.WithLogger(s.logger))
	}

	return s
}

// Initialize snapshots the user's identity and delivery preferences into
// the dispatcher. Called once at session start by the identity
// collaborator; calling again hot-swaps the snapshot.
func (s *Session) Initialize(prefs dispatch.Preferences) {
	s.dispatcher.Initialize(prefs)
}

// PreferencesChanged merges a partial per-category preference update.
func (s *Session) PreferencesChanged(partial map[string]bool) {
	s.dispatcher.UpdatePreferences(partial)
}

// SetEmailEnabled flips the dispatcher's master flag.
func (s *Session) SetEmailEnabled(enabled bool) {
	s.dispatcher.SetEnabled(enabled)
}

// Start attaches the consumers and connects the bus. Idempotent.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.detach = append(s.detach,
			s.store.Attach(s.bus),
			s.metrics.Attach(s.bus),
			s.dispatcher.Attach(s.bus, s.kindCategories),
		)
		s.started = true
	}
	s.bus.Connect()
}

// Stop disconnects the bus. Subscriptions persist, so a later Start resumes
// delivery without re-attaching. Idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Disconnect()
}

// Close tears the pipeline down: disconnects the bus and detaches every
// consumer, waiting for in-flight dispatches.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bus.Disconnect()
	for _, detach := range s.detach {
		detach()
	}
	s.detach = nil
	s.started = false
}

// Bus returns the session's event bus: the sole entry point for external
// state changes.
func (s *Session) Bus() *bus.Bus { return s.bus }

// Notifications returns the session's notification store.
func (s *Session) Notifications() *notifications.Store { return s.store }

// Metrics returns the session's live metrics aggregator.
func (s *Session) Metrics() *livemetrics.Aggregator { return s.metrics }

// Dispatcher returns the session's email dispatcher.
func (s *Session) Dispatcher() *dispatch.Dispatcher { return s.dispatcher }
