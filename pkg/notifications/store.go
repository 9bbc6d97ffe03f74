package notifications

import (
	"sync"
	"time"

	"github.com/dmitrymomot/trackkit/pkg/bus"
	"github.com/dmitrymomot/trackkit/pkg/tmpl"
)

// DefaultCapacity bounds the notification collection; the oldest entry is
// evicted silently on overflow.
const DefaultCapacity = 50

// Store is the bounded in-memory notification collection.
// All methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	entries  []Notification // newest-first
	unread   int
	nextID   int64
	capacity int
	rules    map[bus.Kind]Rule
	now      func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithRule overrides or extends the mapping rule for an event kind.
func WithRule(kind bus.Kind, rule Rule) StoreOption {
	return func(s *Store) {
		s.rules[kind] = rule
	}
}

// WithCapacity overrides the default collection bound.
func WithCapacity(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithStoreClock injects the time source used to stamp notifications.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an empty store with the default per-kind mapping rules.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		capacity: DefaultCapacity,
		rules:    defaultRules(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Attach subscribes the store's event hook to every mapped kind on the bus.
// The returned func detaches all subscriptions.
func (s *Store) Attach(b *bus.Bus) func() {
	s.mu.RLock()
	kinds := make([]bus.Kind, 0, len(s.rules))
	for kind := range s.rules {
		kinds = append(kinds, kind)
	}
	s.mu.RUnlock()

	subs := make([]*bus.Subscription, 0, len(kinds))
	for _, kind := range kinds {
		subs = append(subs, b.Subscribe(kind, s.onEvent))
	}

	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}

// onEvent maps a bus event to a notification and prepends it.
// Kinds without a rule never reach here via Attach, but direct callers are
// tolerated: unmapped kinds are ignored.
func (s *Store) onEvent(event bus.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, ok := s.rules[event.Kind]
	if !ok {
		return
	}

	ts := event.OccurredAt
	if ts.IsZero() {
		ts = s.now()
	}

	s.nextID++
	notif := Notification{
		ID:        s.nextID,
		Kind:      event.Kind,
		Icon:      rule.Icon,
		Title:     rule.Title,
		Message:   tmpl.Render(rule.MessageTemplate, event.Payload),
		Timestamp: ts,
		Priority:  rule.Priority,
	}

	s.entries = append([]Notification{notif}, s.entries...)
	if len(s.entries) > s.capacity {
		// Evicted entries may still be unread; the counter tracks the
		// collection, not history.
		for _, evicted := range s.entries[s.capacity:] {
			if !evicted.Read {
				s.unread--
			}
		}
		s.entries = s.entries[:s.capacity]
	}
	s.unread++
}

// MarkRead marks the entry with the given id as read. It reports whether
// state changed: false for an unknown id or an already-read entry.
func (s *Store) MarkRead(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			if s.entries[i].Read {
				return false
			}
			s.entries[i].Read = true
			if s.unread > 0 {
				s.unread--
			}
			return true
		}
	}
	return false
}

// MarkAllRead marks every entry as read and zeroes the unread counter.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		s.entries[i].Read = true
	}
	s.unread = 0
}

// Clear empties the collection and zeroes the unread counter.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.unread = 0
}

// ListOptions filters List results.
type ListOptions struct {
	OnlyUnread bool     // when true, only entries with Read=false
	Kind       bus.Kind // when set, only entries of this kind
}

// List returns a filtered copy of the collection in stored order
// (newest-first). It never mutates read state.
func (s *Store) List(opts ListOptions) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, 0, len(s.entries))
	for _, n := range s.entries {
		if opts.OnlyUnread && n.Read {
			continue
		}
		if opts.Kind != "" && n.Kind != opts.Kind {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Unread returns the count of entries with Read=false.
func (s *Store) Unread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// Len returns the number of entries currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
