package livemetrics

import (
	"sync"
	"time"

	"github.com/dmitrymomot/trackkit/pkg/bus"
	"github.com/dmitrymomot/trackkit/pkg/tmpl"
)

// ActivityCapacity bounds the recent-activity list.
const ActivityCapacity = 10

// Metrics is a point-in-time view of the aggregated counters.
type Metrics struct {
	Total          int       `json:"total"`
	Active         int       `json:"active"`
	DeliveredToday int       `json:"delivered_today"`
	Pending        int       `json:"pending"`
	Delayed        int       `json:"delayed"`
	LastUpdate     time.Time `json:"last_update"`
}

// Activity is one entry in the recent-activity list.
type Activity struct {
	Icon      string    `json:"icon"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is the read view returned by Aggregator.Snapshot: counter values
// plus the recent-activity list, newest-first.
type Snapshot struct {
	Metrics
	RecentActivity []Activity `json:"recent_activity"`
}

// Aggregator applies per-kind deltas from the event stream to the counters.
// All methods are safe for concurrent use.
type Aggregator struct {
	mu       sync.RWMutex
	metrics  Metrics
	activity []Activity // newest-first
	now      func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock injects the time source used for LastUpdate and activity stamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an aggregator with zeroed counters.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{now: time.Now}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Attach subscribes the aggregator to every kind it reacts to.
// The returned func detaches all subscriptions.
func (a *Aggregator) Attach(b *bus.Bus) func() {
	kinds := []bus.Kind{
		bus.KindEntityCreated,
		bus.KindEntityUpdated,
		bus.KindEntityDelivered,
		bus.KindEntityDelayed,
		bus.KindStatsUpdate,
	}

	subs := make([]*bus.Subscription, 0, len(kinds))
	for _, kind := range kinds {
		subs = append(subs, b.Subscribe(kind, a.onEvent))
	}

	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}

// onEvent applies the fixed per-kind delta table. Unknown kinds are ignored.
func (a *Aggregator) onEvent(event bus.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var icon, message string
	switch event.Kind {
	case bus.KindEntityCreated:
		a.metrics.Total++
		a.metrics.Active++
		a.metrics.Pending++
		icon, message = "package", "New shipment {{trackingNumber}}"
	case bus.KindEntityUpdated:
		icon, message = "refresh", "Shipment {{trackingNumber}} now {{status}}"
	case bus.KindEntityDelivered:
		a.metrics.DeliveredToday++
		a.metrics.Active = clampDec(a.metrics.Active)
		a.metrics.Pending = clampDec(a.metrics.Pending)
		icon, message = "check", "Shipment {{trackingNumber}} delivered"
	case bus.KindEntityDelayed:
		a.metrics.Delayed++
		icon, message = "clock", "Shipment {{trackingNumber}} delayed"
	case bus.KindStatsUpdate:
		a.replaceCounters(event.Payload)
		icon, message = "sync", "Dashboard counters synced"
	default:
		return
	}

	ts := event.OccurredAt
	if ts.IsZero() {
		ts = a.now()
	}
	a.metrics.LastUpdate = ts

	entry := Activity{
		Icon:      icon,
		Message:   tmpl.Render(message, event.Payload),
		Timestamp: ts,
	}
	a.activity = append([]Activity{entry}, a.activity...)
	if len(a.activity) > ActivityCapacity {
		a.activity = a.activity[:ActivityCapacity]
	}
}

// replaceCounters performs the full counter replacement carried by a
// stats:update event. Missing or non-numeric fields replace with zero;
// negative inputs clamp to zero to preserve the counter invariant.
func (a *Aggregator) replaceCounters(payload map[string]any) {
	a.metrics.Total = payloadInt(payload, "total")
	a.metrics.Active = payloadInt(payload, "active")
	a.metrics.DeliveredToday = payloadInt(payload, "deliveredToday")
	a.metrics.Pending = payloadInt(payload, "pending")
	a.metrics.Delayed = payloadInt(payload, "delayed")
}

// Snapshot returns a copy of the counters and recent-activity list.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return Snapshot{
		Metrics:        a.metrics,
		RecentActivity: append([]Activity(nil), a.activity...),
	}
}

func clampDec(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}

// payloadInt tolerates the numeric types a payload map realistically
// carries: int from in-process producers, float64 from JSON decoding.
func payloadInt(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case int:
		return max(v, 0)
	case int64:
		return max(int(v), 0)
	case float64:
		return max(int(v), 0)
	default:
		return 0
	}
}
