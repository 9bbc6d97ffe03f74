package bus

import "time"

// Kind names a category of state-change event. The vocabulary below is the
// de facto contract with producers and must remain stable.
type Kind string

const (
	KindEntityCreated   Kind = "entity:created"
	KindEntityUpdated   Kind = "entity:updated"
	KindEntityDelivered Kind = "entity:delivered"
	KindEntityDelayed   Kind = "entity:delayed"
	KindSystemAlert     Kind = "system:alert"
	KindUserMention     Kind = "user:mention"

	// KindStatsUpdate carries a full counter replacement for the live
	// metrics aggregator, published by a backend reconciliation feed.
	KindStatsUpdate Kind = "stats:update"
)

// Event is a single published state change. Events are immutable once
// published; consumers must not mutate the payload map.
type Event struct {
	Kind       Kind           `json:"kind"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Handler receives events of a subscribed kind. Handlers run synchronously
// on the publisher's goroutine and should return quickly; slow work belongs
// in a goroutine spawned by the handler.
type Handler func(Event)
