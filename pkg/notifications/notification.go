package notifications

import (
	"time"

	"github.com/dmitrymomot/trackkit/pkg/bus"
)

// Priority represents the notification priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Notification is a single user-facing entry derived from a bus event.
// Only the Read flag mutates after creation.
type Notification struct {
	ID        int64     `json:"id"`
	Kind      bus.Kind  `json:"kind"`
	Icon      string    `json:"icon"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	Priority  Priority  `json:"priority"`
}
