package notifications

import "github.com/dmitrymomot/trackkit/pkg/bus"

// Rule derives a notification from an event of one kind. MessageTemplate is
// rendered against the event payload with tmpl.Render, so unresolved
// placeholders surface as their own path text.
type Rule struct {
	Icon            string
	Title           string
	MessageTemplate string
	Priority        Priority
}

// defaultRules covers the stable event-kind vocabulary. stats:update is
// deliberately unmapped: it feeds the metrics aggregator, not the user.
func defaultRules() map[bus.Kind]Rule {
	return map[bus.Kind]Rule{
		bus.KindEntityCreated: {
			Icon:            "package",
			Title:           "Shipment created",
			MessageTemplate: "Shipment {{trackingNumber}} has been created",
			Priority:        PriorityLow,
		},
		bus.KindEntityUpdated: {
			Icon:            "refresh",
			Title:           "Shipment updated",
			MessageTemplate: "Shipment {{trackingNumber}} status changed to {{status}}",
			Priority:        PriorityLow,
		},
		bus.KindEntityDelivered: {
			Icon:            "check",
			Title:           "Shipment delivered",
			MessageTemplate: "Shipment {{trackingNumber}} was delivered",
			Priority:        PriorityMedium,
		},
		bus.KindEntityDelayed: {
			Icon:            "clock",
			Title:           "Shipment delayed",
			MessageTemplate: "Shipment {{trackingNumber}} is delayed: {{reason}}",
			Priority:        PriorityHigh,
		},
		bus.KindSystemAlert: {
			Icon:            "alert",
			Title:           "System alert",
			MessageTemplate: "{{message}}",
			Priority:        PriorityHigh,
		},
		bus.KindUserMention: {
			Icon:            "at",
			Title:           "You were mentioned",
			MessageTemplate: "{{author}} mentioned you: {{excerpt}}",
			Priority:        PriorityMedium,
		},
	}
}
