package dispatch

import "github.com/dmitrymomot/trackkit/pkg/bus"

// Delivery categories. Preference flags and templates are keyed by these.
const (
	CategoryShipmentCreated   = "shipment_created"
	CategoryShipmentUpdated   = "shipment_updated"
	CategoryShipmentDelivered = "shipment_delivered"
	CategoryShipmentDelayed   = "shipment_delayed"
	CategorySystemAlert       = "system_alert"
	CategoryUserMention       = "user_mention"
)

// Template is a subject/body pair rendered against the dispatch payload.
type Template struct {
	Subject string
	Body    string
}

func defaultTemplates() map[string]Template {
	return map[string]Template{
		CategoryShipmentCreated: {
			Subject: "Shipment {{trackingNumber}} created",
			Body:    "A new shipment {{trackingNumber}} has been created and is awaiting pickup.",
		},
		CategoryShipmentUpdated: {
			Subject: "Shipment {{trackingNumber}} update",
			Body:    "Shipment {{trackingNumber}} changed status to {{status}}.",
		},
		CategoryShipmentDelivered: {
			Subject: "Shipment {{trackingNumber}} delivered",
			Body:    "Shipment {{trackingNumber}} was delivered successfully.",
		},
		CategoryShipmentDelayed: {
			Subject: "Shipment {{trackingNumber}} delayed",
			Body:    "Shipment {{trackingNumber}} is delayed. Reason: {{reason}}.",
		},
		CategorySystemAlert: {
			Subject: "System alert",
			Body:    "{{message}}",
		},
		CategoryUserMention: {
			Subject: "{{author}} mentioned you",
			Body:    "{{author}} mentioned you: {{excerpt}}",
		},
	}
}

// DefaultKindCategories maps the bus event kinds the dispatcher listens to
// onto delivery categories. stats:update and entity:updated are excluded:
// counter syncs are not user-facing, and per-update mail would be noise.
func DefaultKindCategories() map[bus.Kind]string {
	return map[bus.Kind]string{
		bus.KindEntityCreated:   CategoryShipmentCreated,
		bus.KindEntityDelivered: CategoryShipmentDelivered,
		bus.KindEntityDelayed:   CategoryShipmentDelayed,
		bus.KindSystemAlert:     CategorySystemAlert,
		bus.KindUserMention:     CategoryUserMention,
	}
}
