// Package trackkit wires the shipment event pipeline: an event bus carrying
// lifecycle events and alerts, a bounded notification store, a live metrics
// aggregator, and a preference-gated email dispatcher.
//
// A Session owns one fully wired pipeline per authenticated user. Components
// are explicitly constructed and injected - there is no package-level
// singleton state - so tests stay isolated and multiple sessions can coexist
// in one process.
//
//	sess := trackkit.NewSession(email.NewSimSender())
//	sess.Initialize(dispatch.Preferences{
//	    Email:      "user@example.com",
//	    Enabled:    true,
//	    Categories: map[string]bool{dispatch.CategoryShipmentCreated: true},
//	})
//	sess.Start()
//	defer sess.Stop()
//
//	sess.Bus().Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "CST099"})
package trackkit
