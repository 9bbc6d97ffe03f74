// Package bus implements the in-process event bus that carries shipment
// lifecycle events and system alerts from producers (backend feed or the
// synthetic generator) to the notification store, the live metrics
// aggregator, and the delivery dispatcher.
//
// The bus multiplexes named event kinds to any number of subscribers.
// Handlers for a kind run synchronously, in registration order, on the
// publisher's goroutine, so consumer state updates are ordered exactly by
// publish order.
//
// The bus also owns the connection state. Publishing while disconnected is
// a silent drop (logged at debug level), never an error: the bus carries no
// delivery guarantee. Disconnecting keeps all subscriptions registered;
// delivery resumes on the next Connect.
//
// # Usage
//
//	b := bus.New(bus.WithLogger(log))
//	sub := b.Subscribe(bus.KindEntityCreated, func(e bus.Event) {
//	    // react to the event
//	})
//	defer sub.Unsubscribe()
//
//	b.Connect()
//	b.Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "CST099"})
package bus
