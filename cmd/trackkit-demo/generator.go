package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/dmitrymomot/trackkit/pkg/bus"
)

var demoStatuses = []string{"picked_up", "in_transit", "out_for_delivery", "at_customs"}

var demoDelayReasons = []string{"weather", "customs hold", "carrier backlog", "address issue"}

// runGenerator publishes randomized lifecycle events on a ticker until the
// context ends. It plays the role of the backend feed in the demo.
func runGenerator(ctx context.Context, b *bus.Bus, interval time.Duration, log *slog.Logger) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seq := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		seq++
		tracking := fmt.Sprintf("CST%03d", seq)

		switch rng.Intn(10) {
		case 0, 1, 2, 3:
			b.Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": tracking})
		case 4, 5:
			b.Publish(bus.KindEntityUpdated, map[string]any{
				"trackingNumber": tracking,
				"status":         demoStatuses[rng.Intn(len(demoStatuses))],
			})
		case 6, 7:
			b.Publish(bus.KindEntityDelivered, map[string]any{"trackingNumber": tracking})
		case 8:
			b.Publish(bus.KindEntityDelayed, map[string]any{
				"trackingNumber": tracking,
				"reason":         demoDelayReasons[rng.Intn(len(demoDelayReasons))],
			})
		case 9:
			b.Publish(bus.KindSystemAlert, map[string]any{
				"message": "Synthetic system alert",
			})
		}

		log.Debug("synthetic event published", "seq", seq)
	}
}
