package livemetrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trackkit/pkg/bus"
	"github.com/dmitrymomot/trackkit/pkg/livemetrics"
)

func newAttachedAggregator(t *testing.T, opts ...livemetrics.Option) (*livemetrics.Aggregator, *bus.Bus) {
	t.Helper()

	b := bus.New()
	b.Connect()
	a := livemetrics.New(opts...)
	detach := a.Attach(b)
	t.Cleanup(detach)
	return a, b
}

func TestAggregator_CreationDelta(t *testing.T) {
	t.Parallel()

	a, b := newAttachedAggregator(t)

	b.Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "CST001"})

	snap := a.Snapshot()
	assert.Equal(t, 1, snap.Total)
	assert.Equal(t, 1, snap.Active)
	assert.Equal(t, 1, snap.Pending)
	assert.Zero(t, snap.DeliveredToday)
	assert.Zero(t, snap.Delayed)
	assert.False(t, snap.LastUpdate.IsZero())

	require.Len(t, snap.RecentActivity, 1)
	assert.Equal(t, "New shipment CST001", snap.RecentActivity[0].Message)
}

func TestAggregator_CreatedThenDeliveredNetsActiveToZero(t *testing.T) {
	t.Parallel()

	a, b := newAttachedAggregator(t)

	b.Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "CST002"})
	b.Publish(bus.KindEntityDelivered, map[string]any{"trackingNumber": "CST002"})

	snap := a.Snapshot()
	assert.Equal(t, 1, snap.Total)
	assert.Zero(t, snap.Active)
	assert.Zero(t, snap.Pending)
	assert.Equal(t, 1, snap.DeliveredToday)
}

func TestAggregator_ActiveNeverNegative(t *testing.T) {
	t.Parallel()

	a, b := newAttachedAggregator(t)

	// Deliveries without matching creations must clamp at zero.
	for i := 0; i < 5; i++ {
		b.Publish(bus.KindEntityDelivered, map[string]any{"trackingNumber": "X"})
	}

	snap := a.Snapshot()
	assert.Zero(t, snap.Active)
	assert.Zero(t, snap.Pending)
	assert.Equal(t, 5, snap.DeliveredToday)
}

func TestAggregator_DelayDelta(t *testing.T) {
	t.Parallel()

	a, b := newAttachedAggregator(t)

	b.Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "CST003"})
	b.Publish(bus.KindEntityDelayed, map[string]any{"trackingNumber": "CST003"})

	snap := a.Snapshot()
	assert.Equal(t, 1, snap.Delayed)
	// Delay does not consume the active slot.
	assert.Equal(t, 1, snap.Active)
}

func TestAggregator_UpdateTouchesOnlyTimestampAndActivity(t *testing.T) {
	t.Parallel()

	a, b := newAttachedAggregator(t)

	b.Publish(bus.KindEntityUpdated, map[string]any{"trackingNumber": "CST004", "status": "in_transit"})

	snap := a.Snapshot()
	assert.Zero(t, snap.Total)
	assert.Zero(t, snap.Active)
	assert.False(t, snap.LastUpdate.IsZero())
	require.Len(t, snap.RecentActivity, 1)
	assert.Equal(t, "Shipment CST004 now in_transit", snap.RecentActivity[0].Message)
}

func TestAggregator_StatsUpdateReplacesCounters(t *testing.T) {
	t.Parallel()

	a, b := newAttachedAggregator(t)

	b.Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "CST005"})

	b.Publish(bus.KindStatsUpdate, map[string]any{
		"total":          120,
		"active":         40,
		"deliveredToday": 12,
		"pending":        25,
		"delayed":        3,
	})

	snap := a.Snapshot()
	assert.Equal(t, 120, snap.Total)
	assert.Equal(t, 40, snap.Active)
	assert.Equal(t, 12, snap.DeliveredToday)
	assert.Equal(t, 25, snap.Pending)
	assert.Equal(t, 3, snap.Delayed)
}

func TestAggregator_StatsUpdateToleratesJSONNumbersAndMissingFields(t *testing.T) {
	t.Parallel()

	a, b := newAttachedAggregator(t)

	b.Publish(bus.KindStatsUpdate, map[string]any{
		"total":  float64(7),
		"active": float64(2),
		// deliveredToday/pending/delayed absent: replaced with zero
		"delayed": -4, // negative input clamps
	})

	snap := a.Snapshot()
	assert.Equal(t, 7, snap.Total)
	assert.Equal(t, 2, snap.Active)
	assert.Zero(t, snap.DeliveredToday)
	assert.Zero(t, snap.Pending)
	assert.Zero(t, snap.Delayed)
}

func TestAggregator_ActivityListBounded(t *testing.T) {
	t.Parallel()

	a, b := newAttachedAggregator(t)

	for i := 0; i < 25; i++ {
		b.Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": i})
	}

	snap := a.Snapshot()
	require.Len(t, snap.RecentActivity, livemetrics.ActivityCapacity)
	// Newest-first.
	assert.Equal(t, "New shipment 24", snap.RecentActivity[0].Message)
	assert.Equal(t, "New shipment 15", snap.RecentActivity[len(snap.RecentActivity)-1].Message)
}

func TestAggregator_SnapshotIsACopy(t *testing.T) {
	t.Parallel()

	a, b := newAttachedAggregator(t)

	b.Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "CST006"})

	snap := a.Snapshot()
	snap.RecentActivity[0].Message = "mutated"
	snap.Total = 999

	fresh := a.Snapshot()
	assert.Equal(t, "New shipment CST006", fresh.RecentActivity[0].Message)
	assert.Equal(t, 1, fresh.Total)
}

func TestAggregator_UnknownKindIgnored(t *testing.T) {
	t.Parallel()

	a := livemetrics.New()
	b := bus.New()
	b.Connect()
	detach := a.Attach(b)
	defer detach()

	b.Publish(bus.KindUserMention, map[string]any{"author": "kate"})

	snap := a.Snapshot()
	assert.Equal(t, livemetrics.Metrics{}, snap.Metrics)
	assert.Empty(t, snap.RecentActivity)
}

func TestAggregator_DisconnectedBusNoChange(t *testing.T) {
	t.Parallel()

	a, b := newAttachedAggregator(t)

	b.Disconnect()
	b.Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "GHOST"})
	assert.Equal(t, livemetrics.Metrics{}, a.Snapshot().Metrics)

	b.Connect()
	b.Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "REAL"})
	assert.Equal(t, 1, a.Snapshot().Total)
}

func TestAggregator_ClockStampsWhenEventHasNoTimestamp(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, 9, 9, 9, 0, 0, 0, time.UTC)
	b := bus.New(bus.WithClock(func() time.Time { return fixed }))
	b.Connect()
	a := livemetrics.New(livemetrics.WithClock(func() time.Time { return fixed }))
	detach := a.Attach(b)
	defer detach()

	b.Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "CST007"})

	snap := a.Snapshot()
	assert.Equal(t, fixed, snap.LastUpdate)
	assert.Equal(t, fixed, snap.RecentActivity[0].Timestamp)
}
