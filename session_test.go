package trackkit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trackkit"
	"github.com/dmitrymomot/trackkit/pkg/bus"
	"github.com/dmitrymomot/trackkit/pkg/dispatch"
	"github.com/dmitrymomot/trackkit/pkg/email"
	"github.com/dmitrymomot/trackkit/pkg/notifications"
)

func newTestSession(t *testing.T) *trackkit.Session {
	t.Helper()

	sender := email.NewSimSender(email.WithDelay(0), email.WithFailureRate(0))
	sess := trackkit.NewSession(sender)
	sess.Initialize(dispatch.Preferences{
		Email:   "user@example.com",
		Enabled: true,
		Categories: map[string]bool{
			dispatch.CategoryShipmentCreated:   true,
			dispatch.CategoryShipmentDelivered: true,
			dispatch.CategoryShipmentDelayed:   true,
			dispatch.CategorySystemAlert:       true,
			dispatch.CategoryUserMention:       true,
		},
	})
	sess.Start()
	t.Cleanup(sess.Close)
	return sess
}

func TestSession_EndToEndShipmentCreated(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)

	sess.Bus().Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "CST099"})

	// Store and metrics update synchronously on publish.
	entries := sess.Notifications().List(notifications.ListOptions{})
	require.Len(t, entries, 1)
	assert.Equal(t, "Shipment created", entries[0].Title)
	assert.Equal(t, "Shipment CST099 has been created", entries[0].Message)
	assert.Equal(t, 1, sess.Notifications().Unread())

	snap := sess.Metrics().Snapshot()
	assert.Equal(t, 1, snap.Total)
	assert.Equal(t, 1, snap.Active)

	// The email dispatch completes asynchronously.
	require.Eventually(t, func() bool {
		return sess.Dispatcher().Stats().Sent == 1
	}, time.Second, 5*time.Millisecond)

	queue := sess.Dispatcher().Queue()
	require.Len(t, queue, 1)
	assert.Equal(t, dispatch.StatusSent, queue[0].Status)
	assert.Equal(t, "Shipment CST099 created", queue[0].Subject)
	assert.Equal(t, []string{"user@example.com"}, queue[0].To)
}

func TestSession_DisabledCategorySuppressesEmailOnly(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	sess.PreferencesChanged(map[string]bool{dispatch.CategoryShipmentCreated: false})

	sess.Bus().Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "CST050"})

	// Notification and metrics still flow; only the email is suppressed.
	assert.Equal(t, 1, sess.Notifications().Len())
	assert.Equal(t, 1, sess.Metrics().Snapshot().Total)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, sess.Dispatcher().Stats().Total)
}

func TestSession_StopSuppressesEverything(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)

	sess.Stop()
	sess.Bus().Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "GHOST"})

	assert.Zero(t, sess.Notifications().Len())
	assert.Zero(t, sess.Metrics().Snapshot().Total)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, sess.Dispatcher().Stats().Total)

	// Restarting resumes delivery with the original subscriptions.
	sess.Start()
	sess.Bus().Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "REAL"})
	assert.Equal(t, 1, sess.Notifications().Len())
	assert.Equal(t, 1, sess.Metrics().Snapshot().Total)
}

func TestSession_MasterFlagGatesDispatch(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	sess.SetEmailEnabled(false)

	sess.Bus().Publish(bus.KindSystemAlert, map[string]any{"message": "maintenance"})

	assert.Equal(t, 1, sess.Notifications().Len())
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, sess.Dispatcher().Stats().Total)
}

func TestSession_MultipleSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	first := newTestSession(t)
	second := newTestSession(t)

	first.Bus().Publish(bus.KindEntityCreated, map[string]any{"trackingNumber": "A"})

	assert.Equal(t, 1, first.Notifications().Len())
	assert.Zero(t, second.Notifications().Len())
	assert.Zero(t, second.Metrics().Snapshot().Total)
}

func TestSession_ReadStateFlowsThroughStore(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)

	sess.Bus().Publish(bus.KindEntityDelayed, map[string]any{"trackingNumber": "B", "reason": "storm"})
	sess.Bus().Publish(bus.KindUserMention, map[string]any{"author": "kate", "excerpt": "check B"})

	store := sess.Notifications()
	require.Equal(t, 2, store.Unread())

	entries := store.List(notifications.ListOptions{})
	require.True(t, store.MarkRead(entries[0].ID))
	assert.Equal(t, 1, store.Unread())

	store.MarkAllRead()
	assert.Zero(t, store.Unread())

	store.Clear()
	assert.Zero(t, store.Len())
}

func TestSession_CloseDetachesConsumers(t *testing.T) {
	t.Parallel()

	sender := email.NewSimSender(email.WithDelay(0), email.WithFailureRate(0))
	sess := trackkit.NewSession(sender)
	sess.Initialize(dispatch.Preferences{Email: "user@example.com", Enabled: true,
		Categories: map[string]bool{dispatch.CategoryShipmentCreated: true}})
	sess.Start()

	sess.Close()
	b := sess.Bus()
	assert.Zero(t, b.SubscriberCount(bus.KindEntityCreated))
	assert.Equal(t, bus.StateDisconnected, b.State())
}
