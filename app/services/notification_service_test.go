package services_test

import (
	"testing"
	"time"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyStoresAndPushes(t *testing.T) {
	db := newTestDB(t)
	notifications := services.NewNotificationService(db)
	user := seedUser(t, db, "asha", false)

	feed, cancel := notifications.Subscribe(user.ID)
	defer cancel()

	created, err := notifications.Notify(user.ID, models.NotifyOrder, "Order placed", "Order #42 is pending.")
	require.NoError(t, err)

	select {
	case got := <-feed:
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, models.NotifyOrder, got.Kind)
	case <-time.After(time.Second):
		t.Fatal("live push never arrived")
	}

	list, err := notifications.List(user.ID, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Read)
}

func TestNotificationMarkRead(t *testing.T) {
	db := newTestDB(t)
	notifications := services.NewNotificationService(db)
	user := seedUser(t, db, "asha", false)

	first, err := notifications.Notify(user.ID, models.NotifySystem, "Welcome", "")
	require.NoError(t, err)
	_, err = notifications.Notify(user.ID, models.NotifyChat, "New reply", "")
	require.NoError(t, err)

	n, err := notifications.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, notifications.MarkRead(user.ID, first.ID))
	n, err = notifications.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// id 0 marks everything.
	require.NoError(t, notifications.MarkRead(user.ID, 0))
	n, err = notifications.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	unread, err := notifications.List(user.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestSubscribeScopedToUser(t *testing.T) {
	db := newTestDB(t)
	notifications := services.NewNotificationService(db)
	asha := seedUser(t, db, "asha", false)
	badru := seedUser(t, db, "badru", false)

	feed, cancel := notifications.Subscribe(badru.ID)
	defer cancel()

	_, err := notifications.Notify(asha.ID, models.NotifySystem, "Not yours", "")
	require.NoError(t, err)

	select {
	case got := <-feed:
		t.Fatalf("received someone else's notification: %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}
