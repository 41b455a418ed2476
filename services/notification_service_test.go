package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort-backend/realtime"
)

func TestCreateBookingNotificationPushesToUserGroup(t *testing.T) {
	db := newTestDB(t)
	broker := &fakeBroker{}
	svc := NewNotificationService(db, broker)
	guest := seedGuest(t, db, "guest@example.com")

	created, err := svc.CreateBookingNotification(guest.ID, "booking_reserved", 7, "Your booking for Family Suite has been reserved.")
	require.NoError(t, err)
	require.NotNil(t, created.BookingID)
	assert.Equal(t, uint(7), *created.BookingID)
	assert.False(t, created.IsRead)

	events := broker.eventsFor(realtime.UserGroup(guest.ID))
	require.Len(t, events, 1)
	push, ok := events[0].(realtime.NewNotificationEvent)
	require.True(t, ok)
	assert.Equal(t, realtime.TypeNewNotification, push.Type)
	assert.Equal(t, int64(1), push.UnreadCount)

	// Per-user addressing: nothing reaches other groups.
	assert.Empty(t, broker.eventsFor(realtime.UserGroup(guest.ID+1)))
	assert.Empty(t, broker.eventsFor(realtime.GroupAdminNotifications))
}

func TestCreateAccountNotificationHasNoBooking(t *testing.T) {
	db := newTestDB(t)
	broker := &fakeBroker{}
	svc := NewNotificationService(db, broker)
	guest := seedGuest(t, db, "guest@example.com")

	created, err := svc.CreateAccountNotification(guest.ID, "verified", "Your account has been verified! You may now enjoy unlimited bookings.")
	require.NoError(t, err)
	assert.Nil(t, created.BookingID)
}

func TestListAndUnreadCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, &fakeBroker{})
	guest := seedGuest(t, db, "guest@example.com")
	other := seedGuest(t, db, "other@example.com")

	for i := 0; i < 3; i++ {
		_, err := svc.CreateBookingNotification(guest.ID, "booking_confirmed", uint(i+1), "msg")
		require.NoError(t, err)
	}
	_, err := svc.CreateBookingNotification(other.ID, "booking_confirmed", 9, "not yours")
	require.NoError(t, err)

	notifications, unread, err := svc.List(guest.ID, 10)
	require.NoError(t, err)
	assert.Len(t, notifications, 3)
	assert.Equal(t, int64(3), unread)

	limited, _, err := svc.List(guest.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMarkReadRepublishesUnreadCount(t *testing.T) {
	db := newTestDB(t)
	broker := &fakeBroker{}
	svc := NewNotificationService(db, broker)
	guest := seedGuest(t, db, "guest@example.com")

	first, err := svc.CreateBookingNotification(guest.ID, "booking_confirmed", 1, "one")
	require.NoError(t, err)
	_, err = svc.CreateBookingNotification(guest.ID, "booking_reserved", 2, "two")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(guest.ID, first.ID))

	events := broker.eventsFor(realtime.UserGroup(guest.ID))
	require.NotEmpty(t, events)
	update, ok := events[len(events)-1].(realtime.UnreadUpdate)
	require.True(t, ok)
	assert.Equal(t, realtime.TypeUnreadUpdate, update.Type)
	assert.Equal(t, int64(1), update.Count)
}

func TestMarkReadEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, &fakeBroker{})
	owner := seedGuest(t, db, "owner@example.com")
	other := seedGuest(t, db, "other@example.com")

	notification, err := svc.CreateBookingNotification(owner.ID, "booking_confirmed", 1, "msg")
	require.NoError(t, err)

	err = svc.MarkRead(other.ID, notification.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestMarkAllReadPublishesZero(t *testing.T) {
	db := newTestDB(t)
	broker := &fakeBroker{}
	svc := NewNotificationService(db, broker)
	guest := seedGuest(t, db, "guest@example.com")

	for i := 0; i < 2; i++ {
		_, err := svc.CreateBookingNotification(guest.ID, "booking_confirmed", uint(i+1), "msg")
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkAllRead(guest.ID))

	unread, err := svc.UnreadCount(guest.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	events := broker.eventsFor(realtime.UserGroup(guest.ID))
	update, ok := events[len(events)-1].(realtime.UnreadUpdate)
	require.True(t, ok)
	assert.Equal(t, int64(0), update.Count)
}

func TestUserExists(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, nil)
	guest := seedGuest(t, db, "guest@example.com")

	ok, err := svc.UserExists(guest.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.UserExists(guest.ID + 100)
	require.NoError(t, err)
	assert.False(t, ok)
}
