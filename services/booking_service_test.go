package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"resort-backend/models"
	"resort-backend/realtime"
)

func newBookingService(t *testing.T) (*BookingService, *gorm.DB, *fakeBroker, *fakeMailer) {
	t.Helper()
	db := newTestDB(t)
	broker := &fakeBroker{}
	mailer := &fakeMailer{}
	notifications := NewNotificationService(db, broker)
	return NewBookingService(db, broker, notifications, mailer), db, broker, mailer
}

func TestUpdateStatusOccupyingMarksUnitMaintenance(t *testing.T) {
	for _, status := range []string{models.StatusReserved, models.StatusConfirmed, models.StatusCheckedIn} {
		t.Run(status, func(t *testing.T) {
			svc, db, _, _ := newBookingService(t)
			guest := seedGuest(t, db, "guest@example.com")
			room := seedRoom(t, db, "Deluxe Sea View")
			booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
				date(2026, time.September, 10), date(2026, time.September, 12))

			updated, err := svc.UpdateStatus(booking.ID, status, StatusOptions{})
			require.NoError(t, err)
			assert.Equal(t, status, updated.Status)
			assert.Equal(t, models.UnitMaintenance, roomStatus(t, db, room.ID))
		})
	}
}

func TestUpdateStatusNonOccupyingReleasesUnit(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Deluxe Sea View")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusCheckedIn,
		date(2026, time.September, 10), date(2026, time.September, 12))
	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("status", models.UnitMaintenance).Error)

	updated, err := svc.UpdateStatus(booking.ID, models.StatusCheckedOut, StatusOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, updated.Status)
	assert.Equal(t, models.UnitAvailable, roomStatus(t, db, room.ID))
}

func TestUpdateStatusPreventMaintenanceOverride(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Garden Twin")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	off := false
	_, err := svc.UpdateStatus(booking.ID, models.StatusReserved, StatusOptions{SetAvailable: &off})
	require.NoError(t, err)
	assert.Equal(t, models.UnitAvailable, roomStatus(t, db, room.ID))
}

func TestUpdateStatusForceAvailableOverride(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Garden Twin")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	on := true
	_, err := svc.UpdateStatus(booking.ID, models.StatusConfirmed, StatusOptions{SetAvailable: &on})
	require.NoError(t, err)
	// The explicit override wins over the occupying-status rule.
	assert.Equal(t, models.UnitAvailable, roomStatus(t, db, room.ID))
}

func TestUpdateStatusReservedPersistsDownPayment(t *testing.T) {
	svc, db, _, mailer := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	deposit := 1500.0
	updated, err := svc.UpdateStatus(booking.ID, models.StatusReserved, StatusOptions{DownPayment: &deposit})
	require.NoError(t, err)
	require.NotNil(t, updated.DownPayment)
	assert.Equal(t, 1500.0, *updated.DownPayment)

	// Reserved is one of the two transitions that email the guest.
	require.Len(t, mailer.reserved, 1)
	assert.Equal(t, guest.Email, mailer.reserved[0])
}

func TestUpdateStatusDownPaymentIgnoredForOtherStatuses(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	deposit := 1500.0
	updated, err := svc.UpdateStatus(booking.ID, models.StatusConfirmed, StatusOptions{DownPayment: &deposit})
	require.NoError(t, err)
	assert.Nil(t, updated.DownPayment)
}

func TestUpdateStatusRejectionStampsReasonAndEmails(t *testing.T) {
	svc, db, _, mailer := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	updated, err := svc.UpdateStatus(booking.ID, models.StatusRejected, StatusOptions{Reason: "No payment proof"})
	require.NoError(t, err)
	require.NotNil(t, updated.CancellationReason)
	assert.Equal(t, "No payment proof", *updated.CancellationReason)
	assert.NotNil(t, updated.CancellationDate)
	require.Len(t, mailer.rejections, 1)

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ?", guest.ID).First(&notification).Error)
	assert.Equal(t, "Your booking for Family Suite was rejected. Reason: No payment proof", notification.Message)
}

func TestUpdateStatusRejectedReleasesDespiteOverride(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusReserved,
		date(2026, time.September, 10), date(2026, time.September, 12))
	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("status", models.UnitMaintenance).Error)

	off := false
	_, err := svc.UpdateStatus(booking.ID, models.StatusRejected, StatusOptions{Reason: "n/a", SetAvailable: &off})
	require.NoError(t, err)
	assert.Equal(t, models.UnitAvailable, roomStatus(t, db, room.ID))
}

func TestUpdateStatusSameStatusCreatesNoDuplicateNotification(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	_, err := svc.UpdateStatus(booking.ID, models.StatusConfirmed, StatusOptions{})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(booking.ID, models.StatusConfirmed, StatusOptions{})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", guest.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateStatusUnknownStatusRejected(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	_, err := svc.UpdateStatus(booking.ID, "teleported", StatusOptions{})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// No side effects leaked.
	assert.Equal(t, models.UnitAvailable, roomStatus(t, db, room.ID))
}

func TestUpdateStatusMissingBooking(t *testing.T) {
	svc, _, _, _ := newBookingService(t)
	_, err := svc.UpdateStatus(9999, models.StatusConfirmed, StatusOptions{})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatusPublishesActiveCount(t *testing.T) {
	svc, db, broker, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	_, err := svc.UpdateStatus(booking.ID, models.StatusConfirmed, StatusOptions{})
	require.NoError(t, err)

	events := broker.eventsFor(realtime.GroupAdminNotifications)
	require.NotEmpty(t, events)
	update, ok := events[len(events)-1].(realtime.ActiveCountUpdate)
	require.True(t, ok)
	assert.Equal(t, realtime.TypeActiveCountUpdate, update.Type)
	assert.Equal(t, int64(1), update.Count)
}

func TestUpdateStatusVenueBookingFlipsArea(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	area := seedArea(t, db, "Pavilion Hall")
	booking := seedAreaBooking(t, db, guest.ID, area.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 10))

	_, err := svc.UpdateStatus(booking.ID, models.StatusReserved, StatusOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.UnitMaintenance, areaStatus(t, db, area.ID))
}

func TestUpdateStatusPropertyNameFallback(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("room_id", nil).Error)

	updated, err := svc.UpdateStatus(booking.ID, models.StatusConfirmed, StatusOptions{})
	require.NoError(t, err)
	assert.Equal(t, "your reservation", updated.PropertyName)

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ?", guest.ID).First(&notification).Error)
	assert.Equal(t, "Your booking for your reservation has been confirmed.", notification.Message)
}

func TestRecordPayment(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusReserved,
		date(2026, time.September, 10), date(2026, time.September, 12))

	txn, err := svc.RecordPayment(booking.ID, 4500.0, "")
	require.NoError(t, err)
	assert.Equal(t, 4500.0, txn.Amount)
	assert.Equal(t, models.TxnTypeBooking, txn.TransactionType)
	assert.Equal(t, models.TxnCompleted, txn.Status)
	assert.WithinDuration(t, time.Now(), txn.TransactionDate, 5*time.Second)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.PaymentPaid, reloaded.PaymentStatus)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("booking_id = ?", booking.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordPaymentNumericString(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusReserved,
		date(2026, time.September, 10), date(2026, time.September, 12))

	txn, err := svc.RecordPayment(booking.ID, " 1234.56 ", models.TxnTypeReservation)
	require.NoError(t, err)
	assert.Equal(t, 1234.56, txn.Amount)
	assert.Equal(t, models.TxnTypeReservation, txn.TransactionType)
}

func TestRecordPaymentInvalidAmount(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusReserved,
		date(2026, time.September, 10), date(2026, time.September, 12))

	for _, raw := range []any{nil, "", "abc", -5.0, 0.0, true} {
		_, err := svc.RecordPayment(booking.ID, raw, "")
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", raw)
	}

	// Nothing was written.
	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCancelBookingGuestOwnPending(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	cancelled, err := svc.CancelBooking(booking.ID, guest, "Change of plans")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "Change of plans", *cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancellationDate)
}

func TestCancelBookingGuestCannotCancelOthers(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	owner := seedGuest(t, db, "owner@example.com")
	other := seedGuest(t, db, "other@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, owner.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	_, err := svc.CancelBooking(booking.ID, other, "nope")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelBookingGuestOnlyWhilePending(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusReserved,
		date(2026, time.September, 10), date(2026, time.September, 12))

	_, err := svc.CancelBooking(booking.ID, guest, "too late now")
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestCancelBookingStaffReleasesReservedUnit(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	staff := seedStaff(t, db, "desk@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusReserved,
		date(2026, time.September, 10), date(2026, time.September, 12))
	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("status", models.UnitMaintenance).Error)

	cancelled, err := svc.CancelBooking(booking.ID, staff, "Guest requested by phone")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, models.UnitAvailable, roomStatus(t, db, room.ID))
}

func TestCancelBookingReasonRequired(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	_, err := svc.CancelBooking(booking.ID, guest, "   ")
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestCancelBookingAlreadyCancelled(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	staff := seedStaff(t, db, "desk@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusCancelled,
		date(2026, time.September, 10), date(2026, time.September, 12))

	_, err := svc.CancelBooking(booking.ID, staff, "again")
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestCancelBookingPublishesBookingsData(t *testing.T) {
	svc, db, broker, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	_, err := svc.CancelBooking(booking.ID, guest, "Change of plans")
	require.NoError(t, err)

	events := broker.eventsFor(realtime.GroupAdminNotifications)
	require.NotEmpty(t, events)
	update, ok := events[len(events)-1].(realtime.BookingsDataUpdate)
	require.True(t, ok)
	assert.Equal(t, int64(0), update.Count)
}

func TestCreateBookingRoom(t *testing.T) {
	svc, db, broker, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")

	booking, err := svc.CreateBooking(CreateBookingRequest{
		UserID:         guest.ID,
		RoomID:         &room.ID,
		CheckInDate:    date(2026, time.September, 10),
		CheckOutDate:   date(2026, time.September, 12),
		NumberOfGuests: 2,
		TotalPrice:     6000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.NotEmpty(t, booking.ReferenceCode)

	events := broker.eventsFor(realtime.GroupAdminNotifications)
	require.NotEmpty(t, events)
	update, ok := events[len(events)-1].(realtime.BookingsDataUpdate)
	require.True(t, ok)
	assert.Equal(t, int64(1), update.Count)
}

func TestCreateBookingInvalidRange(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")

	_, err := svc.CreateBooking(CreateBookingRequest{
		UserID:         guest.ID,
		RoomID:         &room.ID,
		CheckInDate:    date(2026, time.September, 12),
		CheckOutDate:   date(2026, time.September, 10),
		NumberOfGuests: 2,
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	// A zero-night room stay is also invalid...
	_, err = svc.CreateBooking(CreateBookingRequest{
		UserID:         guest.ID,
		RoomID:         &room.ID,
		CheckInDate:    date(2026, time.September, 10),
		CheckOutDate:   date(2026, time.September, 10),
		NumberOfGuests: 2,
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCreateBookingVenueSameDayAllowed(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	area := seedArea(t, db, "Pavilion Hall")
	start, end := "08:00", "17:00"

	// ...but a venue is booked by the hour, so check-in == check-out is fine.
	booking, err := svc.CreateBooking(CreateBookingRequest{
		UserID:         guest.ID,
		AreaID:         &area.ID,
		IsVenueBooking: true,
		CheckInDate:    date(2026, time.September, 10),
		CheckOutDate:   date(2026, time.September, 10),
		StartTime:      &start,
		EndTime:        &end,
		NumberOfGuests: 40,
	})
	require.NoError(t, err)
	assert.True(t, booking.IsVenueBooking)
}

func TestCreateBookingGuestDailyLimit(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	roomA := seedRoom(t, db, "Family Suite")
	roomB := seedRoom(t, db, "Garden Twin")

	_, err := svc.CreateBooking(CreateBookingRequest{
		UserID:         guest.ID,
		RoomID:         &roomA.ID,
		CheckInDate:    date(2026, time.September, 10),
		CheckOutDate:   date(2026, time.September, 12),
		NumberOfGuests: 2,
	})
	require.NoError(t, err)

	_, err = svc.CreateBooking(CreateBookingRequest{
		UserID:         guest.ID,
		RoomID:         &roomB.ID,
		CheckInDate:    date(2026, time.October, 1),
		CheckOutDate:   date(2026, time.October, 3),
		NumberOfGuests: 2,
	})
	assert.ErrorIs(t, err, ErrBookingLimit)
}

func TestCreateBookingStaffNotLimited(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	staff := seedStaff(t, db, "desk@example.com")
	roomA := seedRoom(t, db, "Family Suite")
	roomB := seedRoom(t, db, "Garden Twin")

	for _, roomID := range []uint{roomA.ID, roomB.ID} {
		id := roomID
		_, err := svc.CreateBooking(CreateBookingRequest{
			UserID:         staff.ID,
			RoomID:         &id,
			CheckInDate:    date(2026, time.September, 10),
			CheckOutDate:   date(2026, time.September, 12),
			NumberOfGuests: 2,
		})
		require.NoError(t, err)
	}
}

func TestCreateBookingPendingBlocksOverlap(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guestA := seedGuest(t, db, "a@example.com")
	guestB := seedGuest(t, db, "b@example.com")
	room := seedRoom(t, db, "Family Suite")
	seedRoomBooking(t, db, guestA.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 15))

	_, err := svc.CreateBooking(CreateBookingRequest{
		UserID:         guestB.ID,
		RoomID:         &room.ID,
		CheckInDate:    date(2026, time.September, 14),
		CheckOutDate:   date(2026, time.September, 16),
		NumberOfGuests: 2,
	})
	assert.ErrorIs(t, err, ErrUnitUnavailable)
}

func TestCreateBookingBackToBackAllowed(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guestA := seedGuest(t, db, "a@example.com")
	guestB := seedGuest(t, db, "b@example.com")
	room := seedRoom(t, db, "Family Suite")
	seedRoomBooking(t, db, guestA.ID, room.ID, models.StatusReserved,
		date(2026, time.September, 10), date(2026, time.September, 15))

	// Checking in the day the previous stay checks out is not an overlap.
	_, err := svc.CreateBooking(CreateBookingRequest{
		UserID:         guestB.ID,
		RoomID:         &room.ID,
		CheckInDate:    date(2026, time.September, 15),
		CheckOutDate:   date(2026, time.September, 17),
		NumberOfGuests: 2,
	})
	require.NoError(t, err)
}

func TestCreateBookingCapacityChecks(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite") // MaxGuests 4
	area := seedArea(t, db, "Pavilion Hall") // Capacity 100

	_, err := svc.CreateBooking(CreateBookingRequest{
		UserID:         guest.ID,
		RoomID:         &room.ID,
		CheckInDate:    date(2026, time.September, 10),
		CheckOutDate:   date(2026, time.September, 12),
		NumberOfGuests: 5,
	})
	assert.ErrorIs(t, err, ErrGuestCountInvalid)

	_, err = svc.CreateBooking(CreateBookingRequest{
		UserID:         guest.ID,
		AreaID:         &area.ID,
		IsVenueBooking: true,
		CheckInDate:    date(2026, time.September, 10),
		CheckOutDate:   date(2026, time.September, 10),
		NumberOfGuests: 101,
	})
	assert.ErrorIs(t, err, ErrGuestCountInvalid)

	_, err = svc.CreateBooking(CreateBookingRequest{
		UserID:         guest.ID,
		RoomID:         &room.ID,
		CheckInDate:    date(2026, time.September, 10),
		CheckOutDate:   date(2026, time.September, 12),
		NumberOfGuests: 0,
	})
	assert.ErrorIs(t, err, ErrGuestCountInvalid)
}

func TestActiveCountAndBookings(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")

	seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 1), date(2026, time.September, 3))
	seedRoomBooking(t, db, guest.ID, room.ID, models.StatusConfirmed,
		date(2026, time.September, 5), date(2026, time.September, 7))
	seedRoomBooking(t, db, guest.ID, room.ID, models.StatusCancelled,
		date(2026, time.September, 9), date(2026, time.September, 11))
	seedRoomBooking(t, db, guest.ID, room.ID, models.StatusCheckedOut,
		date(2026, time.August, 1), date(2026, time.August, 3))
	seedRoomBooking(t, db, guest.ID, room.ID, models.StatusNoShow,
		date(2026, time.August, 5), date(2026, time.August, 7))

	count, err := svc.ActiveCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, listCount, err := svc.ActiveBookings()
	require.NoError(t, err)
	assert.Equal(t, int64(2), listCount)
}

func TestDeleteBooking(t *testing.T) {
	svc, db, _, _ := newBookingService(t)
	guest := seedGuest(t, db, "guest@example.com")
	room := seedRoom(t, db, "Family Suite")
	booking := seedRoomBooking(t, db, guest.ID, room.ID, models.StatusPending,
		date(2026, time.September, 10), date(2026, time.September, 12))

	require.NoError(t, svc.DeleteBooking(booking.ID))
	assert.ErrorIs(t, svc.DeleteBooking(booking.ID), ErrBookingNotFound)
}
