package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resort-backend/models"
	"resort-backend/realtime"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Amenity{},
		&models.Room{},
		&models.Area{},
		&models.Booking{},
		&models.Transaction{},
		&models.Notification{},
		&models.Review{},
	))
	return db
}

// fakeBroker records publishes instead of delivering them.
type fakeBroker struct {
	mu     sync.Mutex
	events []fakeEvent
}

type fakeEvent struct {
	Group   string
	Payload any
}

func (b *fakeBroker) Publish(group string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, fakeEvent{Group: group, Payload: payload})
}

func (b *fakeBroker) Join(string, realtime.Subscriber)  {}
func (b *fakeBroker) Leave(string, realtime.Subscriber) {}

func (b *fakeBroker) eventsFor(group string) []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	var payloads []any
	for _, ev := range b.events {
		if ev.Group == group {
			payloads = append(payloads, ev.Payload)
		}
	}
	return payloads
}

// fakeMailer records the email events the lifecycle engine publishes.
type fakeMailer struct {
	mu         sync.Mutex
	reserved   []string
	rejections []string
}

func (m *fakeMailer) PublishReservationEmail(_ context.Context, email string, _ models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reserved = append(m.reserved, email)
	return nil
}

func (m *fakeMailer) PublishRejectionEmail(_ context.Context, email string, _ models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections = append(m.rejections, email)
	return nil
}

func seedGuest(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		Email:     email,
		Password:  "not-a-real-hash",
		FirstName: "Test",
		LastName:  "Guest",
		Role:      models.RoleGuest,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedStaff(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		Email:     email,
		Password:  "not-a-real-hash",
		FirstName: "Front",
		LastName:  "Desk",
		Role:      models.RoleStaff,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedRoom(t *testing.T, db *gorm.DB, name string) models.Room {
	t.Helper()
	room := models.Room{
		RoomName:  name,
		RoomType:  "premium",
		BedType:   "queen",
		Status:    models.UnitAvailable,
		RoomPrice: 3000,
		MaxGuests: 4,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func seedArea(t *testing.T, db *gorm.DB, name string) models.Area {
	t.Helper()
	area := models.Area{
		AreaName:     name,
		Capacity:     100,
		PricePerHour: 1500,
		Status:       models.UnitAvailable,
	}
	require.NoError(t, db.Create(&area).Error)
	return area
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedRoomBooking(t *testing.T, db *gorm.DB, userID, roomID uint, status string, checkIn, checkOut time.Time) models.Booking {
	t.Helper()
	booking := models.Booking{
		UserID:         userID,
		RoomID:         &roomID,
		Status:         status,
		ReferenceCode:  "TEST-" + status,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: 2,
		TotalPrice:     6000,
		PaymentStatus:  models.PaymentUnpaid,
	}
	require.NoError(t, db.Create(&booking).Error)
	return booking
}

func seedAreaBooking(t *testing.T, db *gorm.DB, userID, areaID uint, status string, checkIn, checkOut time.Time) models.Booking {
	t.Helper()
	start, end := "08:00", "17:00"
	booking := models.Booking{
		UserID:         userID,
		AreaID:         &areaID,
		IsVenueBooking: true,
		Status:         status,
		ReferenceCode:  "TEST-VENUE-" + status,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		StartTime:      &start,
		EndTime:        &end,
		NumberOfGuests: 40,
		TotalPrice:     13500,
		PaymentStatus:  models.PaymentUnpaid,
	}
	require.NoError(t, db.Create(&booking).Error)
	return booking
}

func roomStatus(t *testing.T, db *gorm.DB, roomID uint) string {
	t.Helper()
	var room models.Room
	require.NoError(t, db.First(&room, roomID).Error)
	return room.Status
}

func areaStatus(t *testing.T, db *gorm.DB, areaID uint) string {
	t.Helper()
	var area models.Area
	require.NoError(t, db.First(&area, areaID).Error)
	return area.Status
}
