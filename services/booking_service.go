package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resort-backend/models"
	"resort-backend/realtime"
)

// BookingMailer publishes transactional email events for the two transitions
// that notify the guest by mail. Implementations are best-effort; the caller
// logs and ignores failures.
type BookingMailer interface {
	PublishReservationEmail(ctx context.Context, email string, booking models.Booking) error
	PublishRejectionEmail(ctx context.Context, email string, booking models.Booking) error
}

// BookingService is the booking lifecycle engine. Status changes are modeled
// as state-entry policies: entering a status applies its side effects on the
// linked inventory unit, regardless of where the booking came from.
type BookingService struct {
	DB            *gorm.DB
	Broker        realtime.Broker
	Notifications *NotificationService
	Mailer        BookingMailer
	Availability  *AvailabilityService
}

func NewBookingService(db *gorm.DB, broker realtime.Broker, notifications *NotificationService, mailer BookingMailer) *BookingService {
	return &BookingService{
		DB:            db,
		Broker:        broker,
		Notifications: notifications,
		Mailer:        mailer,
		Availability:  NewAvailabilityService(db),
	}
}

// StatusOptions carries the optional knobs of a status update. SetAvailable
// is the manual override: true forces the unit back to available, false
// prevents the occupying statuses from marking it maintenance.
type StatusOptions struct {
	DownPayment  *float64
	Reason       string
	SetAvailable *bool
}

// UpdateStatus applies the state-entry policy for newStatus to a booking.
//
// Occupying statuses (reserved, confirmed, checked_in) mark the linked unit
// maintenance unless overridden; every other status marks it available.
// Entering cancelled/rejected with a reason stamps the cancellation fields,
// and entering reserved persists a supplied down payment. The operation is
// total over the eight known statuses: there is no transition graph to
// violate, only unknown status literals are rejected.
func (s *BookingService) UpdateStatus(bookingID uint, newStatus string, opts StatusOptions) (models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Room").Preload("Area").Preload("User").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, fmt.Errorf("failed to find booking: %w", err)
	}

	if !models.IsValidStatus(newStatus) {
		return models.Booking{}, ErrInvalidStatus
	}

	if newStatus == models.StatusReserved && opts.DownPayment != nil {
		booking.DownPayment = opts.DownPayment
	}

	preventMaintenance := opts.SetAvailable != nil && !*opts.SetAvailable

	oldStatus := booking.Status
	booking.Status = newStatus

	if models.IsOccupyingStatus(newStatus) && !preventMaintenance {
		if err := s.setUnitStatus(&booking, models.UnitMaintenance); err != nil {
			return models.Booking{}, err
		}
	} else if !models.IsOccupyingStatus(newStatus) {
		if err := s.setUnitStatus(&booking, models.UnitAvailable); err != nil {
			return models.Booking{}, err
		}
	}

	if opts.SetAvailable != nil && *opts.SetAvailable {
		if err := s.setUnitStatus(&booking, models.UnitAvailable); err != nil {
			return models.Booking{}, err
		}
	}

	if (newStatus == models.StatusCancelled || newStatus == models.StatusRejected) && opts.Reason != "" {
		reason := opts.Reason
		now := time.Now()
		booking.CancellationReason = &reason
		booking.CancellationDate = &now
	}

	booking.PropertyName = s.propertyName(&booking)

	if err := s.DB.Save(&booking).Error; err != nil {
		return models.Booking{}, fmt.Errorf("failed to save booking: %w", err)
	}

	if oldStatus != newStatus {
		s.notifyTransition(&booking, newStatus)
	}

	// Re-apply the release rule so the override flag cannot leave a unit
	// stuck in maintenance after a cancellation or rejection.
	if booking.Status != models.StatusReserved && booking.Status != models.StatusCheckedIn &&
		(newStatus == models.StatusCancelled || newStatus == models.StatusRejected) {
		if err := s.setUnitStatus(&booking, models.UnitAvailable); err != nil {
			return models.Booking{}, err
		}
	}

	s.publishActiveCount()

	return booking, nil
}

// notifyTransition creates the guest-facing notification row (which fans out
// to the user's group) and, for reserved and rejected, publishes the
// transactional email event. Both are best-effort.
func (s *BookingService) notifyTransition(booking *models.Booking, newStatus string) {
	property := booking.PropertyName
	var message string

	switch newStatus {
	case models.StatusReserved:
		message = fmt.Sprintf("Your booking for %s has been reserved.", property)
		s.publishEmail(booking, true)
	case models.StatusConfirmed:
		message = fmt.Sprintf("Your booking for %s has been confirmed.", property)
	case models.StatusCheckedIn:
		message = fmt.Sprintf("You've been checked in to %s.", property)
	case models.StatusCheckedOut:
		message = fmt.Sprintf("You've been checked out from %s.", property)
	case models.StatusRejected:
		reason := "No reason provided"
		if booking.CancellationReason != nil && *booking.CancellationReason != "" {
			reason = *booking.CancellationReason
		}
		message = fmt.Sprintf("Your booking for %s was rejected. Reason: %s", property, reason)
		s.publishEmail(booking, false)
	case models.StatusNoShow:
		message = fmt.Sprintf("You were marked as no-show for your booking at %s.", property)
	case models.StatusCancelled:
		message = fmt.Sprintf("Your booking for %s has been cancelled.", property)
	}

	if message == "" || s.Notifications == nil {
		return
	}
	if _, err := s.Notifications.CreateBookingNotification(booking.UserID, "booking_"+newStatus, booking.ID, message); err != nil {
		log.Printf("booking: creating notification failed: %v", err)
	}
}

func (s *BookingService) publishEmail(booking *models.Booking, reserved bool) {
	if s.Mailer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var err error
	if reserved {
		err = s.Mailer.PublishReservationEmail(ctx, booking.User.Email, *booking)
	} else {
		err = s.Mailer.PublishRejectionEmail(ctx, booking.User.Email, *booking)
	}
	if err != nil {
		log.Printf("booking: email event publish failed: %v", err)
	}
}

// propertyName resolves the display name of the booked unit, falling back to
// a neutral literal when the lookup comes up empty.
func (s *BookingService) propertyName(booking *models.Booking) string {
	if booking.IsVenueBooking && booking.Area != nil && booking.Area.AreaName != "" {
		return booking.Area.AreaName
	}
	if !booking.IsVenueBooking && booking.Room != nil && booking.Room.RoomName != "" {
		return booking.Room.RoomName
	}
	return "your reservation"
}

// setUnitStatus flips the linked room or area status. A booking with no
// resolvable unit is left alone.
func (s *BookingService) setUnitStatus(booking *models.Booking, status string) error {
	if booking.IsVenueBooking && booking.Area != nil {
		booking.Area.Status = status
		if err := s.DB.Model(&models.Area{}).Where("id = ?", booking.Area.ID).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update area status: %w", err)
		}
		return nil
	}
	if booking.Room != nil {
		booking.Room.Status = status
		if err := s.DB.Model(&models.Room{}).Where("id = ?", booking.Room.ID).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update room status: %w", err)
		}
	}
	return nil
}

// RecordPayment marks the booking paid and writes exactly one completed
// Transaction stamped with the current time. Amount may arrive as a number
// or a numeric string; transactionType defaults to "booking".
func (s *BookingService) RecordPayment(bookingID uint, rawAmount any, transactionType string) (models.Transaction, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Transaction{}, ErrBookingNotFound
		}
		return models.Transaction{}, fmt.Errorf("failed to find booking: %w", err)
	}

	amount, err := parseAmount(rawAmount)
	if err != nil {
		return models.Transaction{}, err
	}
	if transactionType == "" {
		transactionType = models.TxnTypeBooking
	}

	txn := models.Transaction{
		BookingID:       &booking.ID,
		UserID:          booking.UserID,
		TransactionType: transactionType,
		Amount:          amount,
		TransactionDate: time.Now(),
		Status:          models.TxnCompleted,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&booking).Update("payment_status", models.PaymentPaid).Error; err != nil {
			return err
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to record payment: %w", err)
	}
	return txn, nil
}

func parseAmount(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		if v <= 0 {
			return 0, ErrInvalidAmount
		}
		return v, nil
	case float32:
		return parseAmount(float64(v))
	case int:
		return parseAmount(float64(v))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		return parseAmount(f)
	case nil:
		return 0, ErrInvalidAmount
	default:
		return 0, ErrInvalidAmount
	}
}

// CancelBooking cancels on behalf of an actor. Guests may cancel only their
// own booking and only while it is still pending; staff may cancel anything
// not already cancelled. A non-empty reason is always required.
func (s *BookingService) CancelBooking(bookingID uint, actor models.User, reason string) (models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Room").Preload("Area").Preload("User").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, fmt.Errorf("failed to find booking: %w", err)
	}

	if !actor.IsStaff() {
		if booking.UserID != actor.ID {
			return models.Booking{}, ErrForbidden
		}
		if !strings.EqualFold(booking.Status, models.StatusPending) {
			return models.Booking{}, ErrNotCancellable
		}
	} else if strings.EqualFold(booking.Status, models.StatusCancelled) {
		return models.Booking{}, ErrNotCancellable
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Booking{}, ErrReasonRequired
	}

	now := time.Now()
	priorStatus := booking.Status
	booking.Status = models.StatusCancelled
	booking.CancellationReason = &reason
	booking.CancellationDate = &now

	if err := s.DB.Save(&booking).Error; err != nil {
		return models.Booking{}, fmt.Errorf("failed to cancel booking: %w", err)
	}

	// Release the unit when the booking held it. Under the current guest
	// policy only pending bookings reach this point, so the reserved branch
	// fires for staff cancellations.
	if strings.EqualFold(priorStatus, models.StatusReserved) {
		if err := s.setUnitStatus(&booking, models.UnitAvailable); err != nil {
			return models.Booking{}, err
		}
	}

	if s.Notifications != nil {
		message := fmt.Sprintf("Your booking for %s has been cancelled.", s.propertyName(&booking))
		if _, err := s.Notifications.CreateBookingNotification(booking.UserID, "booking_cancelled", booking.ID, message); err != nil {
			log.Printf("booking: creating cancellation notification failed: %v", err)
		}
	}
	s.publishBookingsData()

	return booking, nil
}

// CreateBookingRequest is the validated input for a new booking. Exactly one
// of RoomID/AreaID must be set, matching IsVenueBooking.
type CreateBookingRequest struct {
	UserID         uint
	RoomID         *uint
	AreaID         *uint
	IsVenueBooking bool
	CheckInDate    time.Time
	CheckOutDate   time.Time
	StartTime      *string
	EndTime        *string
	TimeOfArrival  *string
	PhoneNumber    string
	SpecialRequest string
	NumberOfGuests int
	PaymentMethod  string
	PaymentProof   string
	TotalPrice     float64
}

// MaxBookingsPerDay caps how many bookings a guest may submit per calendar
// day.
const MaxBookingsPerDay = 1

// CreateBooking validates and persists a new pending booking, then pushes
// the refreshed admin aggregate.
func (s *BookingService) CreateBooking(req CreateBookingRequest) (models.Booking, error) {
	if req.IsVenueBooking {
		if req.CheckOutDate.Before(req.CheckInDate) {
			return models.Booking{}, ErrInvalidRange
		}
	} else if !req.CheckOutDate.After(req.CheckInDate) {
		return models.Booking{}, ErrInvalidRange
	}

	var user models.User
	if err := s.DB.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrUserNotFound
		}
		return models.Booking{}, fmt.Errorf("failed to find user: %w", err)
	}

	if user.Role == models.RoleGuest {
		today := time.Now().Truncate(24 * time.Hour)
		var todayCount int64
		if err := s.DB.Model(&models.Booking{}).
			Where("user_id = ? AND created_at >= ? AND created_at < ?", req.UserID, today, today.Add(24*time.Hour)).
			Count(&todayCount).Error; err != nil {
			return models.Booking{}, fmt.Errorf("failed to count bookings: %w", err)
		}
		if todayCount >= MaxBookingsPerDay {
			return models.Booking{}, ErrBookingLimit
		}
	}

	if req.NumberOfGuests < 1 {
		return models.Booking{}, ErrGuestCountInvalid
	}

	booking := models.Booking{
		UserID:         req.UserID,
		IsVenueBooking: req.IsVenueBooking,
		ReferenceCode:  uuid.NewString(),
		Status:         models.StatusPending,
		CheckInDate:    req.CheckInDate,
		CheckOutDate:   req.CheckOutDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		TimeOfArrival:  req.TimeOfArrival,
		PhoneNumber:    req.PhoneNumber,
		SpecialRequest: req.SpecialRequest,
		NumberOfGuests: req.NumberOfGuests,
		PaymentMethod:  req.PaymentMethod,
		PaymentProof:   req.PaymentProof,
		TotalPrice:     req.TotalPrice,
	}

	if req.IsVenueBooking {
		if req.AreaID == nil {
			return models.Booking{}, ErrAreaNotFound
		}
		var area models.Area
		if err := s.DB.First(&area, *req.AreaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Booking{}, ErrAreaNotFound
			}
			return models.Booking{}, fmt.Errorf("failed to find area: %w", err)
		}
		if req.NumberOfGuests > area.Capacity && area.Capacity > 0 {
			return models.Booking{}, ErrGuestCountInvalid
		}
		booking.AreaID = req.AreaID
	} else {
		if req.RoomID == nil {
			return models.Booking{}, ErrRoomNotFound
		}
		var room models.Room
		if err := s.DB.First(&room, *req.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Booking{}, ErrRoomNotFound
			}
			return models.Booking{}, fmt.Errorf("failed to find room: %w", err)
		}
		if room.MaxGuests > 0 && req.NumberOfGuests > room.MaxGuests {
			return models.Booking{}, ErrGuestCountInvalid
		}
		booking.RoomID = req.RoomID
	}

	unitID := booking.RoomID
	if req.IsVenueBooking {
		unitID = booking.AreaID
	}
	overlap, err := s.Availability.HasOverlap(req.IsVenueBooking, *unitID, req.CheckInDate, req.CheckOutDate, CreationBlockStatuses)
	if err != nil {
		return models.Booking{}, err
	}
	if overlap {
		return models.Booking{}, ErrUnitUnavailable
	}

	if err := s.DB.Create(&booking).Error; err != nil {
		return models.Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publishBookingsData()

	return booking, nil
}

// ActiveCount counts every booking outside the terminal-inactive set.
func (s *BookingService) ActiveCount() (int64, error) {
	var count int64
	err := s.DB.Model(&models.Booking{}).
		Where("status NOT IN ?", models.InactiveStatuses).
		Count(&count).Error
	return count, err
}

// ActiveBookings returns the active set newest-first together with its size,
// shaped for the admin aggregate payload.
func (s *BookingService) ActiveBookings() (any, int64, error) {
	var bookings []models.Booking
	err := s.DB.Preload("Room").Preload("Area").Preload("User").
		Where("status NOT IN ?", models.InactiveStatuses).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, int64(len(bookings)), nil
}

// publishActiveCount pushes the cheap count bump to the admin group. Always
// best-effort: the caller's mutation already committed.
func (s *BookingService) publishActiveCount() {
	if s.Broker == nil {
		return
	}
	count, err := s.ActiveCount()
	if err != nil {
		log.Printf("booking: active count query failed: %v", err)
		return
	}
	s.Broker.Publish(realtime.GroupAdminNotifications, realtime.NewActiveCountUpdate(count))
}

// publishBookingsData pushes the full active list refresh to the admin group.
func (s *BookingService) publishBookingsData() {
	if s.Broker == nil {
		return
	}
	bookings, count, err := s.ActiveBookings()
	if err != nil {
		log.Printf("booking: active bookings query failed: %v", err)
		return
	}
	s.Broker.Publish(realtime.GroupAdminNotifications, realtime.NewBookingsDataUpdate(count, bookings))
}

// GetBooking loads one booking with its unit and owner.
func (s *BookingService) GetBooking(bookingID uint) (models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Room").Preload("Area").Preload("User").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, fmt.Errorf("failed to find booking: %w", err)
	}
	return booking, nil
}

// DeleteBooking hard-removes a booking. Admin-only escape hatch; it bypasses
// the lifecycle rules entirely.
func (s *BookingService) DeleteBooking(bookingID uint) error {
	res := s.DB.Delete(&models.Booking{}, bookingID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
