// Package services holds the business logic, each service wrapping *gorm.DB
// plus the collaborators it fans out to.
package services

import "errors"

// Sentinel errors surfaced to controllers. Fan-out and email failures are
// never represented here; those are logged where they happen and swallowed.
var (
	ErrBookingNotFound = errors.New("booking_not_found")
	ErrRoomNotFound    = errors.New("room_not_found")
	ErrAreaNotFound    = errors.New("area_not_found")
	ErrUserNotFound    = errors.New("user_not_found")
	ErrReviewNotFound  = errors.New("review_not_found")

	ErrNotificationNotFound = errors.New("notification_not_found")

	ErrInvalidStatus  = errors.New("invalid_status")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidRange   = errors.New("invalid_range")
	ErrReasonRequired = errors.New("cancellation_reason_required")
	ErrForbidden      = errors.New("forbidden")

	ErrUnitUnavailable   = errors.New("unit_unavailable")
	ErrUnitOccupied      = errors.New("unit_has_active_bookings")
	ErrBookingLimit      = errors.New("daily_booking_limit_reached")
	ErrGuestCountInvalid = errors.New("invalid_guest_count")
	ErrNotCancellable    = errors.New("booking_not_cancellable")
	ErrAlreadyReviewed   = errors.New("already_reviewed")
	ErrNotCheckedOut     = errors.New("booking_not_checked_out")
	ErrRatingOutOfRange  = errors.New("rating_out_of_range")

	ErrEmailTaken          = errors.New("email_already_registered")
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrOTPExpired          = errors.New("otp_expired")
	ErrOTPMismatch         = errors.New("otp_mismatch")
	ErrOTPAlreadySent      = errors.New("otp_already_sent")
	ErrReasonRequiredForID = errors.New("rejection_reason_required")
)
