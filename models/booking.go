package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking statuses. There is no enforced transition graph: any known status may
// be entered from any other, and the engine applies the side effects of the
// status being entered.
const (
	StatusPending    = "pending"
	StatusReserved   = "reserved"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
	StatusCancelled  = "cancelled"
	StatusRejected   = "rejected"
	StatusNoShow     = "no_show"
)

const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

const (
	PayMethodPhysical = "physical"
	PayMethodGCash    = "gcash"
)

// ValidStatuses lists every status the engine accepts.
var ValidStatuses = []string{
	StatusPending, StatusReserved, StatusConfirmed, StatusCheckedIn,
	StatusCheckedOut, StatusCancelled, StatusRejected, StatusNoShow,
}

// InactiveStatuses are the terminal states excluded from the admin "active"
// aggregate and from availability overlap checks.
var InactiveStatuses = []string{
	StatusCancelled, StatusRejected, StatusCheckedOut, StatusNoShow,
}

// OccupyingStatuses are the states whose entry marks the linked unit as
// maintenance (occupied).
var OccupyingStatuses = []string{
	StatusReserved, StatusConfirmed, StatusCheckedIn,
}

func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func IsOccupyingStatus(s string) bool {
	for _, v := range OccupyingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"index;column:user_id" json:"user_id"`
	RoomID *uint `gorm:"column:room_id;index" json:"room_id,omitempty"`
	AreaID *uint `gorm:"column:area_id;index" json:"area_id,omitempty"`

	// IsVenueBooking disambiguates the target: area set <=> true, room set <=> false.
	IsVenueBooking bool `gorm:"column:is_venue_booking;default:false" json:"is_venue_booking"`

	ReferenceCode string `gorm:"column:reference_code;size:64" json:"reference_code,omitempty"`
	Status        string `gorm:"column:status;size:20;default:pending" json:"status"`

	CheckInDate  time.Time `gorm:"column:check_in_date" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"column:check_out_date" json:"check_out_date"`
	StartTime    *string   `gorm:"column:start_time;size:8" json:"start_time,omitempty"`
	EndTime      *string   `gorm:"column:end_time;size:8" json:"end_time,omitempty"`
	TimeOfArrival *string  `gorm:"column:time_of_arrival;size:8" json:"time_of_arrival,omitempty"`

	PhoneNumber    string         `gorm:"column:phone_number;size:15" json:"phone_number"`
	SpecialRequest string         `gorm:"column:special_request;type:text" json:"special_request,omitempty"`
	NumberOfGuests int            `gorm:"column:number_of_guests;default:1" json:"number_of_guests"`
	GuestList      datatypes.JSON `gorm:"column:guest_list" json:"guest_list,omitempty"`

	CancellationDate   *time.Time `gorm:"column:cancellation_date" json:"cancellation_date,omitempty"`
	CancellationReason *string    `gorm:"column:cancellation_reason;type:text" json:"cancellation_reason,omitempty"`

	TotalPrice    float64    `gorm:"column:total_price" json:"total_price"`
	DownPayment   *float64   `gorm:"column:down_payment" json:"down_payment,omitempty"`
	PaymentStatus string     `gorm:"column:payment_status;size:20;default:unpaid" json:"payment_status"`
	PaymentMethod string     `gorm:"column:payment_method;size:20;default:gcash" json:"payment_method"`
	PaymentProof  string     `gorm:"column:payment_proof;size:512" json:"payment_proof,omitempty"`
	PaymentDate   *time.Time `gorm:"column:payment_date" json:"payment_date,omitempty"`

	// PropertyName is denormalized at transition time for notification text.
	PropertyName string `gorm:"column:property_name;size:100" json:"property_name,omitempty"`

	User User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Area *Area `gorm:"foreignKey:AreaID" json:"area,omitempty"`
}

func (b *Booking) IsActive() bool {
	switch b.Status {
	case StatusConfirmed, StatusReserved, StatusCheckedIn:
		return true
	}
	return false
}

func (b *Booking) IsCancellable() bool {
	switch b.Status {
	case StatusPending, StatusConfirmed, StatusReserved:
		return true
	}
	return false
}

func (b *Booking) DurationDays() int {
	if b.CheckOutDate.Before(b.CheckInDate) {
		return 0
	}
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}
