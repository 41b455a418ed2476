package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TxnTypeBooking     = "booking"
	TxnTypeReservation = "reservation"
	TxnTypeRefund      = "cancellation_refund"
)

const (
	TxnCompleted = "completed"
	TxnPending   = "pending"
	TxnFailed    = "failed"
)

// Transaction is an append-only payment record. Only Status may change after
// creation.
type Transaction struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BookingID *uint `gorm:"column:booking_id;index" json:"booking_id,omitempty"`
	UserID    uint  `gorm:"column:user_id;index" json:"user_id"`

	TransactionType string    `gorm:"column:transaction_type;size:30" json:"transaction_type"`
	Amount          float64   `gorm:"column:amount" json:"amount"`
	TransactionDate time.Time `gorm:"column:transaction_date" json:"transaction_date"`
	Status          string    `gorm:"column:status;size:20;default:pending" json:"status"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"-"`
	User    User     `gorm:"foreignKey:UserID" json:"-"`
}
