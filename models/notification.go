package models

import "time"

// Notification is created as a side effect of a booking transition (or an
// account verification decision) and consumed by its owning user. It is
// written once and mutated only by the is_read flip.
type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`

	UserID    uint   `gorm:"column:user_id;index" json:"user_id"`
	BookingID *uint  `gorm:"column:booking_id;index" json:"booking_id,omitempty"`
	Message   string `gorm:"column:message;type:text" json:"message"`

	NotificationType string `gorm:"column:notification_type;size:50" json:"notification_type"`
	IsRead           bool   `gorm:"column:is_read;default:false" json:"is_read"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
