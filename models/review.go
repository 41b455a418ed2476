package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID    uint  `gorm:"column:user_id;index" json:"user_id"`
	BookingID *uint `gorm:"column:booking_id;index" json:"booking_id,omitempty"`
	RoomID    *uint `gorm:"column:room_id;index" json:"room_id,omitempty"`
	AreaID    *uint `gorm:"column:area_id;index" json:"area_id,omitempty"`

	Rating     int    `gorm:"column:rating" json:"rating"`
	ReviewText string `gorm:"column:review_text;type:text" json:"review_text"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
