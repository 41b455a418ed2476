package models

import (
	"gorm.io/gorm"
)

// Inventory unit statuses. "maintenance" doubles as "currently occupied by an
// active booking"; availability queries must also consult the bookings table.
const (
	UnitAvailable   = "available"
	UnitMaintenance = "maintenance"
)

type Room struct {
	gorm.Model

	RoomName string `json:"room_name" gorm:"column:room_name;size:100"`
	RoomType string `json:"room_type" gorm:"column:room_type;size:20;default:premium"`
	BedType  string `json:"bed_type"  gorm:"column:bed_type;size:20;default:single"`

	Status          string  `json:"status" gorm:"column:status;size:20;default:available"`
	RoomPrice       float64 `json:"room_price" gorm:"column:room_price"`
	Description     string  `json:"description" gorm:"type:text"`
	MaxGuests       int     `json:"max_guests" gorm:"column:max_guests;default:2"`
	DiscountPercent int     `json:"discount_percent" gorm:"column:discount_percent;default:0"`
	ImageURL        string  `json:"room_image,omitempty" gorm:"column:image_url;size:512"`

	Amenities []Amenity `gorm:"many2many:room_amenities" json:"amenities,omitempty"`
}
