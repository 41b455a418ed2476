package models

import (
	"gorm.io/gorm"
)

// Area is a bookable function venue (pavilion, hall, pool deck) priced per hour.
type Area struct {
	gorm.Model

	AreaName     string  `json:"area_name" gorm:"column:area_name;size:100;uniqueIndex"`
	Description  string  `json:"description" gorm:"type:text"`
	Capacity     int     `json:"capacity" gorm:"column:capacity"`
	PricePerHour float64 `json:"price_per_hour" gorm:"column:price_per_hour"`

	Status          string `json:"status" gorm:"column:status;size:20;default:available"`
	DiscountPercent int    `json:"discount_percent" gorm:"column:discount_percent;default:0"`
	ImageURL        string `json:"area_image,omitempty" gorm:"column:image_url;size:512"`
}
