package models

import "gorm.io/gorm"

type Amenity struct {
	gorm.Model

	Name        string `json:"name" gorm:"column:name;size:100;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`
}
