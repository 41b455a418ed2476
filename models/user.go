package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleGuest = "guest"
)

// Verification states for the guest's uploaded valid ID.
const (
	VerifyUnverified = "unverified"
	VerifyPending    = "pending"
	VerifyVerified   = "verified"
	VerifyRejected   = "rejected"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email     string `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	Password  string `gorm:"column:password;size:255" json:"-"`
	FirstName string `gorm:"column:first_name;size:100" json:"first_name"`
	LastName  string `gorm:"column:last_name;size:100" json:"last_name"`
	Role      string `gorm:"column:role;size:20;default:guest" json:"role"`

	PhoneNumber  string `gorm:"column:phone_number;size:15" json:"phone_number,omitempty"`
	ProfileImage string `gorm:"column:profile_image;size:512" json:"profile_image,omitempty"`

	IsVerified             string  `gorm:"column:is_verified;size:20;default:unverified" json:"is_verified"`
	ValidID                string  `gorm:"column:valid_id;size:512" json:"valid_id,omitempty"`
	ValidIDRejectionReason *string `gorm:"column:valid_id_rejection_reason" json:"valid_id_rejection_reason,omitempty"`

	IsArchived bool `gorm:"column:is_archived;default:false" json:"is_archived"`
}

func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleStaff
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
