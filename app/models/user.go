package models

import "gorm.io/gorm"

// User is the primary account model. Staff accounts can view every support
// chat and manage order statuses.
type User struct {
	gorm.Model
	Username string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Staff    bool   `gorm:"not null;default:false" json:"is_staff"`

	Profile UserProfile `json:"profile,omitempty"`
}

// UserProfile carries the contact details collected at signup.
type UserProfile struct {
	gorm.Model
	UserID   uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName string `gorm:"size:100;not null" json:"full_name"`
	Phone    string `gorm:"size:14" json:"phone"` // +880XXXXXXXXXX
	Address  string `gorm:"type:text" json:"address"`
}
