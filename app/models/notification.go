package models

import "gorm.io/gorm"

// NotificationKind labels what produced a notification.
type NotificationKind string

const (
	NotifyOrder   NotificationKind = "order"
	NotifyBooking NotificationKind = "booking"
	NotifyChat    NotificationKind = "chat"
	NotifySystem  NotificationKind = "system"
)

// Notification is a per-user inbox entry, pushed live over the SSE stream
// and listed on the notifications page.
type Notification struct {
	gorm.Model
	UserID uint             `gorm:"not null;index" json:"user_id"`
	Kind   NotificationKind `gorm:"size:20;not null;default:system" json:"kind"`
	Title  string           `gorm:"size:200;not null" json:"title"`
	Body   string           `gorm:"type:text" json:"body"`
	Read   bool             `gorm:"not null;default:false" json:"read"`
}

// Contact is a contact-form submission or service quote request.
type Contact struct {
	gorm.Model
	UserID      *uint       `gorm:"index" json:"user_id"`
	FullName    string      `gorm:"size:100;not null" json:"full_name"`
	Email       string      `gorm:"size:255;not null" json:"email"`
	Subject     string      `gorm:"size:200" json:"subject"`
	Message     string      `gorm:"type:text;not null" json:"message"`
	ServiceType ServiceType `gorm:"size:20" json:"service_type,omitempty"`
	ServiceID   uint        `json:"service_id,omitempty"`
	ServiceName string      `gorm:"size:200" json:"service_name,omitempty"`
}
