package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingStatus is the service-booking lifecycle state.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Cancellable reports whether a booking in state s may still be cancelled.
func (s BookingStatus) Cancellable() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Booking reserves one of the four concrete service types for a date and
// time slot. TotalAmount snapshots the service price at booking time.
type Booking struct {
	gorm.Model
	UserID       uint            `gorm:"not null;index:idx_booking_user" json:"user_id"`
	ServiceType  ServiceType     `gorm:"size:20;not null;index:idx_booking_service" json:"service_type"`
	ServiceID    uint            `gorm:"not null;index:idx_booking_service" json:"service_id"`
	ServiceName  string          `gorm:"size:200;not null" json:"service_name"` // title snapshot, survives catalogue edits
	Date         time.Time       `gorm:"not null" json:"date"`
	TimeSlot     string          `gorm:"size:8;not null" json:"time_slot"` // "15:04"
	Status       BookingStatus   `gorm:"size:20;not null;default:pending" json:"status"`
	Requirements string          `gorm:"type:text" json:"requirements"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
}
