package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/repositories"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound       = errors.New("bookings: not found")
	ErrBookingNotCancellable = errors.New("bookings: only pending or confirmed bookings can be cancelled")
	ErrBookingInPast         = errors.New("bookings: date must be in the future")
)

// BookingInput is a booking request for one service offering.
type BookingInput struct {
	ServiceType  models.ServiceType `json:"service_type" validate:"required"`
	ServiceID    uint               `json:"service_id" validate:"required"`
	Date         time.Time          `json:"date" validate:"required"`
	TimeSlot     string             `json:"time_slot" validate:"required"`
	Requirements string             `json:"requirements"`
}

// BookingService books service offerings. The booked amount is a snapshot
// of the service's price at booking time; later price edits do not touch
// existing bookings.
type BookingService struct {
	db      *gorm.DB
	catalog *repositories.CatalogRepository
}

func NewBookingService(db *gorm.DB, catalog *repositories.CatalogRepository) *BookingService {
	return &BookingService{db: db, catalog: catalog}
}

// Book validates the offering exists and creates a pending booking.
func (s *BookingService) Book(userID uint, in BookingInput) (*models.Booking, error) {
	if in.Date.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, ErrBookingInPast
	}
	if _, err := time.Parse("15:04", in.TimeSlot); err != nil {
		return nil, fmt.Errorf("bookings: bad time slot %q: %w", in.TimeSlot, err)
	}

	svc, err := s.catalog.FindService(in.ServiceType, in.ServiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrServiceNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	booking := &models.Booking{
		UserID:       userID,
		ServiceType:  in.ServiceType,
		ServiceID:    in.ServiceID,
		ServiceName:  svc.Title,
		Date:         in.Date,
		TimeSlot:     in.TimeSlot,
		Requirements: in.Requirements,
		TotalAmount:  svc.Price,
		Status:       models.BookingPending,
	}
	if err := s.db.Create(booking).Error; err != nil {
		return nil, fmt.Errorf("bookings: create: %w", err)
	}
	return booking, nil
}

// Cancel cancels a booking while it is still pending or confirmed.
func (s *BookingService) Cancel(userID, bookingID uint) (*models.Booking, error) {
	booking, err := s.find(userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingCancelled {
		return booking, nil // already done, nothing to undo
	}
	if !booking.Status.Cancellable() {
		return nil, ErrBookingNotCancellable
	}

	booking.Status = models.BookingCancelled
	if err := s.db.Model(booking).Update("status", models.BookingCancelled).Error; err != nil {
		return nil, fmt.Errorf("bookings: cancel %d: %w", bookingID, err)
	}
	return booking, nil
}

// SetStatus moves a booking to any status; staff only, enforced upstream.
func (s *BookingService) SetStatus(bookingID uint, status models.BookingStatus) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: load %d: %w", bookingID, err)
	}
	booking.Status = status
	if err := s.db.Model(&booking).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("bookings: set status: %w", err)
	}
	return &booking, nil
}

// History lists the user's bookings, newest first.
func (s *BookingService) History(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("bookings: history for %d: %w", userID, err)
	}
	return bookings, nil
}

func (s *BookingService) find(userID, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("bookings: load %d: %w", bookingID, err)
	}
	return &booking, nil
}
