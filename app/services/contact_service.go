package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/repositories"
	"gorm.io/gorm"
)

var ErrContactIncomplete = errors.New("contact: name, email and message are required")

// ContactInput is a contact-form submission, optionally tied to a service
// offering the visitor was looking at.
type ContactInput struct {
	FullName    string             `json:"full_name" validate:"required"`
	Email       string             `json:"email" validate:"required,email"`
	Subject     string             `json:"subject"`
	Message     string             `json:"message" validate:"required"`
	ServiceType models.ServiceType `json:"service_type"`
	ServiceID   uint               `json:"service_id"`
}

// ContactService stores contact-form submissions for the staff inbox.
type ContactService struct {
	db      *gorm.DB
	catalog *repositories.CatalogRepository
}

func NewContactService(db *gorm.DB, catalog *repositories.CatalogRepository) *ContactService {
	return &ContactService{db: db, catalog: catalog}
}

// Submit validates and stores a submission. userID may be 0 for anonymous
// visitors. A dangling service reference is dropped rather than rejected:
// losing the message over a stale link would be worse.
func (s *ContactService) Submit(userID uint, in ContactInput) (*models.Contact, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	if in.FullName == "" || in.Email == "" || in.Message == "" {
		return nil, ErrContactIncomplete
	}

	contact := &models.Contact{
		FullName: in.FullName,
		Email:    in.Email,
		Subject:  in.Subject,
		Message:  in.Message,
	}
	if userID != 0 {
		contact.UserID = &userID
	}

	if in.ServiceType != "" && in.ServiceID != 0 {
		svc, err := s.catalog.FindService(in.ServiceType, in.ServiceID)
		if err == nil {
			contact.ServiceType = in.ServiceType
			contact.ServiceID = in.ServiceID
			contact.ServiceName = svc.Title
		} else if !errors.Is(err, repositories.ErrServiceNotFound) {
			return nil, err
		}
	}

	if err := s.db.Create(contact).Error; err != nil {
		return nil, fmt.Errorf("contact: create: %w", err)
	}
	return contact, nil
}

// Inbox lists submissions newest first for staff.
func (s *ContactService) Inbox(limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []models.Contact
	err := s.db.Order("created_at DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("contact: inbox: %w", err)
	}
	return out, nil
}
