package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceCategory groups the generic services catalogue.
type ServiceCategory struct {
	gorm.Model
	Name        string `gorm:"size:100;not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Services []Service `gorm:"foreignKey:CategoryID" json:"services,omitempty"`
}

// Service is a bookable offering listed under a category.
type Service struct {
	gorm.Model
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Title       string          `gorm:"size:200;not null;index" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       string          `gorm:"size:500" json:"image"`
}

// ServiceType discriminates the four concrete service tables for bookings.
type ServiceType string

const (
	ServiceTypeEvent    ServiceType = "event"
	ServiceTypePhoto    ServiceType = "photo"
	ServiceTypeCatering ServiceType = "catering"
	ServiceTypePrinting ServiceType = "printing"
)

// Valid reports whether t names one of the bookable service tables.
func (t ServiceType) Valid() bool {
	switch t {
	case ServiceTypeEvent, ServiceTypePhoto, ServiceTypeCatering, ServiceTypePrinting:
		return true
	}
	return false
}

// EventManagement is a full event package (wedding, corporate, birthday...).
type EventManagement struct {
	gorm.Model
	Title              string          `gorm:"size:200;not null" json:"title"`
	Description        string          `gorm:"type:text" json:"description"`
	Price              decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image              string          `gorm:"size:500" json:"image"`
	EventType          string          `gorm:"size:100" json:"event_type"`
	Capacity           int             `json:"capacity"` // maximum number of guests
	DurationHours      int             `json:"duration_hours"`
	IncludesDecoration bool            `gorm:"not null;default:false" json:"includes_decoration"`
	IncludesCatering   bool            `gorm:"not null;default:false" json:"includes_catering"`
}

// Photography is a photo-shoot package.
type Photography struct {
	gorm.Model
	Title           string          `gorm:"size:200;not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image           string          `gorm:"size:500" json:"image"`
	ShootType       string          `gorm:"size:100" json:"shoot_type"`
	DurationHours   int             `json:"duration_hours"`
	IncludesEditing bool            `gorm:"not null;default:true" json:"includes_editing"`
	NumberOfPhotos  int             `json:"number_of_photos"` // minimum delivered photos
	IncludesPrints  bool            `gorm:"not null;default:false" json:"includes_prints"`
}

// Catering is priced per person.
type Catering struct {
	gorm.Model
	Title                string          `gorm:"size:200;not null" json:"title"`
	Description          string          `gorm:"type:text" json:"description"`
	Price                decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // per person
	Image                string          `gorm:"size:500" json:"image"`
	CuisineType          string          `gorm:"size:100" json:"cuisine_type"`
	MinOrderQuantity     int             `json:"min_order_quantity"` // minimum persons
	IncludesServingStaff bool            `gorm:"not null;default:false" json:"includes_serving_staff"`
	IncludesSetup        bool            `gorm:"not null;default:false" json:"includes_setup"`
}

// PrintingService is priced per piece.
type PrintingService struct {
	gorm.Model
	Title            string          `gorm:"size:200;not null" json:"title"`
	Description      string          `gorm:"type:text" json:"description"`
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // per piece
	Image            string          `gorm:"size:500" json:"image"`
	PrintType        string          `gorm:"size:100" json:"print_type"`
	PaperType        string          `gorm:"size:100" json:"paper_type"`
	MinOrderQuantity int             `json:"min_order_quantity"`
	IncludesDesign   bool            `gorm:"not null;default:false" json:"includes_design"`
	DeliveryDays     int             `json:"delivery_days"`
}
