package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StoreCategory groups sellable store items.
type StoreCategory struct {
	gorm.Model
	Name        string `gorm:"size:100;not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Items []StoreItem `gorm:"foreignKey:CategoryID" json:"items,omitempty"`
}

// StoreItem is a physical product with a stock counter.
//
// Stock counts unreserved, sellable units. Every committed mutation keeps
// Stock >= 0; the inventory service is the only code that may change it.
type StoreItem struct {
	gorm.Model
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Name        string          `gorm:"size:200;not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       string          `gorm:"size:500" json:"image"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
}
