package models

import "gorm.io/gorm"

// Wishlist is a user's saved store items. One wishlist per user.
type Wishlist struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Items []StoreItem `gorm:"many2many:wishlist_items" json:"items,omitempty"`
}
