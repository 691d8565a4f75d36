package services

import (
	"errors"
	"fmt"

	"github.com/eventnest/eventnest/app/models"
	"gorm.io/gorm"
)

// WishlistService manages each user's saved-items list. Wishlist entries
// never touch stock; only cart and order operations do.
type WishlistService struct {
	db *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

// Get returns the user's wishlist with items loaded, creating it lazily.
func (s *WishlistService) Get(userID uint) (*models.Wishlist, error) {
	list, err := s.ensure(userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Preload("Items").First(list, list.ID).Error; err != nil {
		return nil, fmt.Errorf("wishlist: load %d: %w", list.ID, err)
	}
	return list, nil
}

// Toggle adds the item if absent, removes it if present. Returns true when
// the item is on the list after the call.
func (s *WishlistService) Toggle(userID, itemID uint) (bool, error) {
	var item models.StoreItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrItemNotFound
		}
		return false, fmt.Errorf("wishlist: load item %d: %w", itemID, err)
	}

	list, err := s.ensure(userID)
	if err != nil {
		return false, err
	}

	assoc := s.db.Model(list).Association("Items")
	var present int64
	err = s.db.Table("wishlist_items").
		Where("wishlist_id = ? AND store_item_id = ?", list.ID, itemID).
		Count(&present).Error
	if err != nil {
		return false, fmt.Errorf("wishlist: membership check: %w", err)
	}

	if present > 0 {
		if err := assoc.Delete(&item); err != nil {
			return false, fmt.Errorf("wishlist: remove item %d: %w", itemID, err)
		}
		return false, nil
	}
	if err := assoc.Append(&item); err != nil {
		return false, fmt.Errorf("wishlist: add item %d: %w", itemID, err)
	}
	return true, nil
}

// Remove drops the item from the wishlist; removing an absent item is a
// no-op.
func (s *WishlistService) Remove(userID, itemID uint) error {
	list, err := s.ensure(userID)
	if err != nil {
		return err
	}
	if err := s.db.Model(list).Association("Items").Delete(&models.StoreItem{Model: gorm.Model{ID: itemID}}); err != nil {
		return fmt.Errorf("wishlist: remove item %d: %w", itemID, err)
	}
	return nil
}

func (s *WishlistService) ensure(userID uint) (*models.Wishlist, error) {
	var list models.Wishlist
	err := s.db.Where("user_id = ?", userID).First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		list = models.Wishlist{UserID: userID}
		err = s.db.Create(&list).Error
	}
	if err != nil {
		return nil, fmt.Errorf("wishlist: ensure for user %d: %w", userID, err)
	}
	return &list, nil
}
