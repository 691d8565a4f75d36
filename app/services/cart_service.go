package services

import (
	"errors"
	"fmt"

	"github.com/eventnest/eventnest/app/models"
	"gorm.io/gorm"
)

// ErrNotCartOwner is returned when a user touches someone else's cart line.
var ErrNotCartOwner = errors.New("cart: line does not belong to this user")

// CartMutation reports the outcome of a cart write back to the caller.
// Granted may be lower than Requested (clamping contract); CurrentStock and
// CartCount feed the cart JSON envelope.
type CartMutation struct {
	ItemID       uint `json:"item_id"`
	Requested    int  `json:"requested"`
	Granted      int  `json:"granted"`
	Clamped      bool `json:"clamped"`
	LineQuantity int  `json:"line_quantity"`
	CurrentStock int  `json:"current_stock"`
	CartCount    int  `json:"cart_count"`
}

// CartService owns cart reads and the reservation bookkeeping around cart
// writes. Every mutation runs in one transaction: the persisted line is
// re-read next to the locked item row, so the reservation delta is computed
// from current state, never from a stale in-memory copy.
type CartService struct {
	db        *gorm.DB
	inventory *InventoryService
}

func NewCartService(db *gorm.DB, inventory *InventoryService) *CartService {
	return &CartService{db: db, inventory: inventory}
}

// Get loads the user's cart with lines and items, creating the cart row if
// the user has none yet.
func (s *CartService) Get(userID uint) (*models.Cart, error) {
	cart, err := s.ensureCart(s.db, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.Preload("Items.Item").First(cart, cart.ID).Error
	if err != nil {
		return nil, fmt.Errorf("cart: load %d: %w", cart.ID, err)
	}
	return cart, nil
}

// Count returns the total reserved quantity across the user's cart lines.
func (s *CartService) Count(userID uint) (int, error) {
	return s.count(s.db, userID)
}

// AddItem reserves up to quantity units of itemID and upserts the cart line.
// An existing line grows by the granted delta. The returned mutation carries
// the granted quantity so callers can surface the clamp.
func (s *CartService) AddItem(userID, itemID uint, quantity int) (*CartMutation, error) {
	if quantity < 1 {
		quantity = 1
	}

	var result *CartMutation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.ensureCart(tx, userID)
		if err != nil {
			return err
		}

		var line models.CartItem
		err = tx.Where("cart_id = ? AND item_id = ?", cart.ID, itemID).First(&line).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = models.CartItem{CartID: cart.ID, ItemID: itemID}
		case err != nil:
			return fmt.Errorf("cart: find line: %w", err)
		}

		granted, err := s.inventory.Reserve(tx, itemID, quantity)
		if err != nil {
			return err
		}

		line.Quantity += granted
		if err := tx.Save(&line).Error; err != nil {
			return fmt.Errorf("cart: save line: %w", err)
		}

		result, err = s.mutationResult(tx, userID, &line, quantity, granted)
		return err
	})
	return result, err
}

// UpdateItem sets the line to the requested quantity, clamped to what stock
// allows. Growing the line reserves the delta; shrinking releases it.
// quantity <= 0 leaves the line untouched (removal is a separate operation).
func (s *CartService) UpdateItem(userID, lineID uint, quantity int) (*CartMutation, error) {
	var result *CartMutation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		line, err := s.ownedLine(tx, userID, lineID)
		if err != nil {
			return err
		}

		if quantity <= 0 {
			result, err = s.mutationResult(tx, userID, line, quantity, line.Quantity)
			return err
		}

		// Delta against the persisted row, re-read above inside this tx.
		delta := quantity - line.Quantity

		switch {
		case delta > 0:
			granted, err := s.inventory.Reserve(tx, line.ItemID, delta)
			if err != nil {
				return err
			}
			line.Quantity += granted
		case delta < 0:
			if err := s.inventory.Release(tx, line.ItemID, -delta); err != nil {
				return err
			}
			line.Quantity = quantity
		}

		if err := tx.Save(line).Error; err != nil {
			return fmt.Errorf("cart: save line: %w", err)
		}

		// Requested is the target quantity; granted is what the line ended
		// up at, so callers can tell when the target was clamped.
		result, err = s.mutationResult(tx, userID, line, quantity, line.Quantity)
		return err
	})
	return result, err
}

// RemoveItem deletes the line and returns its full quantity to stock.
func (s *CartService) RemoveItem(userID, lineID uint) (*CartMutation, error) {
	var result *CartMutation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		line, err := s.ownedLine(tx, userID, lineID)
		if err != nil {
			return err
		}

		if err := s.inventory.Release(tx, line.ItemID, line.Quantity); err != nil {
			return err
		}

		if err := tx.Delete(&models.CartItem{}, line.ID).Error; err != nil {
			return fmt.Errorf("cart: delete line: %w", err)
		}

		line.Quantity = 0
		result, err = s.mutationResult(tx, userID, line, 0, 0)
		return err
	})
	return result, err
}

// ── internals ────────────────────────────────────────────────────────────────

func (s *CartService) ensureCart(tx *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = tx.Create(&cart).Error
	}
	if err != nil {
		return nil, fmt.Errorf("cart: ensure for user %d: %w", userID, err)
	}
	return &cart, nil
}

// ownedLine loads the line and checks the cart belongs to userID.
func (s *CartService) ownedLine(tx *gorm.DB, userID, lineID uint) (*models.CartItem, error) {
	var line models.CartItem
	if err := tx.First(&line, lineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCartOwner
		}
		return nil, fmt.Errorf("cart: find line %d: %w", lineID, err)
	}

	var cart models.Cart
	if err := tx.First(&cart, line.CartID).Error; err != nil {
		return nil, fmt.Errorf("cart: find cart %d: %w", line.CartID, err)
	}
	if cart.UserID != userID {
		return nil, ErrNotCartOwner
	}
	return &line, nil
}

func (s *CartService) count(tx *gorm.DB, userID uint) (int, error) {
	var total int64
	err := tx.Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ? AND cart_items.deleted_at IS NULL", userID).
		Select("COALESCE(SUM(cart_items.quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("cart: count for user %d: %w", userID, err)
	}
	return int(total), nil
}

func (s *CartService) mutationResult(tx *gorm.DB, userID uint, line *models.CartItem, requested, granted int) (*CartMutation, error) {
	var item models.StoreItem
	if err := tx.First(&item, line.ItemID).Error; err != nil {
		return nil, fmt.Errorf("cart: reload item %d: %w", line.ItemID, err)
	}

	count, err := s.count(tx, userID)
	if err != nil {
		return nil, err
	}

	return &CartMutation{
		ItemID:       line.ItemID,
		Requested:    requested,
		Granted:      granted,
		Clamped:      granted < requested && requested > 0,
		LineQuantity: line.Quantity,
		CurrentStock: item.Stock,
		CartCount:    count,
	}, nil
}
