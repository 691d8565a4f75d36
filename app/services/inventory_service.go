package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eventnest/eventnest/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrItemNotFound is returned when a reservation references a missing item.
var ErrItemNotFound = errors.New("inventory: store item not found")

// ShortLine describes one line that could not be fully satisfied.
type ShortLine struct {
	ItemID    uint   `json:"item_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// StockShortfallError aborts a strict reservation batch and names every
// short item so the user-facing message can list them.
type StockShortfallError struct {
	Lines []ShortLine
}

func (e *StockShortfallError) Error() string {
	names := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		names[i] = fmt.Sprintf("%s (requested %d, available %d)", l.Name, l.Requested, l.Available)
	}
	return "insufficient stock: " + strings.Join(names, ", ")
}

// InventoryService is the stock-consistency ledger. It is the only code
// allowed to mutate StoreItem.Stock, always inside a caller-supplied
// transaction and always under a row lock, so two concurrent requests can
// never both observe sufficient stock when only one should succeed.
//
// Reserve clamps rather than rejects: the caller receives the granted
// quantity, which may be less than requested, and decides whether to
// surface a warning. This is a documented contract, not an accident.
type InventoryService struct{}

func NewInventoryService() *InventoryService {
	return &InventoryService{}
}

// LockItem re-reads the item row with select-for-update semantics so the
// check-then-write that follows is race-free for the rest of tx.
//
// SQLite serialises writers at the database level, so the locking clause is
// skipped there; every other supported driver takes a real row lock.
func (s *InventoryService) LockItem(tx *gorm.DB, itemID uint) (*models.StoreItem, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item models.StoreItem
	if err := q.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("inventory: lock item %d: %w", itemID, err)
	}
	return &item, nil
}

// Reserve decrements stock for itemID by up to requested units and returns
// the granted amount: min(requested, stock at this instant). requested <= 0
// grants zero and touches nothing.
func (s *InventoryService) Reserve(tx *gorm.DB, itemID uint, requested int) (int, error) {
	if requested <= 0 {
		return 0, nil
	}

	item, err := s.LockItem(tx, itemID)
	if err != nil {
		return 0, err
	}

	granted := requested
	if granted > item.Stock {
		granted = item.Stock
	}

	if err := s.adjust(tx, item, -granted); err != nil {
		return 0, err
	}
	return granted, nil
}

// ReserveExact decrements stock by exactly qty or fails with a
// *StockShortfallError. Used by checkout, which is all-or-nothing.
func (s *InventoryService) ReserveExact(tx *gorm.DB, itemID uint, qty int) error {
	if qty <= 0 {
		return nil
	}

	item, err := s.LockItem(tx, itemID)
	if err != nil {
		return err
	}

	if qty > item.Stock {
		return &StockShortfallError{Lines: []ShortLine{{
			ItemID:    item.ID,
			Name:      item.Name,
			Requested: qty,
			Available: item.Stock,
		}}}
	}

	return s.adjust(tx, item, -qty)
}

// Release returns qty units to the item's stock.
func (s *InventoryService) Release(tx *gorm.DB, itemID uint, qty int) error {
	if qty <= 0 {
		return nil
	}

	item, err := s.LockItem(tx, itemID)
	if err != nil {
		return err
	}
	return s.adjust(tx, item, qty)
}

// SetStock sets an item's absolute stock level (admin restock). Negative
// levels are floored at zero.
func (s *InventoryService) SetStock(tx *gorm.DB, itemID uint, stock int) (*models.StoreItem, error) {
	item, err := s.LockItem(tx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.adjust(tx, item, stock-item.Stock); err != nil {
		return nil, err
	}
	return item, nil
}

// adjust applies a signed delta to the locked item's stock, flooring at
// zero. The floor silently absorbs ledger drift instead of underflowing;
// checkout's exact re-reservation is where such drift surfaces.
func (s *InventoryService) adjust(tx *gorm.DB, item *models.StoreItem, delta int) error {
	next := item.Stock + delta
	if next < 0 {
		next = 0
	}

	if err := tx.Model(item).Update("stock", next).Error; err != nil {
		return fmt.Errorf("inventory: update stock for item %d: %w", item.ID, err)
	}
	item.Stock = next
	return nil
}
