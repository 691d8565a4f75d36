package services

import (
	"errors"
	"fmt"

	"github.com/eventnest/eventnest/app/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrEmptyCart is returned when checkout finds nothing to order.
	ErrEmptyCart = errors.New("order: cart is empty")

	// ErrOrderNotFound covers missing orders and orders owned by someone else.
	ErrOrderNotFound = errors.New("order: not found")

	// ErrOrderNotCancellable is returned for cancel attempts on shipped or
	// delivered orders. Cancelling an already-cancelled order is NOT an
	// error; it is an idempotent no-op.
	ErrOrderNotCancellable = errors.New("order: status does not allow cancellation")

	// ErrBadTransition is returned for illegal lifecycle moves.
	ErrBadTransition = errors.New("order: illegal status transition")
)

// OrderService owns checkout and the order lifecycle state machine.
type OrderService struct {
	db        *gorm.DB
	inventory *InventoryService
}

func NewOrderService(db *gorm.DB, inventory *InventoryService) *OrderService {
	return &OrderService{db: db, inventory: inventory}
}

// Checkout converts the user's cart into an order, all-or-nothing.
//
// Inside one transaction, per line: the item row is locked, the cart's own
// hold is released, then the line quantity is re-reserved exactly. Because
// release and re-reserve net to zero, a clean checkout changes no stock —
// the cart's reservation simply becomes the order's. The exact re-reserve
// is where ledger drift (stock rows edited out-of-band, underflow absorbed
// by the zero floor) surfaces: any short line aborts the whole transaction
// with a StockShortfallError listing every short item, and the rollback
// leaves cart and stock untouched.
func (s *OrderService) Checkout(userID uint, shippingAddress string) (*models.Order, error) {
	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Preload("Items.Item").Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(cart.Items) == 0) {
			return ErrEmptyCart
		}
		if err != nil {
			return fmt.Errorf("order: load cart: %w", err)
		}

		var short []ShortLine
		for _, line := range cart.Items {
			if err := s.inventory.Release(tx, line.ItemID, line.Quantity); err != nil {
				return err
			}
			err := s.inventory.ReserveExact(tx, line.ItemID, line.Quantity)
			var shortfall *StockShortfallError
			if errors.As(err, &shortfall) {
				short = append(short, shortfall.Lines...)
				continue
			}
			if err != nil {
				return err
			}
		}
		if len(short) > 0 {
			return &StockShortfallError{Lines: short}
		}

		total := decimal.Zero
		for _, line := range cart.Items {
			total = total.Add(line.Item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order = &models.Order{
			Number:          uuid.NewString(),
			UserID:          userID,
			TotalAmount:     total,
			Status:          models.OrderPending,
			ShippingAddress: shippingAddress,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("order: create: %w", err)
		}

		for _, line := range cart.Items {
			item := models.OrderItem{
				OrderID:  order.ID,
				ItemID:   line.ItemID,
				Quantity: line.Quantity,
				Price:    line.Item.Price, // snapshot, decoupled from live price
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("order: create line: %w", err)
			}
			order.Items = append(order.Items, item)
		}

		// Clear the cart without releasing stock: the holds now belong to
		// the order lines created above.
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("order: clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel moves the user's order to cancelled and restores stock for every
// line, exactly once. A repeat cancel finds the order already cancelled and
// returns it unchanged — restoration never runs twice.
func (s *OrderService) Cancel(userID, orderID uint) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("order: load %d: %w", orderID, err)
		}

		if order.Status == models.OrderCancelled {
			return nil // idempotent
		}
		if !order.Status.Cancellable() {
			return ErrOrderNotCancellable
		}

		for _, line := range order.Items {
			if err := s.inventory.Release(tx, line.ItemID, line.Quantity); err != nil {
				return err
			}
		}

		order.Status = models.OrderCancelled
		if err := tx.Model(&order).Update("status", models.OrderCancelled).Error; err != nil {
			return fmt.Errorf("order: mark cancelled: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Transition advances an order along the forward path (staff action).
// Entering cancelled through this path restores stock exactly like Cancel.
func (s *OrderService) Transition(orderID uint, next models.OrderStatus) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("order: load %d: %w", orderID, err)
		}

		if order.Status == next {
			return nil
		}
		if !order.Status.CanTransition(next) {
			return fmt.Errorf("%w: %s -> %s", ErrBadTransition, order.Status, next)
		}

		if next == models.OrderCancelled {
			for _, line := range order.Items {
				if err := s.inventory.Release(tx, line.ItemID, line.Quantity); err != nil {
					return err
				}
			}
		}

		order.Status = next
		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return fmt.Errorf("order: update status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Delete removes an order and its lines, returning their stock (staff
// cleanup path). Cancelled orders already restored stock, so their lines
// release nothing.
func (s *OrderService) Delete(orderID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("order: load %d: %w", orderID, err)
		}

		if order.Status != models.OrderCancelled {
			for _, line := range order.Items {
				if err := s.inventory.Release(tx, line.ItemID, line.Quantity); err != nil {
					return err
				}
			}
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("order: delete lines: %w", err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return fmt.Errorf("order: delete: %w", err)
		}
		return nil
	})
}

// History lists the user's orders, newest first, lines preloaded.
func (s *OrderService) History(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items.Item").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("order: history for user %d: %w", userID, err)
	}
	return orders, nil
}

// Find loads one order for its owner.
func (s *OrderService) Find(userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items.Item").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order: find %d: %w", orderID, err)
	}
	return &order, nil
}
