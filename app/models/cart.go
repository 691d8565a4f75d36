package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart holds a user's pending store selections. One cart per user.
type Cart struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Items []CartItem `json:"items,omitempty"`
}

// Total sums line totals across the loaded items.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Items {
		total = total.Add(line.Total())
	}
	return total
}

// CartItem is one reserved line in a cart. Quantity is always the granted
// (possibly clamped) amount, and the item's stock has already been
// decremented by exactly that much.
type CartItem struct {
	gorm.Model
	CartID   uint `gorm:"not null;index:idx_cart_item,unique" json:"cart_id"`
	ItemID   uint `gorm:"not null;index:idx_cart_item,unique" json:"item_id"`
	Quantity int  `gorm:"not null" json:"quantity"`

	Item StoreItem `json:"item,omitempty"`
}

// Total prices the line at the item's live price. Cart lines are not price
// snapshots; only order lines are.
func (ci *CartItem) Total() decimal.Decimal {
	return ci.Item.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}
