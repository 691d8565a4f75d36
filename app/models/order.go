package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// orderTransitions is the forward path plus the cancel side exit.
// delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

// CanTransition reports whether moving from s to next is legal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in state s may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderPending || s == OrderProcessing
}

// Terminal reports whether s admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Order is an immutable-once-placed aggregate. TotalAmount is computed once
// at checkout from the snapshot line prices and never re-derived.
type Order struct {
	gorm.Model
	Number          string          `gorm:"size:36;uniqueIndex;not null" json:"number"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"size:20;not null;default:pending" json:"status"`
	ShippingAddress string          `gorm:"type:text" json:"shipping_address"`

	User  User        `json:"-"`
	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots the unit price at time of purchase, decoupled from the
// live StoreItem price.
type OrderItem struct {
	gorm.Model
	OrderID  uint            `gorm:"not null;index" json:"order_id"`
	ItemID   uint            `gorm:"not null;index" json:"item_id"`
	Quantity int             `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`

	Item StoreItem `json:"item,omitempty"`
}

// Total is the snapshot price times quantity.
func (oi *OrderItem) Total() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
