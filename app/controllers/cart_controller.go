package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/eventnest/eventnest/app/services"
	"github.com/eventnest/eventnest/pkg/ctx"
	"github.com/eventnest/eventnest/pkg/middleware"
)

// CartController exposes the cart. Mutation responses always carry the
// item's remaining stock and the cart badge count so the storefront can
// update without a second request; granted-vs-requested tells the client
// when a clamp happened.
type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (cc *CartController) Show(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	cart, err := cc.carts.Get(user.ID)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load cart")
		return
	}
	c.Success(map[string]any{
		"cart":  cart,
		"total": cart.Total(),
	})
}

func (cc *CartController) Count(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	n, err := cc.carts.Count(user.ID)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not count cart")
		return
	}
	c.Success(map[string]any{"cart_count": n})
}

type cartAddInput struct {
	ItemID   uint `json:"item_id" validate:"required"`
	Quantity int  `json:"quantity"`
}

func (cc *CartController) Add(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)

	var in cartAddInput
	if !c.BindJSON(&in) {
		return
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	mut, err := cc.carts.AddItem(user.ID, in.ItemID, in.Quantity)
	if err != nil {
		cc.fail(c, err)
		return
	}
	cc.mutated(c, mut)
}

type cartUpdateInput struct {
	Quantity int `json:"quantity" validate:"required"`
}

func (cc *CartController) Update(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	itemID, ok := paramUint(c, "item")
	if !ok {
		return
	}

	var in cartUpdateInput
	if !c.BindJSON(&in) {
		return
	}

	mut, err := cc.carts.UpdateItem(user.ID, itemID, in.Quantity)
	if err != nil {
		cc.fail(c, err)
		return
	}
	cc.mutated(c, mut)
}

func (cc *CartController) Remove(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	itemID, ok := paramUint(c, "item")
	if !ok {
		return
	}

	mut, err := cc.carts.RemoveItem(user.ID, itemID)
	if err != nil {
		cc.fail(c, err)
		return
	}
	cc.mutated(c, mut)
}

func (cc *CartController) mutated(c *ctx.Context, mut *services.CartMutation) {
	msg := "cart updated"
	if mut.Clamped {
		msg = "quantity limited by available stock"
	}
	c.Success(map[string]any{
		"message":       msg,
		"item_id":       mut.ItemID,
		"requested":     mut.Requested,
		"granted":       mut.Granted,
		"clamped":       mut.Clamped,
		"line_quantity": mut.LineQuantity,
		"current_stock": mut.CurrentStock,
		"cart_count":    mut.CartCount,
	})
}

func (cc *CartController) fail(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		c.NotFound("item not found")
	case errors.Is(err, services.ErrNotCartOwner):
		c.Forbidden()
	default:
		c.Error(http.StatusInternalServerError, "cart operation failed")
	}
}

// paramUint parses a positive integer URL parameter, answering 400 itself
// on garbage.
func paramUint(c *ctx.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || n == 0 {
		c.Error(http.StatusBadRequest, "invalid "+name+" id")
		return 0, false
	}
	return uint(n), true
}
