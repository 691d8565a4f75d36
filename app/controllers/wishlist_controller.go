package controllers

import (
	"errors"
	"net/http"

	"github.com/eventnest/eventnest/app/services"
	"github.com/eventnest/eventnest/pkg/ctx"
	"github.com/eventnest/eventnest/pkg/middleware"
)

type WishlistController struct {
	wishlists *services.WishlistService
}

func NewWishlistController(wishlists *services.WishlistService) *WishlistController {
	return &WishlistController{wishlists: wishlists}
}

func (wc *WishlistController) Show(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	list, err := wc.wishlists.Get(user.ID)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load wishlist")
		return
	}
	c.Success(list)
}

func (wc *WishlistController) Toggle(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	itemID, ok := paramUint(c, "item")
	if !ok {
		return
	}

	saved, err := wc.wishlists.Toggle(user.ID, itemID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			c.NotFound("item not found")
			return
		}
		c.Error(http.StatusInternalServerError, "could not update wishlist")
		return
	}
	c.Success(map[string]any{"item_id": itemID, "saved": saved})
}

func (wc *WishlistController) Remove(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	itemID, ok := paramUint(c, "item")
	if !ok {
		return
	}

	if err := wc.wishlists.Remove(user.ID, itemID); err != nil {
		c.Error(http.StatusInternalServerError, "could not update wishlist")
		return
	}
	c.Success(map[string]any{"item_id": itemID, "saved": false})
}
