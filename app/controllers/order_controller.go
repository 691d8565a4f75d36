package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/eventnest/eventnest/app/jobs"
	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/services"
	"github.com/eventnest/eventnest/pkg/ctx"
	"github.com/eventnest/eventnest/pkg/logger"
	"github.com/eventnest/eventnest/pkg/middleware"
	"github.com/eventnest/eventnest/pkg/queue"
)

type OrderController struct {
	orders        *services.OrderService
	notifications *services.NotificationService
}

func NewOrderController(orders *services.OrderService, notifications *services.NotificationService) *OrderController {
	return &OrderController{orders: orders, notifications: notifications}
}

type checkoutInput struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
}

func (oc *OrderController) Checkout(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)

	var in checkoutInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := oc.orders.Checkout(user.ID, in.ShippingAddress)
	if err != nil {
		var shortfall *services.StockShortfallError
		switch {
		case errors.As(err, &shortfall):
			c.JSON(http.StatusConflict, map[string]any{
				"status":  http.StatusConflict,
				"message": "some items are no longer available in the requested quantity",
				"errors":  shortfall.Lines,
			})
		case errors.Is(err, services.ErrEmptyCart):
			c.Error(http.StatusBadRequest, "cart is empty")
		default:
			c.Error(http.StatusInternalServerError, "checkout failed")
		}
		return
	}

	if err := queue.Dispatch(jobs.OrderConfirmationJob{OrderID: order.ID}); err != nil {
		logger.Warn("orders: confirmation job dispatch failed", "order", order.Number, "error", err)
	}
	oc.notify(user.ID, models.NotifyOrder, "Order placed",
		fmt.Sprintf("Order %s was placed for %s.", order.Number, order.TotalAmount.StringFixed(2)))

	c.Created(order)
}

func (oc *OrderController) History(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	orders, err := oc.orders.History(user.ID)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load orders")
		return
	}
	c.Success(orders)
}

func (oc *OrderController) Show(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	id, ok := paramUint(c, "order")
	if !ok {
		return
	}

	order, err := oc.orders.Find(user.ID, id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.NotFound("order not found")
			return
		}
		c.Error(http.StatusInternalServerError, "could not load order")
		return
	}
	c.Success(order)
}

func (oc *OrderController) Cancel(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	id, ok := paramUint(c, "order")
	if !ok {
		return
	}

	order, err := oc.orders.Cancel(user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.NotFound("order not found")
		case errors.Is(err, services.ErrOrderNotCancellable):
			c.Error(http.StatusConflict, "order can no longer be cancelled")
		default:
			c.Error(http.StatusInternalServerError, "could not cancel order")
		}
		return
	}

	oc.notify(user.ID, models.NotifyOrder, "Order cancelled",
		fmt.Sprintf("Order %s was cancelled and reserved stock was returned.", order.Number))
	c.Success(order)
}

func (oc *OrderController) notify(userID uint, kind models.NotificationKind, title, body string) {
	if _, err := oc.notifications.Notify(userID, kind, title, body); err != nil {
		logger.Warn("orders: notification failed", "user_id", userID, "error", err)
	}
}
