package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/repositories"
	"github.com/eventnest/eventnest/app/services"
	"github.com/eventnest/eventnest/pkg/ctx"
	"github.com/eventnest/eventnest/pkg/logger"
	"github.com/eventnest/eventnest/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdminController is the staff surface: catalogue management, restocking,
// order fulfilment and the contact inbox. Every route is mounted behind
// RequireStaff.
type AdminController struct {
	db            *gorm.DB
	inventory     *services.InventoryService
	orders        *services.OrderService
	bookings      *services.BookingService
	contacts      *services.ContactService
	catalog       *repositories.CatalogRepository
	notifications *services.NotificationService
}

func NewAdminController(
	db *gorm.DB,
	inventory *services.InventoryService,
	orders *services.OrderService,
	bookings *services.BookingService,
	contacts *services.ContactService,
	catalog *repositories.CatalogRepository,
	notifications *services.NotificationService,
) *AdminController {
	return &AdminController{
		db:            db,
		inventory:     inventory,
		orders:        orders,
		bookings:      bookings,
		contacts:      contacts,
		catalog:       catalog,
		notifications: notifications,
	}
}

// ------------------- Store items -------------------

type storeItemInput struct {
	CategoryID  uint   `json:"category_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required"`
	Stock       int    `json:"stock"`
}

func (ac *AdminController) CreateItem(c *ctx.Context) {
	var in storeItemInput
	if !c.BindJSON(&in) {
		return
	}

	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.IsNegative() {
		c.Error(http.StatusBadRequest, "invalid price")
		return
	}
	if in.Stock < 0 {
		in.Stock = 0
	}

	item := models.StoreItem{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		Stock:       in.Stock,
	}
	if err := ac.db.Create(&item).Error; err != nil {
		c.Error(http.StatusInternalServerError, "could not create item")
		return
	}
	ac.catalog.Invalidate()
	c.Created(item)
}

func (ac *AdminController) UpdateItem(c *ctx.Context) {
	id, ok := paramUint(c, "item")
	if !ok {
		return
	}

	var in storeItemInput
	if !c.BindJSON(&in) {
		return
	}
	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.IsNegative() {
		c.Error(http.StatusBadRequest, "invalid price")
		return
	}

	item, err := ac.catalog.StoreItem(id)
	if err != nil {
		c.NotFound("item not found")
		return
	}

	// Stock is deliberately not updated here; restocking goes through
	// SetStock so it takes the same row lock as reservations.
	updates := map[string]any{
		"category_id": in.CategoryID,
		"name":        in.Name,
		"description": in.Description,
		"price":       price,
	}
	if err := ac.db.Model(item).Updates(updates).Error; err != nil {
		c.Error(http.StatusInternalServerError, "could not update item")
		return
	}
	ac.catalog.Invalidate()
	c.Success(item)
}

// UploadImage stores an item image on the configured disk (local or S3)
// and records its public URL.
func (ac *AdminController) UploadImage(c *ctx.Context) {
	id, ok := paramUint(c, "item")
	if !ok {
		return
	}
	item, err := ac.catalog.StoreItem(id)
	if err != nil {
		c.NotFound("item not found")
		return
	}

	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.Error(http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		c.Error(http.StatusBadRequest, "unsupported image type")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, 8<<20))
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not read upload")
		return
	}

	path := fmt.Sprintf("store/items/%s%s", uuid.NewString(), ext)
	if err := storage.Put(path, data); err != nil {
		logger.Error("admin: image upload failed", "item", id, "error", err)
		c.Error(http.StatusInternalServerError, "could not store image")
		return
	}

	url := storage.URL(path)
	if err := ac.db.Model(item).Update("image", url).Error; err != nil {
		c.Error(http.StatusInternalServerError, "could not save image url")
		return
	}
	ac.catalog.Invalidate()
	c.Success(map[string]any{"image": url})
}

// ------------------- Stock -------------------

type restockInput struct {
	Stock int `json:"stock"`
}

// Restock sets an item's absolute stock level under the same row lock the
// reservation path takes.
func (ac *AdminController) Restock(c *ctx.Context) {
	id, ok := paramUint(c, "item")
	if !ok {
		return
	}

	var in restockInput
	if !c.BindJSON(&in) {
		return
	}

	var item *models.StoreItem
	err := ac.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		item, txErr = ac.inventory.SetStock(tx, id, in.Stock)
		return txErr
	})
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			c.NotFound("item not found")
			return
		}
		c.Error(http.StatusInternalServerError, "could not restock")
		return
	}
	c.Success(map[string]any{"item_id": item.ID, "current_stock": item.Stock})
}

// ------------------- Orders -------------------

type orderStatusInput struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// SetOrderStatus advances an order's lifecycle. Moving into cancelled
// restores the reserved stock.
func (ac *AdminController) SetOrderStatus(c *ctx.Context) {
	id, ok := paramUint(c, "order")
	if !ok {
		return
	}

	var in orderStatusInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := ac.orders.Transition(id, in.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.NotFound("order not found")
		case errors.Is(err, services.ErrBadTransition):
			c.Error(http.StatusConflict, err.Error())
		default:
			c.Error(http.StatusInternalServerError, "could not update order")
		}
		return
	}

	if _, err := ac.notifications.Notify(order.UserID, models.NotifyOrder,
		"Order "+string(order.Status),
		fmt.Sprintf("Order %s is now %s.", order.Number, order.Status)); err != nil {
		logger.Warn("admin: order notification failed", "order", order.Number, "error", err)
	}
	c.Success(order)
}

// ListOrders shows every order for fulfilment, newest first.
func (ac *AdminController) ListOrders(c *ctx.Context) {
	var orders []models.Order
	err := ac.db.Preload("Items.Item").Preload("User").
		Order("created_at DESC").Limit(200).Find(&orders).Error
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load orders")
		return
	}
	c.Success(orders)
}

// ------------------- Bookings -------------------

type bookingStatusInput struct {
	Status models.BookingStatus `json:"status" validate:"required"`
}

func (ac *AdminController) SetBookingStatus(c *ctx.Context) {
	id, ok := paramUint(c, "booking")
	if !ok {
		return
	}

	var in bookingStatusInput
	if !c.BindJSON(&in) {
		return
	}

	booking, err := ac.bookings.SetStatus(id, in.Status)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			c.NotFound("booking not found")
			return
		}
		c.Error(http.StatusInternalServerError, "could not update booking")
		return
	}

	if _, err := ac.notifications.Notify(booking.UserID, models.NotifyBooking,
		"Booking "+string(booking.Status),
		fmt.Sprintf("Your booking for %s is now %s.", booking.ServiceName, booking.Status)); err != nil {
		logger.Warn("admin: booking notification failed", "booking", booking.ID, "error", err)
	}
	c.Success(booking)
}

func (ac *AdminController) ListBookings(c *ctx.Context) {
	var bookings []models.Booking
	err := ac.db.Order("created_at DESC").Limit(200).Find(&bookings).Error
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load bookings")
		return
	}
	c.Success(bookings)
}

// ------------------- Contact inbox -------------------

func (ac *AdminController) ContactInbox(c *ctx.Context) {
	inbox, err := ac.contacts.Inbox(200)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load inbox")
		return
	}
	c.Success(inbox)
}
