package services_test

import (
	"testing"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutTurnsCartIntoOrder(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	carts := services.NewCartService(db, inv)
	orders := services.NewOrderService(db, inv)
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	_, err := carts.AddItem(user.ID, item.ID, 4)
	require.NoError(t, err)
	require.Equal(t, 6, itemStock(t, db, item.ID))

	order, err := orders.Checkout(user.ID, "12 Garden Lane")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Len(t, order.Number, 36)
	assert.Equal(t, "12 Garden Lane", order.ShippingAddress)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("100.00")),
		"total %s", order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 4, order.Items[0].Quantity)
	assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("25.00")))

	// The cart's hold became the order's: stock is unchanged by checkout.
	assert.Equal(t, 6, itemStock(t, db, item.ID))

	count, err := carts.Count(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCheckoutSnapshotsPrice(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	carts := services.NewCartService(db, inv)
	orders := services.NewOrderService(db, inv)
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	_, err := carts.AddItem(user.ID, item.ID, 2)
	require.NoError(t, err)
	order, err := orders.Checkout(user.ID, "")
	require.NoError(t, err)

	// A later price change must not touch the placed order.
	require.NoError(t, db.Model(&models.StoreItem{}).
		Where("id = ?", item.ID).
		Update("price", decimal.RequireFromString("99.00")).Error)

	reloaded, err := orders.Find(user.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.Items[0].Price.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, reloaded.TotalAmount.Equal(decimal.RequireFromString("50.00")))
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	orders := services.NewOrderService(db, inv)
	user := seedUser(t, db, "asha", false)

	// No cart at all.
	_, err := orders.Checkout(user.ID, "")
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	// A cart with no lines is just as empty.
	require.NoError(t, db.Create(&models.Cart{UserID: user.ID}).Error)
	_, err = orders.Checkout(user.ID, "")
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestCancelRestoresStockExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	carts := services.NewCartService(db, inv)
	orders := services.NewOrderService(db, inv)
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	_, err := carts.AddItem(user.ID, item.ID, 4)
	require.NoError(t, err)
	order, err := orders.Checkout(user.ID, "")
	require.NoError(t, err)
	require.Equal(t, 6, itemStock(t, db, item.ID))

	cancelled, err := orders.Cancel(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.Equal(t, 10, itemStock(t, db, item.ID))

	// Cancelling again is a no-op, not an error; stock moves once.
	again, err := orders.Cancel(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, again.Status)
	assert.Equal(t, 10, itemStock(t, db, item.ID))
}

func TestCancelShippedOrderFails(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	carts := services.NewCartService(db, inv)
	orders := services.NewOrderService(db, inv)
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	_, err := carts.AddItem(user.ID, item.ID, 2)
	require.NoError(t, err)
	order, err := orders.Checkout(user.ID, "")
	require.NoError(t, err)

	_, err = orders.Transition(order.ID, models.OrderProcessing)
	require.NoError(t, err)
	_, err = orders.Transition(order.ID, models.OrderShipped)
	require.NoError(t, err)

	_, err = orders.Cancel(user.ID, order.ID)
	assert.ErrorIs(t, err, services.ErrOrderNotCancellable)
	assert.Equal(t, 8, itemStock(t, db, item.ID))
}

func TestTransitionLifecycle(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	carts := services.NewCartService(db, inv)
	orders := services.NewOrderService(db, inv)
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	_, err := carts.AddItem(user.ID, item.ID, 1)
	require.NoError(t, err)
	order, err := orders.Checkout(user.ID, "")
	require.NoError(t, err)

	for _, next := range []models.OrderStatus{
		models.OrderProcessing, models.OrderShipped, models.OrderDelivered,
	} {
		updated, err := orders.Transition(order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// Delivered is terminal.
	_, err = orders.Transition(order.ID, models.OrderProcessing)
	assert.ErrorIs(t, err, services.ErrBadTransition)
	_, err = orders.Transition(order.ID, models.OrderCancelled)
	assert.ErrorIs(t, err, services.ErrBadTransition)
}

func TestTransitionToCancelledRestoresStock(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	carts := services.NewCartService(db, inv)
	orders := services.NewOrderService(db, inv)
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	_, err := carts.AddItem(user.ID, item.ID, 3)
	require.NoError(t, err)
	order, err := orders.Checkout(user.ID, "")
	require.NoError(t, err)
	require.Equal(t, 7, itemStock(t, db, item.ID))

	updated, err := orders.Transition(order.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, updated.Status)
	assert.Equal(t, 10, itemStock(t, db, item.ID))
}

func TestCheckoutAbortsOnStockShortfall(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	carts := services.NewCartService(db, inv)
	orders := services.NewOrderService(db, inv)
	user := seedUser(t, db, "asha", false)
	lantern := seedItem(t, db, "lantern", "25.00", 10)
	garland := seedItem(t, db, "garland", "10.00", 8)

	_, err := carts.AddItem(user.ID, lantern.ID, 4)
	require.NoError(t, err)
	_, err = carts.AddItem(user.ID, garland.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 6, itemStock(t, db, lantern.ID))
	require.Equal(t, 6, itemStock(t, db, garland.ID))

	// An oversell recorded straight against the row leaves it negative.
	// Releasing the 4-unit hold brings it to 1, so the exact re-reserve of
	// 4 comes up short.
	require.NoError(t, db.Model(&models.StoreItem{}).
		Where("id = ?", lantern.ID).
		Update("stock", -3).Error)

	_, err = orders.Checkout(user.ID, "")
	var shortfall *services.StockShortfallError
	require.ErrorAs(t, err, &shortfall)
	require.Len(t, shortfall.Lines, 1)
	assert.Equal(t, lantern.ID, shortfall.Lines[0].ItemID)
	assert.Equal(t, 4, shortfall.Lines[0].Requested)
	assert.Equal(t, 1, shortfall.Lines[0].Available)

	// All-or-nothing: the rollback leaves everything as it was.
	var orderCount, lineCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&lineCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, lineCount)
	assert.Equal(t, -3, itemStock(t, db, lantern.ID))
	assert.Equal(t, 6, itemStock(t, db, garland.ID))

	count, err := carts.Count(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

// The confirmation mail job reaches the buyer through the order row.
func TestOrderPreloadsBuyer(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	carts := services.NewCartService(db, inv)
	orders := services.NewOrderService(db, inv)
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	_, err := carts.AddItem(user.ID, item.ID, 1)
	require.NoError(t, err)
	order, err := orders.Checkout(user.ID, "")
	require.NoError(t, err)

	var got models.Order
	require.NoError(t, db.Preload("User").Preload("Items.Item").First(&got, order.ID).Error)
	assert.Equal(t, "asha", got.User.Username)
	assert.Equal(t, "asha@example.com", got.User.Email)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "lantern", got.Items[0].Item.Name)
}

func TestFindScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	carts := services.NewCartService(db, inv)
	orders := services.NewOrderService(db, inv)
	owner := seedUser(t, db, "asha", false)
	other := seedUser(t, db, "badru", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	_, err := carts.AddItem(owner.ID, item.ID, 1)
	require.NoError(t, err)
	order, err := orders.Checkout(owner.ID, "")
	require.NoError(t, err)

	_, err = orders.Find(other.ID, order.ID)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)

	_, err = orders.Cancel(other.ID, order.ID)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)

	found, err := orders.Find(owner.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Number, found.Number)
}
