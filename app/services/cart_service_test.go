package services_test

import (
	"testing"

	"github.com/eventnest/eventnest/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemReservesStock(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(db, services.NewInventoryService())
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	mut, err := carts.AddItem(user.ID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, mut.Granted)
	assert.False(t, mut.Clamped)
	assert.Equal(t, 4, mut.LineQuantity)
	assert.Equal(t, 6, mut.CurrentStock)
	assert.Equal(t, 4, mut.CartCount)
	assert.Equal(t, 6, itemStock(t, db, item.ID))
}

func TestAddItemClampsAndAccumulates(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(db, services.NewInventoryService())
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 5)

	mut, err := carts.AddItem(user.ID, item.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 3, mut.Granted)

	// Only 2 left: the second add grows the same line by what stock allows.
	mut, err = carts.AddItem(user.ID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, mut.Requested)
	assert.Equal(t, 2, mut.Granted)
	assert.True(t, mut.Clamped)
	assert.Equal(t, 5, mut.LineQuantity)
	assert.Equal(t, 0, mut.CurrentStock)
	assert.Equal(t, 5, mut.CartCount)

	cart, err := carts.Get(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestUpdateItemShrinkReleasesStock(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(db, services.NewInventoryService())
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 5)

	_, err := carts.AddItem(user.ID, item.ID, 5)
	require.NoError(t, err)

	cart, err := carts.Get(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	mut, err := carts.UpdateItem(user.ID, cart.Items[0].ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, mut.LineQuantity)
	assert.False(t, mut.Clamped)
	assert.Equal(t, 3, itemStock(t, db, item.ID))
}

func TestUpdateItemGrowClamped(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(db, services.NewInventoryService())
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 5)

	_, err := carts.AddItem(user.ID, item.ID, 2)
	require.NoError(t, err)

	cart, err := carts.Get(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	// Target 10, but only 3 more units exist. The line ends at 5.
	mut, err := carts.UpdateItem(user.ID, cart.Items[0].ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, mut.Requested)
	assert.Equal(t, 5, mut.Granted)
	assert.True(t, mut.Clamped)
	assert.Equal(t, 5, mut.LineQuantity)
	assert.Equal(t, 0, itemStock(t, db, item.ID))
}

func TestRemoveItemRestoresStock(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(db, services.NewInventoryService())
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	_, err := carts.AddItem(user.ID, item.ID, 4)
	require.NoError(t, err)

	cart, err := carts.Get(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	mut, err := carts.RemoveItem(user.ID, cart.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, mut.CartCount)
	assert.Equal(t, 10, itemStock(t, db, item.ID))

	count, err := carts.Count(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCartLineOwnership(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(db, services.NewInventoryService())
	owner := seedUser(t, db, "asha", false)
	other := seedUser(t, db, "badru", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	_, err := carts.AddItem(owner.ID, item.ID, 2)
	require.NoError(t, err)

	cart, err := carts.Get(owner.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	lineID := cart.Items[0].ID

	_, err = carts.UpdateItem(other.ID, lineID, 5)
	assert.ErrorIs(t, err, services.ErrNotCartOwner)

	_, err = carts.RemoveItem(other.ID, lineID)
	assert.ErrorIs(t, err, services.ErrNotCartOwner)

	// Missing lines look the same as someone else's.
	_, err = carts.UpdateItem(owner.ID, 999, 5)
	assert.ErrorIs(t, err, services.ErrNotCartOwner)

	// The failed attempts took nothing.
	assert.Equal(t, 8, itemStock(t, db, item.ID))
}

func TestCountSumsAcrossLines(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(db, services.NewInventoryService())
	user := seedUser(t, db, "asha", false)
	first := seedItem(t, db, "lantern", "25.00", 10)
	second := seedItem(t, db, "bunting", "4.00", 10)

	_, err := carts.AddItem(user.ID, first.ID, 3)
	require.NoError(t, err)
	_, err = carts.AddItem(user.ID, second.ID, 2)
	require.NoError(t, err)

	count, err := carts.Count(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
