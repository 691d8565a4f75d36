package services_test

import (
	"testing"

	"github.com/eventnest/eventnest/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveGrantsRequested(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	item := seedItem(t, db, "fairy lights", "9.99", 5)

	granted, err := inv.Reserve(db, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, granted)
	assert.Equal(t, 2, itemStock(t, db, item.ID))
}

func TestReserveClampsToAvailable(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	item := seedItem(t, db, "lanterns", "12.50", 5)

	granted, err := inv.Reserve(db, item.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 5, granted)
	assert.Equal(t, 0, itemStock(t, db, item.ID))

	// Nothing left: a further request grants zero, not an error.
	granted, err = inv.Reserve(db, item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, granted)
}

func TestReserveNonPositiveRequest(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	item := seedItem(t, db, "bunting", "4.00", 7)

	for _, requested := range []int{0, -3} {
		granted, err := inv.Reserve(db, item.ID, requested)
		require.NoError(t, err)
		assert.Equal(t, 0, granted)
	}
	assert.Equal(t, 7, itemStock(t, db, item.ID))
}

func TestReserveMissingItem(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()

	_, err := inv.Reserve(db, 999, 1)
	assert.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestReserveExact(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	item := seedItem(t, db, "candles", "3.25", 4)

	require.NoError(t, inv.ReserveExact(db, item.ID, 4))
	assert.Equal(t, 0, itemStock(t, db, item.ID))
}

func TestReserveExactShortfall(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	item := seedItem(t, db, "table runners", "15.00", 3)

	err := inv.ReserveExact(db, item.ID, 5)

	var shortfall *services.StockShortfallError
	require.ErrorAs(t, err, &shortfall)
	require.Len(t, shortfall.Lines, 1)
	assert.Equal(t, item.ID, shortfall.Lines[0].ItemID)
	assert.Equal(t, "table runners", shortfall.Lines[0].Name)
	assert.Equal(t, 5, shortfall.Lines[0].Requested)
	assert.Equal(t, 3, shortfall.Lines[0].Available)

	// A failed exact reservation takes nothing.
	assert.Equal(t, 3, itemStock(t, db, item.ID))
}

func TestReleaseReturnsStock(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	item := seedItem(t, db, "vases", "22.00", 10)

	granted, err := inv.Reserve(db, item.ID, 6)
	require.NoError(t, err)
	require.Equal(t, 6, granted)

	require.NoError(t, inv.Release(db, item.ID, 6))
	assert.Equal(t, 10, itemStock(t, db, item.ID))
}

func TestSetStockFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	inv := services.NewInventoryService()
	item := seedItem(t, db, "ribbon", "1.10", 8)

	updated, err := inv.SetStock(db, item.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
	assert.Equal(t, 0, itemStock(t, db, item.ID))

	updated, err = inv.SetStock(db, item.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Stock)
}
