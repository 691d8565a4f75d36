package services_test

import (
	"testing"

	"github.com/eventnest/eventnest/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistToggle(t *testing.T) {
	db := newTestDB(t)
	wishlists := services.NewWishlistService(db)
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	saved, err := wishlists.Toggle(user.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	list, err := wishlists.Get(user.ID)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, item.ID, list.Items[0].ID)

	// Wishlisting never reserves anything.
	assert.Equal(t, 10, itemStock(t, db, item.ID))

	saved, err = wishlists.Toggle(user.ID, item.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	list, err = wishlists.Get(user.ID)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestWishlistToggleUnknownItem(t *testing.T) {
	db := newTestDB(t)
	wishlists := services.NewWishlistService(db)
	user := seedUser(t, db, "asha", false)

	_, err := wishlists.Toggle(user.ID, 999)
	assert.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestWishlistRemoveIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	wishlists := services.NewWishlistService(db)
	user := seedUser(t, db, "asha", false)
	item := seedItem(t, db, "lantern", "25.00", 10)

	_, err := wishlists.Toggle(user.ID, item.ID)
	require.NoError(t, err)

	require.NoError(t, wishlists.Remove(user.ID, item.ID))
	require.NoError(t, wishlists.Remove(user.ID, item.ID))

	list, err := wishlists.Get(user.ID)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}
