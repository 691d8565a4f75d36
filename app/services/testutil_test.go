package services_test

import (
	"testing"

	"github.com/eventnest/eventnest/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema. Every
// test gets its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	// A :memory: database exists per connection; keep the pool at one so
	// every session sees the same schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.ServiceCategory{},
		&models.Service{},
		&models.EventManagement{},
		&models.Photography{},
		&models.Catering{},
		&models.PrintingService{},
		&models.StoreCategory{},
		&models.StoreItem{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Booking{},
		&models.Wishlist{},
		&models.Chat{},
		&models.ChatSession{},
		&models.Message{},
		&models.Notification{},
		&models.Contact{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, staff bool) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Staff:    staff,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedItem(t *testing.T, db *gorm.DB, name, price string, stock int) *models.StoreItem {
	t.Helper()
	cat := &models.StoreCategory{Name: name + " category"}
	require.NoError(t, db.Create(cat).Error)

	item := &models.StoreItem{
		CategoryID: cat.ID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// itemStock re-reads the committed stock level.
func itemStock(t *testing.T, db *gorm.DB, itemID uint) int {
	t.Helper()
	var item models.StoreItem
	require.NoError(t, db.First(&item, itemID).Error)
	return item.Stock
}
