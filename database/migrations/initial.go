package migrations

import (
	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260301000000_create_accounts_tables", &CreateAccountsTables{})
	migration.Register("20260301000001_create_catalog_tables", &CreateCatalogTables{})
	migration.Register("20260301000002_create_store_tables", &CreateStoreTables{})
	migration.Register("20260301000003_create_cart_tables", &CreateCartTables{})
	migration.Register("20260301000004_create_order_tables", &CreateOrderTables{})
	migration.Register("20260301000005_create_booking_tables", &CreateBookingTables{})
	migration.Register("20260301000006_create_wishlist_tables", &CreateWishlistTables{})
	migration.Register("20260301000007_create_chat_tables", &CreateChatTables{})
	migration.Register("20260301000008_create_notification_tables", &CreateNotificationTables{})
}

// -------- accounts --------

type CreateAccountsTables struct{}

func (m *CreateAccountsTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.UserProfile{})
}

func (m *CreateAccountsTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("user_profiles", "users")
}

// -------- services catalogue --------

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ServiceCategory{},
		&models.Service{},
		&models.EventManagement{},
		&models.Photography{},
		&models.Catering{},
		&models.PrintingService{},
	)
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		"printing_services", "caterings", "photographies",
		"event_managements", "services", "service_categories")
}

// -------- store --------

type CreateStoreTables struct{}

func (m *CreateStoreTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.StoreCategory{}, &models.StoreItem{})
}

func (m *CreateStoreTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("store_items", "store_categories")
}

// -------- cart --------

type CreateCartTables struct{}

func (m *CreateCartTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Cart{}, &models.CartItem{})
}

func (m *CreateCartTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("cart_items", "carts")
}

// -------- orders --------

type CreateOrderTables struct{}

func (m *CreateOrderTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrderTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders")
}

// -------- bookings --------

type CreateBookingTables struct{}

func (m *CreateBookingTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Booking{})
}

func (m *CreateBookingTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("bookings")
}

// -------- wishlist --------

type CreateWishlistTables struct{}

func (m *CreateWishlistTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Wishlist{})
}

func (m *CreateWishlistTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("wishlist_items", "wishlists")
}

// -------- chat --------

type CreateChatTables struct{}

func (m *CreateChatTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Chat{}, &models.ChatSession{}, &models.Message{})
}

func (m *CreateChatTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("messages", "chat_sessions", "chats")
}

// -------- notifications / contact --------

type CreateNotificationTables struct{}

func (m *CreateNotificationTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Notification{}, &models.Contact{})
}

func (m *CreateNotificationTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("contacts", "notifications")
}
