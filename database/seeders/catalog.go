package seeders

import (
	"github.com/eventnest/eventnest/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("store_catalog", SeedStoreCatalog)
	Register("services", SeedServices)
}

// SeedAdminUser creates the initial staff account if none exists.
// Password hash is for "changeme" — rotate it immediately.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("staff = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	admin := models.User{
		Username: "admin",
		Email:    "admin@eventnest.app",
		Password: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Staff:    true,
	}
	return db.Create(&admin).Error
}

// SeedStoreCatalog loads a starter set of store categories and items.
func SeedStoreCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.StoreCategory{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	decorations := models.StoreCategory{Name: "Decorations", Description: "Balloons, banners and table pieces"}
	tableware := models.StoreCategory{Name: "Tableware", Description: "Plates, cups and cutlery"}
	favors := models.StoreCategory{Name: "Party Favors", Description: "Giveaways and goodie bags"}
	for _, cat := range []*models.StoreCategory{&decorations, &tableware, &favors} {
		if err := db.Create(cat).Error; err != nil {
			return err
		}
	}

	items := []models.StoreItem{
		{CategoryID: decorations.ID, Name: "Balloon Arch Kit", Description: "120-piece arch kit with pump", Price: decimal.NewFromFloat(34.99), Stock: 40},
		{CategoryID: decorations.ID, Name: "LED Fairy Lights 10m", Description: "Warm white, battery powered", Price: decimal.NewFromFloat(12.50), Stock: 75},
		{CategoryID: decorations.ID, Name: "Happy Birthday Banner", Description: "Gold foil lettering", Price: decimal.NewFromFloat(6.99), Stock: 120},
		{CategoryID: tableware.ID, Name: "Paper Plate Set (50)", Description: "Heavy-duty, assorted colors", Price: decimal.NewFromFloat(9.99), Stock: 200},
		{CategoryID: tableware.ID, Name: "Champagne Flutes (12)", Description: "Disposable plastic flutes", Price: decimal.NewFromFloat(8.25), Stock: 90},
		{CategoryID: favors.ID, Name: "Goodie Bag Bundle (20)", Description: "Pre-filled kids goodie bags", Price: decimal.NewFromFloat(24.00), Stock: 35},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedServices loads sample offerings into each concrete service table.
func SeedServices(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.EventManagement{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	events := []models.EventManagement{
		{Title: "Classic Wedding Package", Description: "Full-day coordination for up to 150 guests", Price: decimal.NewFromFloat(2400), EventType: "wedding", Capacity: 150, DurationHours: 10, IncludesDecoration: true, IncludesCatering: true},
		{Title: "Corporate Offsite", Description: "Venue, AV and catering coordination", Price: decimal.NewFromFloat(1800), EventType: "corporate", Capacity: 80, DurationHours: 8, IncludesCatering: true},
	}
	for i := range events {
		if err := db.Create(&events[i]).Error; err != nil {
			return err
		}
	}

	photos := []models.Photography{
		{Title: "Wedding Photography", Description: "Two photographers, full day", Price: decimal.NewFromFloat(950), ShootType: "wedding", DurationHours: 8, IncludesEditing: true, NumberOfPhotos: 400},
		{Title: "Portrait Session", Description: "One hour studio or outdoor", Price: decimal.NewFromFloat(150), ShootType: "portrait", DurationHours: 1, IncludesEditing: true, NumberOfPhotos: 25},
	}
	for i := range photos {
		if err := db.Create(&photos[i]).Error; err != nil {
			return err
		}
	}

	caterings := []models.Catering{
		{Title: "Buffet Classic", Description: "Three mains, four sides, dessert", Price: decimal.NewFromFloat(28.50), CuisineType: "international", MinOrderQuantity: 30, IncludesServingStaff: true, IncludesSetup: true},
	}
	for i := range caterings {
		if err := db.Create(&caterings[i]).Error; err != nil {
			return err
		}
	}

	printings := []models.PrintingService{
		{Title: "Wedding Invitations", Description: "Foil-pressed, envelopes included", Price: decimal.NewFromFloat(3.20), PrintType: "invitation", PaperType: "cotton 300gsm", MinOrderQuantity: 50, IncludesDesign: true, DeliveryDays: 7},
	}
	for i := range printings {
		if err := db.Create(&printings[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
