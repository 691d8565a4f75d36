package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/pkg/cache"
	"github.com/eventnest/eventnest/pkg/collection"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrServiceNotFound = errors.New("catalog: service not found")

const (
	catalogTTL = 10 * time.Minute

	storeCategoriesKey   = "eventnest:catalog:store_categories"
	serviceCategoriesKey = "eventnest:catalog:service_categories"
)

// ServiceSummary is the type-independent view of one bookable service,
// whichever concrete table it lives in.
type ServiceSummary struct {
	Type        models.ServiceType `json:"type"`
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Image       string             `json:"image"`
}

// CatalogRepository reads the storefront and services catalogue. Category
// lists are cache-through: they change only on admin writes, which call
// Invalidate.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// StoreCategories lists all store categories, cached.
func (r *CatalogRepository) StoreCategories() ([]models.StoreCategory, error) {
	var cats []models.StoreCategory
	if cache.Get(storeCategoriesKey, &cats) {
		return cats, nil
	}
	if err := r.db.Order("name ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("catalog: store categories: %w", err)
	}
	cache.Set(storeCategoriesKey, cats, catalogTTL)
	return cats, nil
}

// StoreItems lists items, optionally filtered by category and a name
// search. Filtered reads skip the cache.
func (r *CatalogRepository) StoreItems(categoryID uint, search string) ([]models.StoreItem, error) {
	q := r.db.Model(&models.StoreItem{})
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	var items []models.StoreItem
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("catalog: store items: %w", err)
	}
	return items, nil
}

// StoreItem loads a single item by ID.
func (r *CatalogRepository) StoreItem(id uint) (*models.StoreItem, error) {
	var item models.StoreItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: store item %d: %w", id, err)
	}
	return &item, nil
}

// ServiceCategories lists service categories with their services, cached.
func (r *CatalogRepository) ServiceCategories() ([]models.ServiceCategory, error) {
	var cats []models.ServiceCategory
	if cache.Get(serviceCategoriesKey, &cats) {
		return cats, nil
	}
	if err := r.db.Preload("Services").Order("name ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("catalog: service categories: %w", err)
	}
	cache.Set(serviceCategoriesKey, cats, catalogTTL)
	return cats, nil
}

// ServicesOfType lists every offering in one concrete service table.
func (r *CatalogRepository) ServicesOfType(t models.ServiceType) ([]ServiceSummary, error) {
	switch t {
	case models.ServiceTypeEvent:
		var rows []models.EventManagement
		if err := r.db.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("catalog: list %s: %w", t, err)
		}
		return collection.Map(rows, func(row models.EventManagement) ServiceSummary {
			return ServiceSummary{Type: t, ID: row.ID, Title: row.Title, Description: row.Description, Price: row.Price, Image: row.Image}
		}), nil
	case models.ServiceTypePhoto:
		var rows []models.Photography
		if err := r.db.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("catalog: list %s: %w", t, err)
		}
		return collection.Map(rows, func(row models.Photography) ServiceSummary {
			return ServiceSummary{Type: t, ID: row.ID, Title: row.Title, Description: row.Description, Price: row.Price, Image: row.Image}
		}), nil
	case models.ServiceTypeCatering:
		var rows []models.Catering
		if err := r.db.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("catalog: list %s: %w", t, err)
		}
		return collection.Map(rows, func(row models.Catering) ServiceSummary {
			return ServiceSummary{Type: t, ID: row.ID, Title: row.Title, Description: row.Description, Price: row.Price, Image: row.Image}
		}), nil
	case models.ServiceTypePrinting:
		var rows []models.PrintingService
		if err := r.db.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("catalog: list %s: %w", t, err)
		}
		return collection.Map(rows, func(row models.PrintingService) ServiceSummary {
			return ServiceSummary{Type: t, ID: row.ID, Title: row.Title, Description: row.Description, Price: row.Price, Image: row.Image}
		}), nil
	}
	return nil, fmt.Errorf("catalog: unknown service type %q", t)
}

// FindService resolves one offering across the four concrete tables.
func (r *CatalogRepository) FindService(t models.ServiceType, id uint) (*ServiceSummary, error) {
	if !t.Valid() {
		return nil, ErrServiceNotFound
	}

	var (
		sum ServiceSummary
		err error
	)
	switch t {
	case models.ServiceTypeEvent:
		var row models.EventManagement
		if err = r.db.First(&row, id).Error; err == nil {
			sum = ServiceSummary{Type: t, ID: row.ID, Title: row.Title, Description: row.Description, Price: row.Price, Image: row.Image}
		}
	case models.ServiceTypePhoto:
		var row models.Photography
		if err = r.db.First(&row, id).Error; err == nil {
			sum = ServiceSummary{Type: t, ID: row.ID, Title: row.Title, Description: row.Description, Price: row.Price, Image: row.Image}
		}
	case models.ServiceTypeCatering:
		var row models.Catering
		if err = r.db.First(&row, id).Error; err == nil {
			sum = ServiceSummary{Type: t, ID: row.ID, Title: row.Title, Description: row.Description, Price: row.Price, Image: row.Image}
		}
	case models.ServiceTypePrinting:
		var row models.PrintingService
		if err = r.db.First(&row, id).Error; err == nil {
			sum = ServiceSummary{Type: t, ID: row.ID, Title: row.Title, Description: row.Description, Price: row.Price, Image: row.Image}
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: find %s/%d: %w", t, id, err)
	}
	return &sum, nil
}

// Invalidate drops the cached category lists after an admin write.
func (r *CatalogRepository) Invalidate() {
	cache.Del(storeCategoriesKey)
	cache.Del(serviceCategoriesKey)
}
