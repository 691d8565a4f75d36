package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/repositories"
	"github.com/eventnest/eventnest/pkg/ctx"
)

// CatalogController serves the public storefront and services catalogue.
type CatalogController struct {
	catalog *repositories.CatalogRepository
}

func NewCatalogController(catalog *repositories.CatalogRepository) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func (cc *CatalogController) StoreCategories(c *ctx.Context) {
	cats, err := cc.catalog.StoreCategories()
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load categories")
		return
	}
	c.Success(cats)
}

func (cc *CatalogController) StoreItems(c *ctx.Context) {
	var categoryID uint
	if raw := c.Query("category"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.Error(http.StatusBadRequest, "invalid category id")
			return
		}
		categoryID = uint(n)
	}

	items, err := cc.catalog.StoreItems(categoryID, c.Query("q"))
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load items")
		return
	}
	c.Success(items)
}

func (cc *CatalogController) StoreItem(c *ctx.Context) {
	id, ok := paramUint(c, "item")
	if !ok {
		return
	}
	item, err := cc.catalog.StoreItem(id)
	if err != nil {
		if errors.Is(err, repositories.ErrServiceNotFound) {
			c.NotFound("item not found")
			return
		}
		c.Error(http.StatusInternalServerError, "could not load item")
		return
	}
	c.Success(item)
}

func (cc *CatalogController) ServiceCategories(c *ctx.Context) {
	cats, err := cc.catalog.ServiceCategories()
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load services")
		return
	}
	c.Success(cats)
}

func (cc *CatalogController) ServicesOfType(c *ctx.Context) {
	t := models.ServiceType(c.Param("type"))
	if !t.Valid() {
		c.NotFound("unknown service type")
		return
	}
	list, err := cc.catalog.ServicesOfType(t)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load services")
		return
	}
	c.Success(list)
}

func (cc *CatalogController) Service(c *ctx.Context) {
	t := models.ServiceType(c.Param("type"))
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	svc, err := cc.catalog.FindService(t, id)
	if err != nil {
		if errors.Is(err, repositories.ErrServiceNotFound) {
			c.NotFound("service not found")
			return
		}
		c.Error(http.StatusInternalServerError, "could not load service")
		return
	}
	c.Success(svc)
}
