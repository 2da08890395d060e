package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/repositories"
)

// CatalogHandler serves the reference collections
type CatalogHandler struct {
	catalog repositories.CatalogRepository
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog repositories.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// HandleProducts returns the product catalog
func (h *CatalogHandler) HandleProducts(c *gin.Context) {
	products, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// HandleEmployees returns the staff list
func (h *CatalogHandler) HandleEmployees(c *gin.Context) {
	employees, err := h.catalog.Employees(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// HandleProductionItems returns the production item catalog
func (h *CatalogHandler) HandleProductionItems(c *gin.Context) {
	items, err := h.catalog.ProductionItems(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// RegisterRoutes registers the handler's routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.HandleProducts)
	rg.GET("/employees", h.HandleEmployees)
	rg.GET("/production-items", h.HandleProductionItems)
}
