package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradedesk-system/internal/apperr"
	"tradedesk-system/internal/auth"
	"tradedesk-system/internal/httpserver/middleware"
	"tradedesk-system/internal/services/catalog"
)

type CatalogHTTPHandler struct {
	catalog *catalog.Service
}

func NewCatalogHTTPHandler(catalogSvc *catalog.Service) *CatalogHTTPHandler {
	return &CatalogHTTPHandler{catalog: catalogSvc}
}

func (h *CatalogHTTPHandler) requireCatalogAccess(c *gin.Context) bool {
	user := middleware.Identity(c)
	if user == nil || !auth.HasCapability(user.Role, auth.CapManageCatalog) {
		respondError(c, apperr.Forbidden("catalog management is not permitted for this role"))
		return false
	}
	return true
}

// --- Products ---

func (h *CatalogHTTPHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTPHandler) CreateProduct(c *gin.Context) {
	if !h.requireCatalogAccess(c) {
		return
	}

	var req catalog.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), req, middleware.Identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHTTPHandler) UpdateProduct(c *gin.Context) {
	if !h.requireCatalogAccess(c) {
		return
	}

	id, err := idQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req catalog.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, req, middleware.Identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTPHandler) DeleteProduct(c *gin.Context) {
	if !h.requireCatalogAccess(c) {
		return
	}

	id, err := idQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (h *CatalogHTTPHandler) ProductPriceHistory(c *gin.Context) {
	id, err := idQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	history, err := h.catalog.PriceHistory(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// --- Categories ---

func (h *CatalogHTTPHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHTTPHandler) CreateCategory(c *gin.Context) {
	if !h.requireCatalogAccess(c) {
		return
	}

	var req catalog.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	category, err := h.catalog.CreateCategory(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// --- Customers ---

func (h *CatalogHTTPHandler) ListCustomers(c *gin.Context) {
	customers, err := h.catalog.ListCustomers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CatalogHTTPHandler) CreateCustomer(c *gin.Context) {
	var req catalog.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	customer, err := h.catalog.CreateCustomer(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CatalogHTTPHandler) UpdateCustomer(c *gin.Context) {
	id, err := idQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req catalog.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	customer, err := h.catalog.UpdateCustomer(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CatalogHTTPHandler) DeleteCustomer(c *gin.Context) {
	id, err := idQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.catalog.DeleteCustomer(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
}

// --- Suppliers ---

func (h *CatalogHTTPHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.catalog.ListSuppliers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (h *CatalogHTTPHandler) CreateSupplier(c *gin.Context) {
	if !h.requireCatalogAccess(c) {
		return
	}

	var req catalog.SupplierInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	supplier, err := h.catalog.CreateSupplier(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *CatalogHTTPHandler) UpdateSupplier(c *gin.Context) {
	if !h.requireCatalogAccess(c) {
		return
	}

	id, err := idQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req catalog.SupplierInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	supplier, err := h.catalog.UpdateSupplier(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *CatalogHTTPHandler) DeleteSupplier(c *gin.Context) {
	if !h.requireCatalogAccess(c) {
		return
	}

	id, err := idQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.catalog.DeleteSupplier(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "supplier deleted"})
}

// --- Services ---

func (h *CatalogHTTPHandler) ListServices(c *gin.Context) {
	services, err := h.catalog.ListServices()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *CatalogHTTPHandler) CreateService(c *gin.Context) {
	if !h.requireCatalogAccess(c) {
		return
	}

	var req catalog.ServiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	service, err := h.catalog.CreateService(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

func (h *CatalogHTTPHandler) UpdateService(c *gin.Context) {
	if !h.requireCatalogAccess(c) {
		return
	}

	id, err := idQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req catalog.ServiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	service, err := h.catalog.UpdateService(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *CatalogHTTPHandler) DeleteService(c *gin.Context) {
	if !h.requireCatalogAccess(c) {
		return
	}

	id, err := idQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.catalog.DeleteService(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service deleted"})
}
