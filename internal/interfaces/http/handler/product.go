package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appcatalog "github.com/storepos/backend/internal/application/catalog"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	products *appcatalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *appcatalog.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create adds a product to the store's catalog
func (h *ProductHandler) Create(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	var req appcatalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := h.products.Create(c.Request.Context(), storeID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, product)
}

// List returns the store's full catalog
func (h *ProductHandler) List(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	if barcode := c.Query("barcode"); barcode != "" {
		product, err := h.products.GetByBarcode(c.Request.Context(), storeID, barcode)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, product)
		return
	}
	products, err := h.products.List(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, products)
}

// Get returns one product
func (h *ProductHandler) Get(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	product, err := h.products.Get(c.Request.Context(), storeID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

// Update edits a product
func (h *ProductHandler) Update(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req appcatalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := h.products.Update(c.Request.Context(), storeID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

// AdjustStock applies a signed stock delta to a product
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req appcatalog.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := h.products.AdjustStock(c.Request.Context(), storeID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

// Delete removes a product; deleting an absent product succeeds
func (h *ProductHandler) Delete(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if _, err := h.products.Delete(c.Request.Context(), storeID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
