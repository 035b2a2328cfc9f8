package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppartner "github.com/storepos/backend/internal/application/partner"
	"github.com/storepos/backend/internal/interfaces/http/dto"
)

// SupplierHandler handles supplier endpoints
type SupplierHandler struct {
	suppliers *apppartner.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(suppliers *apppartner.SupplierService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

// Create registers a supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	var req apppartner.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	supplier, err := h.suppliers.Create(c.Request.Context(), storeID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, supplier)
}

// List returns the store's suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	suppliers, err := h.suppliers.List(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, suppliers)
}

// Get returns one supplier
func (h *SupplierHandler) Get(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	supplier, err := h.suppliers.Get(c.Request.Context(), storeID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, supplier)
}

// Update edits a supplier
func (h *SupplierHandler) Update(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req apppartner.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	supplier, err := h.suppliers.Update(c.Request.Context(), storeID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, supplier)
}

// Delete removes a supplier
func (h *SupplierHandler) Delete(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if _, err := h.suppliers.Delete(c.Request.Context(), storeID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LinkProduct records that the supplier supplies a product
func (h *SupplierHandler) LinkProduct(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	supplierID, ok := pathUUID(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "invalid product id, expected a UUID"))
		return
	}
	if err := h.suppliers.LinkProduct(c.Request.Context(), storeID, supplierID, productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ProductSuppliers lists the suppliers of one product
func (h *SupplierHandler) ProductSuppliers(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c)
	if !ok {
		return
	}
	suppliers, err := h.suppliers.ProductSuppliers(c.Request.Context(), storeID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, suppliers)
}

// UnlinkProduct removes a supply link
func (h *SupplierHandler) UnlinkProduct(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	supplierID, ok := pathUUID(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "invalid product id, expected a UUID"))
		return
	}
	if _, err := h.suppliers.UnlinkProduct(c.Request.Context(), storeID, supplierID, productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
