package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appstore "github.com/storepos/backend/internal/application/store"
	"github.com/storepos/backend/internal/interfaces/http/dto"
	"github.com/storepos/backend/internal/interfaces/http/middleware"
)

// StoreHandler handles store lifecycle endpoints
type StoreHandler struct {
	stores *appstore.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(stores *appstore.StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

// Create registers a store owned by the caller
func (h *StoreHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.ErrCodeUnauthorized, "authentication required"))
		return
	}
	var req appstore.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	store, err := h.stores.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, store)
}

// List returns the caller's stores
func (h *StoreHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.ErrCodeUnauthorized, "authentication required"))
		return
	}
	stores, err := h.stores.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stores)
}

// Get returns one of the caller's stores
func (h *StoreHandler) Get(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	store, err := h.stores.Get(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, store)
}

// Update renames or relocates a store
func (h *StoreHandler) Update(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	var req appstore.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	store, err := h.stores.Update(c.Request.Context(), storeID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, store)
}

// Delete removes a store record
func (h *StoreHandler) Delete(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	if err := h.stores.Delete(c.Request.Context(), storeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
