package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appsales "github.com/storepos/backend/internal/application/sales"
)

// CouponHandler handles coupon endpoints
type CouponHandler struct {
	coupons *appsales.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(coupons *appsales.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// Create issues a coupon
func (h *CouponHandler) Create(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	var req appsales.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	coupon, err := h.coupons.Create(c.Request.Context(), storeID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, coupon)
}

// List returns the store's coupons
func (h *CouponHandler) List(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	coupons, err := h.coupons.List(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, coupons)
}

// Get returns one coupon by code
func (h *CouponHandler) Get(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	coupon, err := h.coupons.Get(c.Request.Context(), storeID, c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, coupon)
}

// ExpireCouponRequest is the payload for ending a coupon's validity.
// When Until is zero the coupon expires immediately.
type ExpireCouponRequest struct {
	Until int64 `json:"until"`
}

// Expire ends a coupon's validity
func (h *CouponHandler) Expire(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	var req ExpireCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	until := time.Now().UTC()
	if req.Until > 0 {
		until = time.Unix(req.Until, 0).UTC()
	}
	coupon, err := h.coupons.Expire(c.Request.Context(), storeID, c.Param("code"), until)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, coupon)
}

// Delete removes a coupon
func (h *CouponHandler) Delete(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if _, err := h.coupons.Delete(c.Request.Context(), storeID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
