package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appsales "github.com/storepos/backend/internal/application/sales"
	"github.com/storepos/backend/internal/domain/sales"
	"github.com/storepos/backend/internal/domain/shared"
)

// SaleHandler handles checkout and sale query endpoints
type SaleHandler struct {
	sales *appsales.SalesService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(salesService *appsales.SalesService) *SaleHandler {
	return &SaleHandler{sales: salesService}
}

// Record records a checkout
func (h *SaleHandler) Record(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	var req appsales.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	sale, err := h.sales.RecordSale(c.Request.Context(), storeID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, sale)
}

// Get returns one sale with its line items
func (h *SaleHandler) Get(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	sale, err := h.sales.Get(c.Request.Context(), storeID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sale)
}

// List returns the sales matching the query parameters
func (h *SaleHandler) List(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	filter, err := saleFilterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.sales.List(c.Request.Context(), storeID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

func saleFilterFromQuery(c *gin.Context) (sales.Filter, error) {
	var filter sales.Filter
	if raw := c.Query("from"); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_RANGE", "from must be an epoch second")
		}
		from := time.Unix(seconds, 0).UTC()
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_RANGE", "to must be an epoch second")
		}
		to := time.Unix(seconds, 0).UTC()
		filter.To = &to
	}
	if raw := c.Query("paymentMethod"); raw != "" {
		method := sales.PaymentMethod(raw)
		if !method.Valid() {
			return filter, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
		}
		filter.PaymentMethod = &method
	}
	if raw := c.Query("productId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID must be a UUID")
		}
		filter.ProductID = &id
	}
	return filter, nil
}
