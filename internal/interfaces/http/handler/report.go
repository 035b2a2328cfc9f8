package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appreport "github.com/storepos/backend/internal/application/report"
)

// ReportHandler handles the analytics report endpoints
type ReportHandler struct {
	reports *appreport.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *appreport.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Sales returns the sales report for the queried period
func (h *ReportHandler) Sales(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	var query appreport.SalesReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}
	report, err := h.reports.SalesReport(c.Request.Context(), storeID, query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

// Inventory returns the stock health report
func (h *ReportHandler) Inventory(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	var query appreport.SalesReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}
	report, err := h.reports.InventoryReport(c.Request.Context(), storeID, query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

// Realtime returns the live dashboard snapshot
func (h *ReportHandler) Realtime(c *gin.Context) {
	storeID, ok := scopedStoreID(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("recentLimit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	report, err := h.reports.RealtimeReport(c.Request.Context(), storeID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}
