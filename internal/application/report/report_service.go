package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storepos/backend/internal/domain/report"
	"github.com/storepos/backend/internal/domain/sales"
	"github.com/storepos/backend/internal/domain/shared"
	"github.com/storepos/backend/internal/infrastructure/cache"
	"github.com/storepos/backend/internal/infrastructure/logger"
)

// SalesReportQuery narrows a report request. Timestamps are epoch
// seconds; zero values mean unbounded.
type SalesReportQuery struct {
	StartDate     int64  `form:"startDate"`
	EndDate       int64  `form:"endDate"`
	PaymentMethod string `form:"paymentMethod" binding:"omitempty,oneof=CARD CASH"`
	ProductID     string `form:"productId" binding:"omitempty,uuid"`
	TopProducts   int    `form:"topProducts" binding:"omitempty,min=1,max=100"`
}

// PaymentMethodReport is one slice of the payment breakdown
type PaymentMethodReport struct {
	Method  string          `json:"method"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProductSalesReport is one row of the top-products ranking
type ProductSalesReport struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	QuantitySold decimal.Decimal `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
	SalesCount   int64           `json:"salesCount"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
}

// HourlyReport is one of the 24 hour-of-day buckets
type HourlyReport struct {
	Hour    int             `json:"hour"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DailyReport is one calendar-date bucket; Date is the epoch second of
// UTC midnight
type DailyReport struct {
	Date    int64           `json:"date"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// GrowthReport compares one date bucket against the previous one
type GrowthReport struct {
	Date             int64   `json:"date"`
	SalesCount       int64   `json:"salesCount"`
	GrowthPercentage float64 `json:"growthPercentage"`
	RevenueGrowth    float64 `json:"revenueGrowthPercentage"`
}

// SalesReportResponse is the full sales report payload
type SalesReportResponse struct {
	TotalSales    int64                 `json:"totalSales"`
	TotalRevenue  decimal.Decimal       `json:"totalRevenue"`
	AverageTicket decimal.Decimal       `json:"averageTicket"`
	ByPayment     []PaymentMethodReport `json:"byPaymentMethod"`
	TopProducts   []ProductSalesReport  `json:"topProducts"`
	HourlySales   []HourlyReport        `json:"hourlySales"`
	DailySales    []DailyReport         `json:"dailySales"`
	Growth        []GrowthReport        `json:"growth"`
}

// LowStockReport is one row of the stock-health listing
type LowStockReport struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	CurrentStock  decimal.Decimal `json:"currentStock"`
	MinAllowStock decimal.Decimal `json:"minAllowStock"`
	Level         string          `json:"level"`
	LastSaleDate  *int64          `json:"lastSaleDate,omitempty"`
}

// StockMovementReport summarizes inventory flow over the period
type StockMovementReport struct {
	TotalSold    decimal.Decimal `json:"totalSold"`
	InitialStock decimal.Decimal `json:"initialStock"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	TurnoverRate float64         `json:"turnoverRate"`
}

// InventoryReportResponse is the full inventory report payload
type InventoryReportResponse struct {
	TotalStockValue   decimal.Decimal     `json:"totalStockValue"`
	AverageStockLevel float64             `json:"averageStockLevel"`
	LowStock          []LowStockReport    `json:"lowStock"`
	Movement          StockMovementReport `json:"stockMovement"`
}

// RecentSaleReport is one entry of the realtime short list
type RecentSaleReport struct {
	SaleID        string          `json:"saleId"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     int64           `json:"createdAt"`
}

// RealtimeReportResponse is the live dashboard payload
type RealtimeReportResponse struct {
	TodaySales       int64              `json:"todaySales"`
	TodayRevenue     decimal.Decimal    `json:"todayRevenue"`
	AverageTicket    decimal.Decimal    `json:"averageTicket"`
	CurrentHourSales int64              `json:"currentHourSales"`
	RecentSales      []RecentSaleReport `json:"recentSales"`
}

// ReportService is the facade over the analytics engine. Sales and
// inventory reports go through the Redis cache; the realtime snapshot
// is always computed fresh.
type ReportService struct {
	analytics   *AnalyticsService
	cache       *cache.ReportCache
	recentSales int
	logger      *zap.Logger
}

// NewReportService creates a new ReportService. The cache is optional;
// recentSales is the configured length of the realtime recent-sales
// list when the caller does not ask for a specific one.
func NewReportService(analytics *AnalyticsService, reportCache *cache.ReportCache, recentSales int, log *zap.Logger) *ReportService {
	if recentSales <= 0 {
		recentSales = defaultRecentSales
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{
		analytics:   analytics,
		cache:       reportCache,
		recentSales: recentSales,
		logger:      log,
	}
}

func (q SalesReportQuery) toDomain() (report.Query, error) {
	var domainQuery report.Query
	if q.StartDate > 0 {
		start := time.Unix(q.StartDate, 0).UTC()
		domainQuery.StartDate = &start
	}
	if q.EndDate > 0 {
		end := time.Unix(q.EndDate, 0).UTC()
		domainQuery.EndDate = &end
	}
	if q.PaymentMethod != "" {
		method := sales.PaymentMethod(q.PaymentMethod)
		if !method.Valid() {
			return domainQuery, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
		}
		domainQuery.PaymentMethod = &method
	}
	if q.ProductID != "" {
		id, err := uuid.Parse(q.ProductID)
		if err != nil {
			return domainQuery, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID must be a UUID")
		}
		domainQuery.ProductID = &id
	}
	return domainQuery, nil
}

func (q SalesReportQuery) cacheKeyParts(kind string) []string {
	return []string{
		kind,
		fmt.Sprintf("%d", q.StartDate),
		fmt.Sprintf("%d", q.EndDate),
		q.PaymentMethod,
		q.ProductID,
		fmt.Sprintf("%d", q.TopProducts),
	}
}

// SalesReport computes (or serves from cache) the sales report
func (s *ReportService) SalesReport(ctx context.Context, storeID uint64, q SalesReportQuery) (*SalesReportResponse, error) {
	var key string
	if s.cache != nil {
		key = s.cache.Key(storeID, q.cacheKeyParts("sales")...)
		var cached SalesReportResponse
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("report cache read failed",
				logger.StoreField(storeID), zap.Error(err))
		}
	}

	domainQuery, err := q.toDomain()
	if err != nil {
		return nil, err
	}
	analytics, err := s.analytics.GetSalesAnalytics(ctx, storeID, domainQuery, q.TopProducts)
	if err != nil {
		return nil, err
	}
	response := toSalesReportResponse(analytics)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, response); err != nil {
			s.logger.Warn("report cache write failed",
				logger.StoreField(storeID), zap.Error(err))
		}
	}
	return response, nil
}

// InventoryReport computes (or serves from cache) the inventory report
func (s *ReportService) InventoryReport(ctx context.Context, storeID uint64, q SalesReportQuery) (*InventoryReportResponse, error) {
	var key string
	if s.cache != nil {
		key = s.cache.Key(storeID, q.cacheKeyParts("inventory")...)
		var cached InventoryReportResponse
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("report cache read failed",
				logger.StoreField(storeID), zap.Error(err))
		}
	}

	domainQuery, err := q.toDomain()
	if err != nil {
		return nil, err
	}
	analytics, err := s.analytics.GetInventoryAnalytics(ctx, storeID, domainQuery)
	if err != nil {
		return nil, err
	}
	response := toInventoryReportResponse(analytics)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, response); err != nil {
			s.logger.Warn("report cache write failed",
				logger.StoreField(storeID), zap.Error(err))
		}
	}
	return response, nil
}

// RealtimeReport computes the live dashboard snapshot, never cached.
// A non-positive recentLimit falls back to the configured list length.
func (s *ReportService) RealtimeReport(ctx context.Context, storeID uint64, recentLimit int) (*RealtimeReportResponse, error) {
	if recentLimit <= 0 {
		recentLimit = s.recentSales
	}
	metrics, err := s.analytics.GetRealtimeMetrics(ctx, storeID, recentLimit)
	if err != nil {
		return nil, err
	}
	return toRealtimeReportResponse(metrics), nil
}

func toSalesReportResponse(a *report.SalesAnalytics) *SalesReportResponse {
	response := &SalesReportResponse{
		TotalSales:    a.TotalSales,
		TotalRevenue:  a.TotalRevenue,
		AverageTicket: a.AverageTicket,
		ByPayment:     make([]PaymentMethodReport, 0, len(a.ByPayment)),
		TopProducts:   make([]ProductSalesReport, 0, len(a.TopProducts)),
		HourlySales:   make([]HourlyReport, 0, len(a.HourlySales)),
		DailySales:    make([]DailyReport, 0, len(a.DailySales)),
		Growth:        make([]GrowthReport, 0, len(a.Growth)),
	}
	for _, m := range a.ByPayment {
		response.ByPayment = append(response.ByPayment, PaymentMethodReport{
			Method:  string(m.Method),
			Count:   m.Count,
			Revenue: m.Revenue,
		})
	}
	for _, m := range a.TopProducts {
		response.TopProducts = append(response.TopProducts, ProductSalesReport{
			ProductID:    m.ProductID.String(),
			ProductName:  m.ProductName,
			QuantitySold: m.QuantitySold,
			Revenue:      m.Revenue,
			SalesCount:   m.SalesCount,
			AveragePrice: m.AveragePrice,
		})
	}
	for _, m := range a.HourlySales {
		response.HourlySales = append(response.HourlySales, HourlyReport{
			Hour:    m.Hour,
			Count:   m.Count,
			Revenue: m.Revenue,
		})
	}
	for _, m := range a.DailySales {
		response.DailySales = append(response.DailySales, DailyReport{
			Date:    m.Date.Unix(),
			Count:   m.Count,
			Revenue: m.Revenue,
		})
	}
	for _, m := range a.Growth {
		response.Growth = append(response.Growth, GrowthReport{
			Date:             m.Date.Unix(),
			SalesCount:       m.SalesCount,
			GrowthPercentage: m.GrowthPercentage,
			RevenueGrowth:    m.RevenueGrowth,
		})
	}
	return response
}

func toInventoryReportResponse(a *report.InventoryAnalytics) *InventoryReportResponse {
	response := &InventoryReportResponse{
		TotalStockValue:   a.TotalStockValue,
		AverageStockLevel: a.AverageStockLevel,
		LowStock:          make([]LowStockReport, 0, len(a.LowStock)),
		Movement: StockMovementReport{
			TotalSold:    a.Movement.TotalSold,
			InitialStock: a.Movement.InitialStock,
			CurrentStock: a.Movement.CurrentStock,
			TurnoverRate: a.Movement.TurnoverRate,
		},
	}
	for _, p := range a.LowStock {
		row := LowStockReport{
			ProductID:     p.ProductID.String(),
			ProductName:   p.ProductName,
			CurrentStock:  p.CurrentStock,
			MinAllowStock: p.MinAllowStock,
			Level:         string(p.Level),
		}
		if p.LastSaleDate != nil {
			ts := p.LastSaleDate.Unix()
			row.LastSaleDate = &ts
		}
		response.LowStock = append(response.LowStock, row)
	}
	return response
}

func toRealtimeReportResponse(m *report.RealtimeMetrics) *RealtimeReportResponse {
	response := &RealtimeReportResponse{
		TodaySales:       m.TodaySales,
		TodayRevenue:     m.TodayRevenue,
		AverageTicket:    m.AverageTicket,
		CurrentHourSales: m.CurrentHourSales,
		RecentSales:      make([]RecentSaleReport, 0, len(m.RecentSales)),
	}
	for _, sale := range m.RecentSales {
		response.RecentSales = append(response.RecentSales, RecentSaleReport{
			SaleID:        sale.SaleID.String(),
			Total:         sale.Total,
			PaymentMethod: string(sale.PaymentMethod),
			CreatedAt:     sale.CreatedAt.Unix(),
		})
	}
	return response
}
