// Package report defines the derived analytics read models.
//
// Everything here is computed on demand from current source rows and
// never persisted. Monetary fields carry exact decimals; rates and
// percentages are plain floating point.
package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storepos/backend/internal/domain/catalog"
	"github.com/storepos/backend/internal/domain/sales"
)

// Query narrows an analytics run. Nil fields match everything.
// Date bucketing uses UTC day boundaries.
type Query struct {
	StartDate     *time.Time
	EndDate       *time.Time
	PaymentMethod *sales.PaymentMethod
	ProductID     *uuid.UUID
}

// SalesAnalytics aggregates sales for one store and period
type SalesAnalytics struct {
	TotalSales    int64                  `json:"total_sales"`
	TotalRevenue  decimal.Decimal        `json:"total_revenue"`
	AverageTicket decimal.Decimal        `json:"average_ticket"`
	ByPayment     []PaymentMethodMetrics `json:"by_payment_method"`
	TopProducts   []ProductSalesMetrics  `json:"top_products"`
	HourlySales   []HourlyMetrics        `json:"hourly_sales"`
	DailySales    []DailyMetrics         `json:"daily_sales"`
	Growth        []GrowthMetrics        `json:"growth"`
}

// PaymentMethodMetrics is the per-method slice of the sales breakdown.
// Methods with zero matching sales are omitted, not zero-filled.
type PaymentMethodMetrics struct {
	Method  sales.PaymentMethod `json:"method"`
	Count   int64               `json:"count"`
	Revenue decimal.Decimal     `json:"revenue"`
}

// ProductSalesMetrics aggregates line items per product.
// Quantity-weighted: QuantitySold sums recorded quantities, not
// line-item occurrences.
type ProductSalesMetrics struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	SalesCount   int64           `json:"sales_count"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// HourlyMetrics buckets sales by hour of day, 0 through 23.
// All 24 buckets are present even when empty.
type HourlyMetrics struct {
	Hour    int             `json:"hour"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DailyMetrics buckets sales by UTC calendar date
type DailyMetrics struct {
	Date    time.Time       `json:"date"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// GrowthMetrics compares one date bucket against the previous one.
// Growth saturates to 0 when there is no prior comparison point or the
// previous value is zero; that is a policy, not missing data.
type GrowthMetrics struct {
	Date             time.Time `json:"date"`
	SalesCount       int64     `json:"sales_count"`
	GrowthPercentage float64   `json:"growth_percentage"`
	RevenueGrowth    float64   `json:"revenue_growth_percentage"`
}

// LowStockProduct is one row of the stock-health listing
type LowStockProduct struct {
	ProductID     uuid.UUID          `json:"product_id"`
	ProductName   string             `json:"product_name"`
	CurrentStock  decimal.Decimal    `json:"current_stock"`
	MinAllowStock decimal.Decimal    `json:"min_allow_stock"`
	Level         catalog.StockLevel `json:"level"`
	LastSaleDate  *time.Time         `json:"last_sale_date"`
}

// StockMovement summarizes inventory flow over the queried period
type StockMovement struct {
	TotalSold    decimal.Decimal `json:"total_sold"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	TurnoverRate float64         `json:"turnover_rate"`
}

// InventoryAnalytics aggregates stock health for one store
type InventoryAnalytics struct {
	TotalStockValue   decimal.Decimal   `json:"total_stock_value"`
	AverageStockLevel float64           `json:"average_stock_level"`
	LowStock          []LowStockProduct `json:"low_stock"`
	Movement          StockMovement     `json:"stock_movement"`
}

// RecentSale is one entry of the realtime short list
type RecentSale struct {
	SaleID        uuid.UUID           `json:"sale_id"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod sales.PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time           `json:"created_at"`
}

// RealtimeMetrics is the implicit-"today" snapshot plus the current
// hour and the most recent sales
type RealtimeMetrics struct {
	TodaySales       int64           `json:"today_sales"`
	TodayRevenue     decimal.Decimal `json:"today_revenue"`
	AverageTicket    decimal.Decimal `json:"average_ticket"`
	CurrentHourSales int64           `json:"current_hour_sales"`
	RecentSales      []RecentSale    `json:"recent_sales"`
}
