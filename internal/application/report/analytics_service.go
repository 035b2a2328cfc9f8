// Package report implements the on-demand analytics engine and its
// cached report facade. Aggregation fetches the matching source rows
// once, then computes every metric in memory; nothing derived is ever
// persisted.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storepos/backend/internal/domain/report"
	"github.com/storepos/backend/internal/domain/sales"
	"github.com/storepos/backend/internal/infrastructure/logger"
	"github.com/storepos/backend/internal/infrastructure/persistence"
)

const (
	defaultTopProducts = 10
	defaultRecentSales = 10
)

// AnalyticsService computes analytics for one store at a time from its
// own database
type AnalyticsService struct {
	tenants *persistence.TenantReposProvider
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(tenants *persistence.TenantReposProvider, log *zap.Logger) *AnalyticsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalyticsService{
		tenants: tenants,
		logger:  log,
		now:     time.Now,
	}
}

func queryFilter(q report.Query) sales.Filter {
	return sales.Filter{
		From:          q.StartDate,
		To:            q.EndDate,
		PaymentMethod: q.PaymentMethod,
		ProductID:     q.ProductID,
	}
}

// GetSalesAnalytics aggregates the sales matching the query into
// totals, payment breakdown, top products, hourly and daily buckets
// and day-over-day growth.
func (s *AnalyticsService) GetSalesAnalytics(ctx context.Context, storeID uint64, q report.Query, topN int) (*report.SalesAnalytics, error) {
	repos, err := s.tenants.For(ctx, storeID)
	if err != nil {
		return nil, err
	}
	matched, err := repos.Sales.Find(ctx, queryFilter(q))
	if err != nil {
		return nil, err
	}
	products, err := repos.Products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(products))
	for i := range products {
		names[products[i].ID] = products[i].Name
	}

	daily := bucketByDay(matched, q.StartDate, q.EndDate)
	result := &report.SalesAnalytics{
		TotalSales:   int64(len(matched)),
		TotalRevenue: sumRevenue(matched),
		ByPayment:    paymentBreakdown(matched),
		TopProducts:  topProducts(matched, names, q.ProductID, topN),
		HourlySales:  bucketByHour(matched),
		DailySales:   daily,
		Growth:       growthSeries(daily),
	}
	result.AverageTicket = averageTicket(result.TotalRevenue, result.TotalSales)

	s.logger.Debug("sales analytics computed",
		logger.StoreField(storeID),
		zap.Int64("sales", result.TotalSales))
	return result, nil
}

// GetInventoryAnalytics aggregates stock health and movement. Sales in
// the queried period feed the movement figures and last-sale dates.
func (s *AnalyticsService) GetInventoryAnalytics(ctx context.Context, storeID uint64, q report.Query) (*report.InventoryAnalytics, error) {
	repos, err := s.tenants.For(ctx, storeID)
	if err != nil {
		return nil, err
	}
	products, err := repos.Products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	matched, err := repos.Sales.Find(ctx, queryFilter(q))
	if err != nil {
		return nil, err
	}

	lastSale := make(map[uuid.UUID]time.Time)
	totalSold := decimal.Zero
	for i := range matched {
		for _, item := range matched[i].Items {
			totalSold = totalSold.Add(item.Quantity)
			if t, ok := lastSale[item.ProductID]; !ok || matched[i].CreatedAt.After(t) {
				lastSale[item.ProductID] = matched[i].CreatedAt
			}
		}
	}

	stockValue := decimal.Zero
	stockSum := decimal.Zero
	ratioSum := decimal.Zero
	ratioCount := 0
	var lowStock []report.LowStockProduct
	for i := range products {
		p := &products[i]
		stockValue = stockValue.Add(p.Stock.Mul(p.RetailPrice))
		stockSum = stockSum.Add(p.Stock)
		if p.MinAllowStock.IsPositive() {
			ratioSum = ratioSum.Add(p.Stock.Div(p.MinAllowStock))
			ratioCount++
		}

		level := p.StockLevel()
		if !level.NeedsAttention() {
			continue
		}
		row := report.LowStockProduct{
			ProductID:     p.ID,
			ProductName:   p.Name,
			CurrentStock:  p.Stock,
			MinAllowStock: p.MinAllowStock,
			Level:         level,
		}
		if t, ok := lastSale[p.ID]; ok {
			saleTime := t
			row.LastSaleDate = &saleTime
		}
		lowStock = append(lowStock, row)
	}
	// Most urgent first; ties resolved by lowest stock, then name.
	sort.SliceStable(lowStock, func(i, j int) bool {
		if lowStock[i].Level.Severity() != lowStock[j].Level.Severity() {
			return lowStock[i].Level.Severity() < lowStock[j].Level.Severity()
		}
		if cmp := lowStock[i].CurrentStock.Cmp(lowStock[j].CurrentStock); cmp != 0 {
			return cmp < 0
		}
		return lowStock[i].ProductName < lowStock[j].ProductName
	})

	// Products without a configured minimum are excluded from the
	// average, their ratio has no meaning.
	averageStock := 0.0
	if ratioCount > 0 {
		averageStock, _ = ratioSum.Div(decimal.NewFromInt(int64(ratioCount))).Float64()
	}

	// Initial stock is reconstructed: what is on the shelf now plus
	// everything sold in the period. Turnover divides units sold by the
	// average of initial and current inventory.
	initialStock := stockSum.Add(totalSold)
	averageInventory := initialStock.Add(stockSum).Div(decimal.NewFromInt(2))
	turnover := 0.0
	if averageInventory.IsPositive() {
		turnover, _ = totalSold.Div(averageInventory).Float64()
	}

	return &report.InventoryAnalytics{
		TotalStockValue:   stockValue,
		AverageStockLevel: averageStock,
		LowStock:          lowStock,
		Movement: report.StockMovement{
			TotalSold:    totalSold,
			InitialStock: initialStock,
			CurrentStock: stockSum,
			TurnoverRate: turnover,
		},
	}, nil
}

// GetRealtimeMetrics returns today's totals, the current hour's count
// and the most recent sales. "Today" is the current UTC calendar date.
func (s *AnalyticsService) GetRealtimeMetrics(ctx context.Context, storeID uint64, recentLimit int) (*report.RealtimeMetrics, error) {
	repos, err := s.tenants.For(ctx, storeID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	dayStart := startOfDay(now)
	today, err := repos.Sales.Find(ctx, sales.Filter{From: &dayStart, To: &now})
	if err != nil {
		return nil, err
	}

	if recentLimit <= 0 {
		recentLimit = defaultRecentSales
	}
	recent, err := repos.Sales.FindRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	revenue := sumRevenue(today)
	var currentHour int64
	for i := range today {
		if today[i].CreatedAt.UTC().Hour() == now.Hour() {
			currentHour++
		}
	}

	recentSales := make([]report.RecentSale, 0, len(recent))
	for i := range recent {
		recentSales = append(recentSales, report.RecentSale{
			SaleID:        recent[i].ID,
			Total:         recent[i].Total,
			PaymentMethod: recent[i].PaymentMethod,
			CreatedAt:     recent[i].CreatedAt,
		})
	}

	return &report.RealtimeMetrics{
		TodaySales:       int64(len(today)),
		TodayRevenue:     revenue,
		AverageTicket:    averageTicket(revenue, int64(len(today))),
		CurrentHourSales: currentHour,
		RecentSales:      recentSales,
	}, nil
}

func sumRevenue(matched []sales.Sale) decimal.Decimal {
	revenue := decimal.Zero
	for i := range matched {
		revenue = revenue.Add(matched[i].Total)
	}
	return revenue
}

// averageTicket divides revenue by count to 2 decimal places, rounding
// half away from zero. Zero sales yield a zero ticket, not an error.
func averageTicket(revenue decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return revenue.Div(decimal.NewFromInt(count)).Round(2)
}

func paymentBreakdown(matched []sales.Sale) []report.PaymentMethodMetrics {
	counts := make(map[sales.PaymentMethod]int64)
	revenues := make(map[sales.PaymentMethod]decimal.Decimal)
	for i := range matched {
		m := matched[i].PaymentMethod
		counts[m]++
		revenues[m] = revenues[m].Add(matched[i].Total)
	}

	// Fixed method order keeps the breakdown deterministic. Methods
	// with no matching sales are omitted.
	result := make([]report.PaymentMethodMetrics, 0, len(counts))
	for _, m := range []sales.PaymentMethod{sales.PaymentCard, sales.PaymentCash} {
		if counts[m] == 0 {
			continue
		}
		result = append(result, report.PaymentMethodMetrics{
			Method:  m,
			Count:   counts[m],
			Revenue: revenues[m],
		})
	}
	return result
}

func topProducts(matched []sales.Sale, names map[uuid.UUID]string, only *uuid.UUID, topN int) []report.ProductSalesMetrics {
	if topN <= 0 {
		topN = defaultTopProducts
	}

	byProduct := make(map[uuid.UUID]*report.ProductSalesMetrics)
	seen := make(map[uuid.UUID]map[uuid.UUID]bool)
	for i := range matched {
		for _, item := range matched[i].Items {
			if only != nil && item.ProductID != *only {
				continue
			}
			m, ok := byProduct[item.ProductID]
			if !ok {
				name := names[item.ProductID]
				if name == "" {
					name = "unknown"
				}
				m = &report.ProductSalesMetrics{
					ProductID:    item.ProductID,
					ProductName:  name,
					QuantitySold: decimal.Zero,
					Revenue:      decimal.Zero,
				}
				byProduct[item.ProductID] = m
				seen[item.ProductID] = make(map[uuid.UUID]bool)
			}
			m.QuantitySold = m.QuantitySold.Add(item.Quantity)
			m.Revenue = m.Revenue.Add(item.Amount())
			if !seen[item.ProductID][matched[i].ID] {
				seen[item.ProductID][matched[i].ID] = true
				m.SalesCount++
			}
		}
	}

	result := make([]report.ProductSalesMetrics, 0, len(byProduct))
	for _, m := range byProduct {
		if m.QuantitySold.IsPositive() {
			m.AveragePrice = m.Revenue.Div(m.QuantitySold).Round(2)
		}
		result = append(result, *m)
	}

	// Ranked by revenue; quantity breaks revenue ties and the product
	// ID makes the order total.
	sort.SliceStable(result, func(i, j int) bool {
		if cmp := result[i].Revenue.Cmp(result[j].Revenue); cmp != 0 {
			return cmp > 0
		}
		if cmp := result[i].QuantitySold.Cmp(result[j].QuantitySold); cmp != 0 {
			return cmp > 0
		}
		return result[i].ProductID.String() < result[j].ProductID.String()
	})
	if len(result) > topN {
		result = result[:topN]
	}
	return result
}

func bucketByHour(matched []sales.Sale) []report.HourlyMetrics {
	buckets := make([]report.HourlyMetrics, 24)
	for h := range buckets {
		buckets[h] = report.HourlyMetrics{Hour: h, Revenue: decimal.Zero}
	}
	for i := range matched {
		h := matched[i].CreatedAt.UTC().Hour()
		buckets[h].Count++
		buckets[h].Revenue = buckets[h].Revenue.Add(matched[i].Total)
	}
	return buckets
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// bucketByDay produces one bucket per UTC calendar date. With an
// explicit range every date in it appears, empty or not; without one
// the range spans the first through last matching sale.
func bucketByDay(matched []sales.Sale, start, end *time.Time) []report.DailyMetrics {
	var from, to time.Time
	switch {
	case start != nil && end != nil:
		from, to = startOfDay(*start), startOfDay(*end)
	case len(matched) > 0:
		from = startOfDay(matched[0].CreatedAt)
		to = from
		for i := range matched {
			day := startOfDay(matched[i].CreatedAt)
			if day.Before(from) {
				from = day
			}
			if day.After(to) {
				to = day
			}
		}
		if start != nil && startOfDay(*start).After(from) {
			from = startOfDay(*start)
		}
		if end != nil && startOfDay(*end).Before(to) {
			to = startOfDay(*end)
		}
	default:
		return []report.DailyMetrics{}
	}
	if to.Before(from) {
		return []report.DailyMetrics{}
	}

	index := make(map[time.Time]int)
	var buckets []report.DailyMetrics
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		index[day] = len(buckets)
		buckets = append(buckets, report.DailyMetrics{Date: day, Revenue: decimal.Zero})
	}
	for i := range matched {
		day := startOfDay(matched[i].CreatedAt)
		if idx, ok := index[day]; ok {
			buckets[idx].Count++
			buckets[idx].Revenue = buckets[idx].Revenue.Add(matched[i].Total)
		}
	}
	return buckets
}

// growthSeries compares each daily bucket against the one before it.
// The first bucket, and any bucket following an empty one, report zero
// growth.
func growthSeries(daily []report.DailyMetrics) []report.GrowthMetrics {
	result := make([]report.GrowthMetrics, 0, len(daily))
	for i := range daily {
		g := report.GrowthMetrics{
			Date:       daily[i].Date,
			SalesCount: daily[i].Count,
		}
		if i > 0 {
			g.GrowthPercentage = percentChange(float64(daily[i-1].Count), float64(daily[i].Count))
			prevRevenue, _ := daily[i-1].Revenue.Float64()
			revenue, _ := daily[i].Revenue.Float64()
			g.RevenueGrowth = percentChange(prevRevenue, revenue)
		}
		result = append(result, g)
	}
	return result
}

func percentChange(prev, current float64) float64 {
	if prev == 0 {
		return 0
	}
	return (current - prev) / prev * 100
}
