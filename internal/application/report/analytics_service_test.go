package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/storepos/backend/internal/domain/catalog"
	"github.com/storepos/backend/internal/domain/report"
	"github.com/storepos/backend/internal/domain/sales"
	"github.com/storepos/backend/internal/infrastructure/persistence"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// staticRegistry hands every store the same in-memory database
type staticRegistry struct {
	db *gorm.DB
}

func (r staticRegistry) Resolve(_ context.Context, _ uint64) (*gorm.DB, error) {
	return r.db, nil
}

func (r staticRegistry) Provision(_ context.Context, _ uint64) (*gorm.DB, error) {
	return r.db, nil
}

type engineFixture struct {
	service  *AnalyticsService
	products *persistence.GormProductRepository
	sales    *persistence.GormSaleRepository
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	tenants := persistence.NewTenantReposProvider(staticRegistry{db: db})
	return &engineFixture{
		service:  NewAnalyticsService(tenants, nil),
		products: persistence.NewGormProductRepository(db),
		sales:    persistence.NewGormSaleRepository(db),
	}
}

func (f *engineFixture) seedProduct(t *testing.T, name, price, stock, minStock string) uuid.UUID {
	t.Helper()
	product, err := catalog.NewProduct(name, "", d(price))
	require.NoError(t, err)
	require.NoError(t, product.SetMinAllowStock(d(minStock)))
	if !d(stock).IsZero() {
		require.NoError(t, product.AdjustStock(d(stock)))
	}
	require.NoError(t, f.products.Add(context.Background(), product))
	return product.ID
}

func (f *engineFixture) seedSale(t *testing.T, at time.Time, method sales.PaymentMethod, positions ...[3]string) {
	t.Helper()
	items := make([]sales.SaleLineItem, 0, len(positions))
	for _, p := range positions {
		items = append(items, sales.SaleLineItem{
			ProductID: uuid.MustParse(p[0]),
			UnitPrice: d(p[1]),
			Quantity:  d(p[2]),
		})
	}
	sale, err := sales.NewSale(items, method, decimal.Zero)
	require.NoError(t, err)
	sale.CreatedAt = at
	require.NoError(t, f.sales.Create(context.Background(), sale))
}

func day(yyyy int, mm time.Month, dd, hour int) time.Time {
	return time.Date(yyyy, mm, dd, hour, 0, 0, 0, time.UTC)
}

func TestSalesAnalytics_EmptyStore(t *testing.T) {
	f := newEngineFixture(t)

	got, err := f.service.GetSalesAnalytics(context.Background(), 1, report.Query{}, 0)
	require.NoError(t, err)

	assert.Zero(t, got.TotalSales)
	assert.True(t, got.TotalRevenue.IsZero())
	assert.True(t, got.AverageTicket.IsZero(), "zero sales yield a zero ticket, not a division error")
	assert.Empty(t, got.ByPayment)
	assert.Empty(t, got.TopProducts)
	assert.Len(t, got.HourlySales, 24, "all 24 hour buckets present even when empty")
	assert.Empty(t, got.DailySales)
	assert.Empty(t, got.Growth)
}

func TestSalesAnalytics_TotalsAndAverage(t *testing.T) {
	f := newEngineFixture(t)
	productID := f.seedProduct(t, "Espresso", "2.00", "100", "10")
	pid := productID.String()

	at := day(2026, time.August, 3, 9)
	f.seedSale(t, at, sales.PaymentCash, [3]string{pid, "2.00", "5"})           // 10.00
	f.seedSale(t, at.Add(time.Hour), sales.PaymentCash, [3]string{pid, "2.00", "10.005"}) // 20.01
	f.seedSale(t, at.Add(2*time.Hour), sales.PaymentCard, [3]string{pid, "2.50", "2"})    // 5.00

	got, err := f.service.GetSalesAnalytics(context.Background(), 1, report.Query{}, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(3), got.TotalSales)
	assert.True(t, got.TotalRevenue.Equal(d("35.01")), "got %s", got.TotalRevenue)
	assert.True(t, got.AverageTicket.Equal(d("11.67")), "35.01/3 rounded to 2 places, got %s", got.AverageTicket)
}

func TestSalesAnalytics_PaymentBreakdownOmitsZeroMethods(t *testing.T) {
	f := newEngineFixture(t)
	productID := f.seedProduct(t, "Bagel", "1.50", "100", "10")
	pid := productID.String()

	at := day(2026, time.August, 3, 12)
	f.seedSale(t, at, sales.PaymentCash, [3]string{pid, "1.50", "1"})
	f.seedSale(t, at, sales.PaymentCash, [3]string{pid, "1.50", "2"})

	got, err := f.service.GetSalesAnalytics(context.Background(), 1, report.Query{}, 0)
	require.NoError(t, err)

	require.Len(t, got.ByPayment, 1, "methods with no sales are omitted, not zero-filled")
	assert.Equal(t, sales.PaymentCash, got.ByPayment[0].Method)
	assert.Equal(t, int64(2), got.ByPayment[0].Count)
	assert.True(t, got.ByPayment[0].Revenue.Equal(d("4.50")))
}

func TestSalesAnalytics_TopProductsRevenueRanked(t *testing.T) {
	f := newEngineFixture(t)
	cheapID := f.seedProduct(t, "Gum", "0.50", "100", "10")
	pricyID := f.seedProduct(t, "Cake", "20.00", "100", "10")

	at := day(2026, time.August, 3, 15)
	// Gum: quantity 6 across two sales, revenue 3.00.
	f.seedSale(t, at, sales.PaymentCash, [3]string{cheapID.String(), "0.50", "4"})
	f.seedSale(t, at, sales.PaymentCash, [3]string{cheapID.String(), "0.50", "2"})
	// Cake: quantity 1, revenue 20.00.
	f.seedSale(t, at, sales.PaymentCard, [3]string{pricyID.String(), "20.00", "1"})

	got, err := f.service.GetSalesAnalytics(context.Background(), 1, report.Query{}, 0)
	require.NoError(t, err)

	require.Len(t, got.TopProducts, 2)
	assert.Equal(t, "Cake", got.TopProducts[0].ProductName, "ranking is by revenue, not quantity")
	assert.Equal(t, "Gum", got.TopProducts[1].ProductName)
	assert.True(t, got.TopProducts[1].QuantitySold.Equal(d("6")), "quantities sum across sales")
	assert.Equal(t, int64(2), got.TopProducts[1].SalesCount)
	assert.True(t, got.TopProducts[1].AveragePrice.Equal(d("0.50")))
}

func TestSalesAnalytics_TopProductsTieBreakByQuantity(t *testing.T) {
	f := newEngineFixture(t)
	manyID := f.seedProduct(t, "Postcard", "1.00", "100", "10")
	fewID := f.seedProduct(t, "Poster", "3.00", "100", "10")

	at := day(2026, time.August, 3, 10)
	// Both earn 3.00; the postcard moves more units.
	f.seedSale(t, at, sales.PaymentCash, [3]string{manyID.String(), "1.00", "3"})
	f.seedSale(t, at, sales.PaymentCash, [3]string{fewID.String(), "3.00", "1"})

	got, err := f.service.GetSalesAnalytics(context.Background(), 1, report.Query{}, 0)
	require.NoError(t, err)

	require.Len(t, got.TopProducts, 2)
	assert.Equal(t, "Postcard", got.TopProducts[0].ProductName, "equal revenue resolves by quantity")
}

func TestSalesAnalytics_TopNTruncates(t *testing.T) {
	f := newEngineFixture(t)
	at := day(2026, time.August, 3, 10)
	for i := 0; i < 3; i++ {
		id := f.seedProduct(t, "Item", "1.00", "100", "10")
		f.seedSale(t, at, sales.PaymentCash, [3]string{id.String(), "1.00", "1"})
	}

	got, err := f.service.GetSalesAnalytics(context.Background(), 1, report.Query{}, 2)
	require.NoError(t, err)
	assert.Len(t, got.TopProducts, 2)
}

func TestSalesAnalytics_HourlyBuckets(t *testing.T) {
	f := newEngineFixture(t)
	productID := f.seedProduct(t, "Croissant", "1.80", "100", "10")
	pid := productID.String()

	f.seedSale(t, day(2026, time.August, 3, 9), sales.PaymentCash, [3]string{pid, "1.80", "1"})
	f.seedSale(t, day(2026, time.August, 4, 9), sales.PaymentCash, [3]string{pid, "1.80", "1"})
	f.seedSale(t, day(2026, time.August, 3, 17), sales.PaymentCard, [3]string{pid, "1.80", "2"})

	got, err := f.service.GetSalesAnalytics(context.Background(), 1, report.Query{}, 0)
	require.NoError(t, err)

	require.Len(t, got.HourlySales, 24)
	assert.Equal(t, int64(2), got.HourlySales[9].Count, "hour buckets aggregate across days")
	assert.Equal(t, int64(1), got.HourlySales[17].Count)
	assert.Equal(t, int64(0), got.HourlySales[0].Count)
	for h, bucket := range got.HourlySales {
		assert.Equal(t, h, bucket.Hour)
	}
}

func TestSalesAnalytics_DailyBucketsZeroFilled(t *testing.T) {
	f := newEngineFixture(t)
	productID := f.seedProduct(t, "Juice", "2.50", "100", "10")
	pid := productID.String()

	f.seedSale(t, day(2026, time.August, 1, 10), sales.PaymentCash, [3]string{pid, "2.50", "1"})
	f.seedSale(t, day(2026, time.August, 3, 10), sales.PaymentCash, [3]string{pid, "2.50", "2"})

	start := day(2026, time.August, 1, 0)
	end := day(2026, time.August, 3, 23)
	got, err := f.service.GetSalesAnalytics(context.Background(), 1, report.Query{
		StartDate: &start,
		EndDate:   &end,
	}, 0)
	require.NoError(t, err)

	require.Len(t, got.DailySales, 3, "every date in the range appears")
	assert.Equal(t, int64(1), got.DailySales[0].Count)
	assert.Equal(t, int64(0), got.DailySales[1].Count, "empty day is zero-filled")
	assert.True(t, got.DailySales[1].Revenue.IsZero())
	assert.Equal(t, int64(1), got.DailySales[2].Count)
	assert.Equal(t, day(2026, time.August, 2, 0), got.DailySales[1].Date)
}

func TestSalesAnalytics_GrowthSeries(t *testing.T) {
	f := newEngineFixture(t)
	productID := f.seedProduct(t, "Espresso", "2.00", "1000", "10")
	pid := productID.String()

	seedDay := func(dd, count int) {
		for i := 0; i < count; i++ {
			f.seedSale(t, day(2026, time.August, dd, 10), sales.PaymentCash, [3]string{pid, "2.00", "1"})
		}
	}
	seedDay(1, 4)
	seedDay(2, 2)
	seedDay(3, 1)

	start := day(2026, time.August, 1, 0)
	end := day(2026, time.August, 3, 0)
	got, err := f.service.GetSalesAnalytics(context.Background(), 1, report.Query{
		StartDate: &start,
		EndDate:   &end,
	}, 0)
	require.NoError(t, err)

	require.Len(t, got.Growth, 3)
	assert.Zero(t, got.Growth[0].GrowthPercentage, "first bucket has no comparison point")
	assert.InDelta(t, -50.0, got.Growth[1].GrowthPercentage, 1e-9)
	assert.InDelta(t, -50.0, got.Growth[2].GrowthPercentage, 1e-9)
	assert.InDelta(t, -50.0, got.Growth[1].RevenueGrowth, 1e-9)
}

func TestSalesAnalytics_GrowthAfterEmptyDaySaturatesToZero(t *testing.T) {
	f := newEngineFixture(t)
	productID := f.seedProduct(t, "Tea", "1.90", "100", "10")
	pid := productID.String()

	f.seedSale(t, day(2026, time.August, 1, 10), sales.PaymentCash, [3]string{pid, "1.90", "1"})
	f.seedSale(t, day(2026, time.August, 3, 10), sales.PaymentCash, [3]string{pid, "1.90", "1"})

	start := day(2026, time.August, 1, 0)
	end := day(2026, time.August, 3, 0)
	got, err := f.service.GetSalesAnalytics(context.Background(), 1, report.Query{
		StartDate: &start,
		EndDate:   &end,
	}, 0)
	require.NoError(t, err)

	require.Len(t, got.Growth, 3)
	assert.InDelta(t, -100.0, got.Growth[1].GrowthPercentage, 1e-9)
	assert.Zero(t, got.Growth[2].GrowthPercentage, "division by a zero previous day saturates to 0")
}

func TestSalesAnalytics_PaymentMethodFilter(t *testing.T) {
	f := newEngineFixture(t)
	productID := f.seedProduct(t, "Wrap", "4.00", "100", "10")
	pid := productID.String()

	at := day(2026, time.August, 3, 11)
	f.seedSale(t, at, sales.PaymentCash, [3]string{pid, "4.00", "1"})
	f.seedSale(t, at, sales.PaymentCard, [3]string{pid, "4.00", "1"})

	card := sales.PaymentCard
	got, err := f.service.GetSalesAnalytics(context.Background(), 1, report.Query{PaymentMethod: &card}, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.TotalSales)
	require.Len(t, got.ByPayment, 1)
	assert.Equal(t, sales.PaymentCard, got.ByPayment[0].Method)
}

func TestInventoryAnalytics(t *testing.T) {
	f := newEngineFixture(t)
	criticalID := f.seedProduct(t, "Out Of Stock", "5.00", "0", "10")
	lowID := f.seedProduct(t, "Running Low", "2.00", "5", "5")
	warningID := f.seedProduct(t, "Warning Band", "1.00", "7", "5")
	f.seedProduct(t, "Well Stocked", "3.00", "100", "5")

	f.seedSale(t, day(2026, time.August, 3, 10), sales.PaymentCash,
		[3]string{lowID.String(), "2.00", "3"})

	got, err := f.service.GetInventoryAnalytics(context.Background(), 1, report.Query{})
	require.NoError(t, err)

	// 0*5 + 5*2 + 7*1 + 100*3 = 317
	assert.True(t, got.TotalStockValue.Equal(d("317")), "got %s", got.TotalStockValue)
	// Mean of stock/min ratios: (0/10 + 5/5 + 7/5 + 100/5) / 4 = 5.6
	assert.InDelta(t, 5.6, got.AverageStockLevel, 1e-9)

	require.Len(t, got.LowStock, 3)
	assert.Equal(t, criticalID, got.LowStock[0].ProductID, "most urgent first")
	assert.Equal(t, catalog.StockLevelCritical, got.LowStock[0].Level)
	assert.Equal(t, lowID, got.LowStock[1].ProductID)
	assert.Equal(t, warningID, got.LowStock[2].ProductID)
	assert.NotNil(t, got.LowStock[1].LastSaleDate)
	assert.Nil(t, got.LowStock[0].LastSaleDate)

	// Sold 3; current 112; initial reconstructed 115; average
	// inventory (115+112)/2 = 113.5.
	assert.True(t, got.Movement.TotalSold.Equal(d("3")))
	assert.True(t, got.Movement.CurrentStock.Equal(d("112")))
	assert.True(t, got.Movement.InitialStock.Equal(d("115")))
	assert.InDelta(t, 3.0/113.5, got.Movement.TurnoverRate, 1e-9)
}

func TestRealtimeMetrics(t *testing.T) {
	f := newEngineFixture(t)
	productID := f.seedProduct(t, "Flat White", "3.20", "100", "10")
	pid := productID.String()

	now := day(2026, time.August, 28, 14).Add(30 * time.Minute)
	f.service.now = func() time.Time { return now }

	f.seedSale(t, now.Add(-10*time.Minute), sales.PaymentCash, [3]string{pid, "3.20", "1"}) // current hour
	f.seedSale(t, now.Add(-3*time.Hour), sales.PaymentCard, [3]string{pid, "3.20", "2"})    // today, earlier
	f.seedSale(t, now.Add(-30*time.Hour), sales.PaymentCash, [3]string{pid, "3.20", "1"})   // yesterday

	got, err := f.service.GetRealtimeMetrics(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), got.TodaySales)
	assert.True(t, got.TodayRevenue.Equal(d("9.60")), "got %s", got.TodayRevenue)
	assert.True(t, got.AverageTicket.Equal(d("4.80")))
	assert.Equal(t, int64(1), got.CurrentHourSales)
	require.Len(t, got.RecentSales, 2, "recent list honors the limit")
	assert.True(t, got.RecentSales[0].CreatedAt.After(got.RecentSales[1].CreatedAt))
}
