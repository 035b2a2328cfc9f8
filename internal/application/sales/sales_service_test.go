package sales

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
	"github.com/storepos/backend/internal/domain/sales"
	"github.com/storepos/backend/internal/domain/shared"
	"github.com/storepos/backend/internal/infrastructure/persistence"
)

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

type serviceFixture struct {
	service  *SalesService
	products *persistence.GormProductRepository
	sales    *persistence.GormSaleRepository
	coupons  *persistence.GormCouponRepository
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	tenants := persistence.NewTenantReposProvider(staticRegistry{db: db})
	coupons := persistence.NewGormCouponRepository(db)
	return &serviceFixture{
		service:  NewSalesService(tenants, coupons, nil, nil),
		products: persistence.NewGormProductRepository(db),
		sales:    persistence.NewGormSaleRepository(db),
		coupons:  coupons,
	}
}

func (f *serviceFixture) seedProduct(t *testing.T, name, price, stock string) uuid.UUID {
	t.Helper()
	product, err := catalog.NewProduct(name, "", d(price))
	require.NoError(t, err)
	require.NoError(t, product.AdjustStock(d(stock)))
	require.NoError(t, f.products.Add(context.Background(), product))
	return product.ID
}

func (f *serviceFixture) stockOf(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	product, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return product.Stock
}

func TestSalesServiceRecordSale(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots the current price into line items", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := f.seedProduct(t, "Latte", "3.40", "20")

		resp, err := f.service.RecordSale(ctx, 1, RecordSaleRequest{
			Items:         []SaleItemInput{{ProductID: productID, Quantity: d("2")}},
			PaymentMethod: "CASH",
		})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].UnitPrice.Equal(d("3.40")))
		assert.True(t, resp.Subtotal.Equal(d("6.80")))
		assert.True(t, resp.Total.Equal(d("6.80")))
		assert.True(t, f.stockOf(t, productID).Equal(d("18")))
	})

	t.Run("aggregates duplicate product positions into one decrement", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := f.seedProduct(t, "Scone", "2.00", "5")

		_, err := f.service.RecordSale(ctx, 1, RecordSaleRequest{
			Items: []SaleItemInput{
				{ProductID: productID, Quantity: d("2")},
				{ProductID: productID, Quantity: d("1")},
			},
			PaymentMethod: "CARD",
		})
		require.NoError(t, err)
		assert.True(t, f.stockOf(t, productID).Equal(d("2")))
	})

	t.Run("applies a percent coupon", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := f.seedProduct(t, "Sandwich", "5.00", "10")

		coupon, err := sales.NewPercentCoupon(1, "TEN", d("10"), time.Now().Add(-time.Hour))
		require.NoError(t, err)
		require.NoError(t, f.coupons.Add(ctx, coupon))

		resp, err := f.service.RecordSale(ctx, 1, RecordSaleRequest{
			Items:         []SaleItemInput{{ProductID: productID, Quantity: d("2")}},
			PaymentMethod: "CASH",
			CouponCode:    "TEN",
		})
		require.NoError(t, err)
		assert.True(t, resp.Subtotal.Equal(d("10.00")))
		assert.True(t, resp.Discount.Equal(d("1.00")))
		assert.True(t, resp.Total.Equal(d("9.00")))
	})

	t.Run("rejects unknown coupon", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := f.seedProduct(t, "Muffin", "2.20", "10")

		_, err := f.service.RecordSale(ctx, 1, RecordSaleRequest{
			Items:         []SaleItemInput{{ProductID: productID, Quantity: d("1")}},
			PaymentMethod: "CASH",
			CouponCode:    "NOPE",
		})
		assert.ErrorIs(t, err, shared.ErrInvalidCoupon)
	})

	t.Run("rejects expired coupon", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := f.seedProduct(t, "Tea", "1.90", "10")

		coupon, err := sales.NewAmountCoupon(1, "OLD", d("1"), time.Now().Add(-48*time.Hour))
		require.NoError(t, err)
		require.NoError(t, coupon.ExpireAt(time.Now().Add(-24*time.Hour)))
		require.NoError(t, f.coupons.Add(ctx, coupon))

		_, err = f.service.RecordSale(ctx, 1, RecordSaleRequest{
			Items:         []SaleItemInput{{ProductID: productID, Quantity: d("1")}},
			PaymentMethod: "CASH",
			CouponCode:    "OLD",
		})
		assert.ErrorIs(t, err, shared.ErrInvalidCoupon)
	})

	t.Run("insufficient stock writes nothing", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := f.seedProduct(t, "Limited Print", "25.00", "1")

		_, err := f.service.RecordSale(ctx, 1, RecordSaleRequest{
			Items:         []SaleItemInput{{ProductID: productID, Quantity: d("2")}},
			PaymentMethod: "CARD",
		})
		require.ErrorIs(t, err, shared.ErrInsufficientStock)

		assert.True(t, f.stockOf(t, productID).Equal(d("1")))
		recorded, err := f.sales.Find(ctx, sales.Filter{})
		require.NoError(t, err)
		assert.Empty(t, recorded)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := f.seedProduct(t, "Water", "1.00", "10")

		_, err := f.service.RecordSale(ctx, 1, RecordSaleRequest{
			Items:         []SaleItemInput{{ProductID: productID, Quantity: d("0")}},
			PaymentMethod: "CASH",
		})
		assert.Error(t, err)
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.service.RecordSale(ctx, 1, RecordSaleRequest{
			Items:         []SaleItemInput{{ProductID: uuid.New(), Quantity: d("1")}},
			PaymentMethod: "CASH",
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCouponServiceCreate(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	service := NewCouponService(f.coupons)

	t.Run("rejects both discounts set", func(t *testing.T) {
		pct := d("10")
		amt := d("5")
		_, err := service.Create(ctx, 1, CreateCouponRequest{
			Code:            "BOTH",
			DiscountPercent: &pct,
			DiscountAmount:  &amt,
			ValidFrom:       time.Now(),
		})
		assert.Error(t, err)
	})

	t.Run("rejects neither discount set", func(t *testing.T) {
		_, err := service.Create(ctx, 1, CreateCouponRequest{
			Code:      "NEITHER",
			ValidFrom: time.Now(),
		})
		assert.Error(t, err)
	})

	t.Run("creates amount coupon with window", func(t *testing.T) {
		amt := d("2.50")
		until := time.Now().Add(24 * time.Hour)
		resp, err := service.Create(ctx, 1, CreateCouponRequest{
			Code:           "WELCOME",
			DiscountAmount: &amt,
			ValidFrom:      time.Now().Add(-time.Hour),
			ValidUntil:     &until,
		})
		require.NoError(t, err)
		assert.True(t, resp.Valid)
		require.NotNil(t, resp.DiscountAmount)
		assert.Nil(t, resp.DiscountPercent)
	})
}
