package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storepos/backend/internal/domain/sales"
	"github.com/storepos/backend/internal/domain/shared"
)

type saleFixture struct {
	db       *gorm.DB
	products *GormProductRepository
	sales    *GormSaleRepository
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	db := newMemoryHandle(t)
	return &saleFixture{
		db:       db,
		products: NewGormProductRepository(db),
		sales:    NewGormSaleRepository(db),
	}
}

func (f *saleFixture) seedProduct(t *testing.T, name, price, stock string) uuid.UUID {
	t.Helper()
	product := newProduct(t, name, "", price)
	require.NoError(t, product.AdjustStock(d(stock)))
	require.NoError(t, f.products.Add(context.Background(), product))
	return product.ID
}

func (f *saleFixture) stockOf(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	product, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return product.Stock
}

func newRecordedSale(t *testing.T, productID uuid.UUID, qty, price string, method sales.PaymentMethod) *sales.Sale {
	t.Helper()
	sale, err := sales.NewSale([]sales.SaleLineItem{{
		ProductID: productID,
		Quantity:  d(qty),
		UnitPrice: d(price),
	}}, method, decimal.Zero)
	require.NoError(t, err)
	return sale
}

func TestSaleRepositoryRecordSale(t *testing.T) {
	ctx := context.Background()

	t.Run("persists sale and decrements stock atomically", func(t *testing.T) {
		f := newSaleFixture(t)
		productID := f.seedProduct(t, "Croissant", "1.80", "10")

		sale := newRecordedSale(t, productID, "4", "1.80", sales.PaymentCash)
		require.NoError(t, f.sales.RecordSale(ctx, sale, map[uuid.UUID]decimal.Decimal{
			productID: d("4"),
		}))

		assert.True(t, f.stockOf(t, productID).Equal(d("6")))

		found, err := f.sales.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.True(t, found.Total.Equal(d("7.20")))
	})

	t.Run("insufficient stock rolls everything back", func(t *testing.T) {
		f := newSaleFixture(t)
		okID := f.seedProduct(t, "Juice", "2.50", "100")
		lowID := f.seedProduct(t, "Rare Truffle", "90.00", "1")

		sale, err := sales.NewSale([]sales.SaleLineItem{
			{ProductID: okID, Quantity: d("2"), UnitPrice: d("2.50")},
			{ProductID: lowID, Quantity: d("3"), UnitPrice: d("90.00")},
		}, sales.PaymentCard, decimal.Zero)
		require.NoError(t, err)

		err = f.sales.RecordSale(ctx, sale, map[uuid.UUID]decimal.Decimal{
			okID:  d("2"),
			lowID: d("3"),
		})
		require.ErrorIs(t, err, shared.ErrInsufficientStock)

		// Nothing committed: stock untouched, no sale row.
		assert.True(t, f.stockOf(t, okID).Equal(d("100")))
		assert.True(t, f.stockOf(t, lowID).Equal(d("1")))
		_, err = f.sales.FindByID(ctx, sale.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("decrements run in a fixed product order", func(t *testing.T) {
		decrements := map[uuid.UUID]decimal.Decimal{
			uuid.MustParse("cccccccc-0000-0000-0000-000000000000"): d("1"),
			uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000"): d("1"),
			uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000"): d("1"),
		}
		got := sortedDecrementIDs(decrements)
		require.Len(t, got, 3)
		assert.Equal(t, "aaaaaaaa-0000-0000-0000-000000000000", got[0].String())
		assert.Equal(t, "bbbbbbbb-0000-0000-0000-000000000000", got[1].String())
		assert.Equal(t, "cccccccc-0000-0000-0000-000000000000", got[2].String())
	})

	t.Run("draining stock to zero succeeds", func(t *testing.T) {
		f := newSaleFixture(t)
		productID := f.seedProduct(t, "Last Slice", "3.00", "2")

		sale := newRecordedSale(t, productID, "2", "3.00", sales.PaymentCash)
		require.NoError(t, f.sales.RecordSale(ctx, sale, map[uuid.UUID]decimal.Decimal{
			productID: d("2"),
		}))
		assert.True(t, f.stockOf(t, productID).IsZero())
	})
}

func TestSaleRepositoryFind(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t)
	aID := f.seedProduct(t, "Americano", "2.00", "100")
	bID := f.seedProduct(t, "Bagel", "1.50", "100")

	record := func(productID uuid.UUID, qty, price string, method sales.PaymentMethod) *sales.Sale {
		sale := newRecordedSale(t, productID, qty, price, method)
		require.NoError(t, f.sales.RecordSale(ctx, sale, map[uuid.UUID]decimal.Decimal{
			productID: d(qty),
		}))
		return sale
	}

	record(aID, "1", "2.00", sales.PaymentCash)
	record(aID, "2", "2.00", sales.PaymentCard)
	record(bID, "1", "1.50", sales.PaymentCard)

	t.Run("no filter returns everything oldest first", func(t *testing.T) {
		found, err := f.sales.Find(ctx, sales.Filter{})
		require.NoError(t, err)
		assert.Len(t, found, 3)
		for i := range found {
			assert.NotEmpty(t, found[i].Items, "line items must be preloaded")
		}
	})

	t.Run("payment method filter", func(t *testing.T) {
		card := sales.PaymentCard
		found, err := f.sales.Find(ctx, sales.Filter{PaymentMethod: &card})
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("product filter matches sales containing the product", func(t *testing.T) {
		found, err := f.sales.Find(ctx, sales.Filter{ProductID: &bID})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, bID, found[0].Items[0].ProductID)
	})

	t.Run("future window matches nothing", func(t *testing.T) {
		from := time.Now().Add(time.Hour)
		found, err := f.sales.Find(ctx, sales.Filter{From: &from})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("recent returns newest first and respects limit", func(t *testing.T) {
		found, err := f.sales.FindRecent(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, found, 2)

		none, err := f.sales.FindRecent(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
