package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storepos/backend/internal/domain/sales"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func items(amounts ...[2]string) []sales.SaleLineItem {
	result := make([]sales.SaleLineItem, 0, len(amounts))
	for _, a := range amounts {
		result = append(result, sales.SaleLineItem{
			ProductID: uuid.New(),
			UnitPrice: d(a[0]),
			Quantity:  d(a[1]),
		})
	}
	return result
}

func TestNoDiscount(t *testing.T) {
	assert.True(t, NoDiscount{}.Apply(items([2]string{"10", "2"})).IsZero())
	assert.True(t, StrategyFor(nil).Apply(nil).IsZero())
}

func TestCouponDiscount_Percent(t *testing.T) {
	coupon, err := sales.NewPercentCoupon(1, "P10", d("10"), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	discount := StrategyFor(coupon).Apply(items([2]string{"10.00", "2"}, [2]string{"5.00", "1"}))
	assert.True(t, discount.Equal(d("2.50")), "10%% of 25.00, got %s", discount)
}

func TestCouponDiscount_AmountCappedAtSubtotal(t *testing.T) {
	coupon, err := sales.NewAmountCoupon(1, "A50", d("50"), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	discount := StrategyFor(coupon).Apply(items([2]string{"10.00", "2"}))
	assert.True(t, discount.Equal(d("20.00")), "capped at subtotal, got %s", discount)
}

func TestCouponDiscount_ProductSpecific(t *testing.T) {
	targetID := uuid.New()
	coupon, err := sales.NewPercentCoupon(1, "TARGET50", d("50"), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	coupon.ApplicableProductID = &targetID

	lineItems := []sales.SaleLineItem{
		{ProductID: targetID, UnitPrice: d("8.00"), Quantity: d("1")},
		{ProductID: uuid.New(), UnitPrice: d("100.00"), Quantity: d("1")},
	}
	discount := StrategyFor(coupon).Apply(lineItems)
	assert.True(t, discount.Equal(d("4.00")), "only the eligible item discounts, got %s", discount)
}

func TestCouponDiscount_BrokenInvariantYieldsZero(t *testing.T) {
	pct := d("10")
	amt := d("5")
	broken := &sales.Coupon{DiscountPercent: &pct, DiscountAmount: &amt}
	assert.True(t, CouponDiscount{Coupon: broken}.Apply(items([2]string{"10", "1"})).IsZero())
}
