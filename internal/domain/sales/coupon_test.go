package sales

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storepos/backend/internal/domain/shared"
)

func TestNewPercentCoupon(t *testing.T) {
	validFrom := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid percent", func(t *testing.T) {
		coupon, err := NewPercentCoupon(7, "SUMMER10", decimal.NewFromInt(10), validFrom)
		require.NoError(t, err)
		assert.True(t, coupon.IsPercent())
		assert.NotNil(t, coupon.DiscountPercent)
		assert.Nil(t, coupon.DiscountAmount)
	})

	t.Run("rejects percent above 100", func(t *testing.T) {
		_, err := NewPercentCoupon(7, "TOOBIG", decimal.NewFromInt(101), validFrom)
		assert.Error(t, err)
	})

	t.Run("rejects negative percent", func(t *testing.T) {
		_, err := NewPercentCoupon(7, "NEG", decimal.NewFromInt(-5), validFrom)
		assert.Error(t, err)
	})

	t.Run("rejects unscoped coupon", func(t *testing.T) {
		_, err := NewPercentCoupon(0, "NOSTORE", decimal.NewFromInt(10), validFrom)
		assert.ErrorIs(t, err, shared.ErrScopeViolation)
	})
}

func TestCouponDiscountValue(t *testing.T) {
	validFrom := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("percent coupon exposes percent", func(t *testing.T) {
		coupon, err := NewPercentCoupon(7, "P10", decimal.NewFromInt(10), validFrom)
		require.NoError(t, err)
		require.NotNil(t, coupon.DiscountValue())
		assert.True(t, coupon.DiscountValue().Equal(decimal.NewFromInt(10)))
	})

	t.Run("amount coupon exposes amount", func(t *testing.T) {
		coupon, err := NewAmountCoupon(7, "A5", decimal.NewFromInt(5), validFrom)
		require.NoError(t, err)
		require.NotNil(t, coupon.DiscountValue())
		assert.False(t, coupon.IsPercent())
	})

	t.Run("both fields set yields nil", func(t *testing.T) {
		pct := decimal.NewFromInt(10)
		amt := decimal.NewFromInt(5)
		broken := &Coupon{DiscountPercent: &pct, DiscountAmount: &amt}
		assert.Nil(t, broken.DiscountValue())
		assert.False(t, broken.IsPercent())
	})

	t.Run("neither field set yields nil", func(t *testing.T) {
		assert.Nil(t, (&Coupon{}).DiscountValue())
	})
}

func TestCouponValidityWindow(t *testing.T) {
	validFrom := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	coupon, err := NewAmountCoupon(7, "WINDOW", decimal.NewFromInt(2), validFrom)
	require.NoError(t, err)

	t.Run("open-ended after validFrom", func(t *testing.T) {
		assert.False(t, coupon.IsValidAt(validFrom.Add(-time.Second)))
		assert.True(t, coupon.IsValidAt(validFrom))
		assert.True(t, coupon.IsValidAt(validFrom.AddDate(10, 0, 0)))
	})

	t.Run("bounded window, boundaries inclusive", func(t *testing.T) {
		until := validFrom.AddDate(0, 0, 7)
		require.NoError(t, coupon.ExpireAt(until))
		assert.True(t, coupon.IsValidAt(validFrom))
		assert.True(t, coupon.IsValidAt(until))
		assert.False(t, coupon.IsValidAt(until.Add(time.Second)))
	})

	t.Run("cannot expire before validFrom", func(t *testing.T) {
		assert.Error(t, coupon.ExpireAt(validFrom.Add(-time.Hour)))
	})
}
