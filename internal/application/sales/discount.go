package sales

import (
	"github.com/shopspring/decimal"

	"github.com/storepos/backend/internal/domain/sales"
)

// DiscountStrategy computes the discount a checkout grants over its
// line items. Implementations never return a negative amount.
type DiscountStrategy interface {
	Apply(items []sales.SaleLineItem) decimal.Decimal
}

// NoDiscount grants nothing
type NoDiscount struct{}

// Apply returns zero
func (NoDiscount) Apply([]sales.SaleLineItem) decimal.Decimal {
	return decimal.Zero
}

// CouponDiscount applies a coupon to a checkout. Percent coupons take
// a share of the eligible amount; amount coupons are capped at the
// eligible amount so a sale never goes negative. A coupon with an
// applicable product discounts only that product's line items.
type CouponDiscount struct {
	Coupon *sales.Coupon
}

// Apply computes the coupon's discount over the line items
func (d CouponDiscount) Apply(items []sales.SaleLineItem) decimal.Decimal {
	value := d.Coupon.DiscountValue()
	if value == nil {
		return decimal.Zero
	}

	eligible := decimal.Zero
	for _, item := range items {
		if d.Coupon.ApplicableProductID != nil && item.ProductID != *d.Coupon.ApplicableProductID {
			continue
		}
		eligible = eligible.Add(item.Amount())
	}

	if d.Coupon.IsPercent() {
		return eligible.Mul(*value).Div(decimal.NewFromInt(100))
	}
	if value.GreaterThan(eligible) {
		return eligible
	}
	return *value
}

// StrategyFor returns the discount strategy for an optional coupon
func StrategyFor(coupon *sales.Coupon) DiscountStrategy {
	if coupon == nil {
		return NoDiscount{}
	}
	return CouponDiscount{Coupon: coupon}
}
