package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storepos/backend/internal/domain/shared"
)

// Coupon is a discount voucher scoped to one store. Exactly one of
// DiscountPercent and DiscountAmount is set; never both, never neither.
// Coupons live in the shared registry database keyed by store_id.
type Coupon struct {
	shared.StoreScopedEntity
	Code                string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_coupon_store_code,priority:2"`
	Description         string           `gorm:"type:varchar(500)"`
	Category            string           `gorm:"type:varchar(100)"`
	DiscountPercent     *decimal.Decimal `gorm:"type:decimal(8,4)"`
	DiscountAmount      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ApplicableProductID *uuid.UUID       `gorm:"type:uuid"`
	ValidFrom           time.Time        `gorm:"not null"`
	ValidUntil          *time.Time
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// NewPercentCoupon creates a coupon that discounts a percentage of the subtotal
func NewPercentCoupon(storeID uint64, code string, percent decimal.Decimal, validFrom time.Time) (*Coupon, error) {
	if err := validateCoupon(storeID, code); err != nil {
		return nil, err
	}
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	return &Coupon{
		StoreScopedEntity: shared.NewStoreScopedEntity(storeID),
		Code:              code,
		DiscountPercent:   &percent,
		ValidFrom:         validFrom,
	}, nil
}

// NewAmountCoupon creates a coupon that discounts a fixed amount
func NewAmountCoupon(storeID uint64, code string, amount decimal.Decimal, validFrom time.Time) (*Coupon, error) {
	if err := validateCoupon(storeID, code); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	}
	return &Coupon{
		StoreScopedEntity: shared.NewStoreScopedEntity(storeID),
		Code:              code,
		DiscountAmount:    &amount,
		ValidFrom:         validFrom,
	}, nil
}

func validateCoupon(storeID uint64, code string) error {
	if storeID == 0 {
		return shared.ErrScopeViolation
	}
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Coupon code cannot be empty")
	}
	return nil
}

// ExpireAt sets the end of the coupon's validity window
func (c *Coupon) ExpireAt(until time.Time) error {
	if until.Before(c.ValidFrom) {
		return shared.NewDomainError("INVALID_VALIDITY", "Coupon cannot expire before it becomes valid")
	}
	c.ValidUntil = &until
	return nil
}

// IsValidAt reports whether the coupon is redeemable at the reference
// instant: t >= validFrom and, when set, t <= validUntil.
func (c *Coupon) IsValidAt(t time.Time) bool {
	if t.Before(c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && t.After(*c.ValidUntil) {
		return false
	}
	return true
}

// IsValidNow reports validity at the current instant
func (c *Coupon) IsValidNow() bool {
	return c.IsValidAt(time.Now())
}

// DiscountValue returns whichever discount field is set. A record
// violating the exactly-one invariant yields nil; callers treat that
// as no discount rather than guessing.
func (c *Coupon) DiscountValue() *decimal.Decimal {
	switch {
	case c.DiscountPercent != nil && c.DiscountAmount != nil:
		return nil
	case c.DiscountPercent != nil:
		return c.DiscountPercent
	case c.DiscountAmount != nil:
		return c.DiscountAmount
	default:
		return nil
	}
}

// IsPercent reports whether the coupon discounts by percentage
func (c *Coupon) IsPercent() bool {
	return c.DiscountPercent != nil && c.DiscountAmount == nil
}

// CouponRepository persists coupons in the shared registry database
type CouponRepository interface {
	FindByCode(ctx context.Context, storeID uint64, code string) (*Coupon, error)
	FindAll(ctx context.Context, storeID uint64) ([]Coupon, error)
	Add(ctx context.Context, coupon *Coupon) error
	Update(ctx context.Context, coupon *Coupon) (bool, error)
	Delete(ctx context.Context, storeID uint64, id uuid.UUID) (bool, error)
}
