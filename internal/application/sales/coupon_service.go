package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storepos/backend/internal/domain/sales"
	"github.com/storepos/backend/internal/domain/shared"
)

// CreateCouponRequest is the payload for issuing a coupon. Exactly one
// of DiscountPercent and DiscountAmount must be set.
type CreateCouponRequest struct {
	Code                string           `json:"code" binding:"required,min=1,max=50"`
	Description         string           `json:"description" binding:"max=500"`
	Category            string           `json:"category" binding:"max=100"`
	DiscountPercent     *decimal.Decimal `json:"discountPercent" binding:"omitempty,gt=0,lte=100"`
	DiscountAmount      *decimal.Decimal `json:"discountAmount" binding:"omitempty,gt=0"`
	ApplicableProductID *uuid.UUID       `json:"applicableProductId"`
	ValidFrom           time.Time        `json:"validFrom" binding:"required"`
	ValidUntil          *time.Time       `json:"validUntil"`
}

// CouponResponse is the coupon representation returned to callers
type CouponResponse struct {
	ID                  string           `json:"id"`
	Code                string           `json:"code"`
	Description         string           `json:"description"`
	Category            string           `json:"category"`
	DiscountPercent     *decimal.Decimal `json:"discountPercent,omitempty"`
	DiscountAmount      *decimal.Decimal `json:"discountAmount,omitempty"`
	ApplicableProductID *string          `json:"applicableProductId,omitempty"`
	ValidFrom           int64            `json:"validFrom"`
	ValidUntil          *int64           `json:"validUntil,omitempty"`
	Valid               bool             `json:"valid"`
}

func toCouponResponse(c *sales.Coupon) *CouponResponse {
	resp := &CouponResponse{
		ID:              c.ID.String(),
		Code:            c.Code,
		Description:     c.Description,
		Category:        c.Category,
		DiscountPercent: c.DiscountPercent,
		DiscountAmount:  c.DiscountAmount,
		ValidFrom:       c.ValidFrom.Unix(),
		Valid:           c.IsValidNow(),
	}
	if c.ApplicableProductID != nil {
		id := c.ApplicableProductID.String()
		resp.ApplicableProductID = &id
	}
	if c.ValidUntil != nil {
		until := c.ValidUntil.Unix()
		resp.ValidUntil = &until
	}
	return resp
}

// CouponService manages coupons in the shared registry database
type CouponService struct {
	coupons sales.CouponRepository
}

// NewCouponService creates a new CouponService
func NewCouponService(coupons sales.CouponRepository) *CouponService {
	return &CouponService{coupons: coupons}
}

// Create issues a coupon for a store
func (s *CouponService) Create(ctx context.Context, storeID uint64, req CreateCouponRequest) (*CouponResponse, error) {
	if (req.DiscountPercent == nil) == (req.DiscountAmount == nil) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT",
			"Exactly one of discountPercent and discountAmount must be set")
	}

	var (
		coupon *sales.Coupon
		err    error
	)
	if req.DiscountPercent != nil {
		coupon, err = sales.NewPercentCoupon(storeID, req.Code, *req.DiscountPercent, req.ValidFrom)
	} else {
		coupon, err = sales.NewAmountCoupon(storeID, req.Code, *req.DiscountAmount, req.ValidFrom)
	}
	if err != nil {
		return nil, err
	}

	coupon.Description = req.Description
	coupon.Category = req.Category
	coupon.ApplicableProductID = req.ApplicableProductID
	if req.ValidUntil != nil {
		if err := coupon.ExpireAt(*req.ValidUntil); err != nil {
			return nil, err
		}
	}

	if err := s.coupons.Add(ctx, coupon); err != nil {
		return nil, err
	}
	return toCouponResponse(coupon), nil
}

// Get returns one coupon by code
func (s *CouponService) Get(ctx context.Context, storeID uint64, code string) (*CouponResponse, error) {
	coupon, err := s.coupons.FindByCode(ctx, storeID, code)
	if err != nil {
		return nil, err
	}
	return toCouponResponse(coupon), nil
}

// List returns every coupon of a store, newest validity first
func (s *CouponService) List(ctx context.Context, storeID uint64) ([]CouponResponse, error) {
	coupons, err := s.coupons.FindAll(ctx, storeID)
	if err != nil {
		return nil, err
	}
	result := make([]CouponResponse, 0, len(coupons))
	for i := range coupons {
		result = append(result, *toCouponResponse(&coupons[i]))
	}
	return result, nil
}

// Expire ends a coupon's validity at the given instant
func (s *CouponService) Expire(ctx context.Context, storeID uint64, code string, until time.Time) (*CouponResponse, error) {
	coupon, err := s.coupons.FindByCode(ctx, storeID, code)
	if err != nil {
		return nil, err
	}
	if err := coupon.ExpireAt(until); err != nil {
		return nil, err
	}
	updated, err := s.coupons.Update(ctx, coupon)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, shared.ErrNotFound
	}
	return toCouponResponse(coupon), nil
}

// Delete removes a coupon; reports whether it existed
func (s *CouponService) Delete(ctx context.Context, storeID uint64, id uuid.UUID) (bool, error) {
	return s.coupons.Delete(ctx, storeID, id)
}
