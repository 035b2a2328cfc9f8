// Package sales implements checkout recording, sale queries and coupon
// management.
package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storepos/backend/internal/domain/sales"
	"github.com/storepos/backend/internal/domain/shared"
	"github.com/storepos/backend/internal/infrastructure/cache"
	"github.com/storepos/backend/internal/infrastructure/logger"
	"github.com/storepos/backend/internal/infrastructure/persistence"
)

// SaleItemInput is one product position of a checkout
type SaleItemInput struct {
	ProductID uuid.UUID       `json:"productId" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,gt=0"`
}

// RecordSaleRequest is the payload for recording a checkout
type RecordSaleRequest struct {
	Items         []SaleItemInput `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string          `json:"paymentMethod" binding:"required,oneof=CARD CASH"`
	CouponCode    string          `json:"couponCode"`
}

// SaleItemResponse is one recorded line item
type SaleItemResponse struct {
	ProductID string          `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Amount    decimal.Decimal `json:"amount"`
}

// SaleResponse is the sale representation returned to callers
type SaleResponse struct {
	ID            string             `json:"id"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"paymentMethod"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     int64              `json:"createdAt"`
}

func toSaleResponse(s *sales.Sale) *SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount(),
		})
	}
	return &SaleResponse{
		ID:            s.ID.String(),
		Subtotal:      s.Subtotal,
		Discount:      s.Subtotal.Sub(s.Total),
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		Items:         items,
		CreatedAt:     s.CreatedAt.Unix(),
	}
}

// SalesService records and queries sales against per-store databases
type SalesService struct {
	tenants *persistence.TenantReposProvider
	coupons sales.CouponRepository
	reports *cache.ReportCache
	logger  *zap.Logger
}

// NewSalesService creates a new SalesService. The report cache is
// optional; when present, recorded sales invalidate the store's cached
// reports.
func NewSalesService(
	tenants *persistence.TenantReposProvider,
	coupons sales.CouponRepository,
	reports *cache.ReportCache,
	log *zap.Logger,
) *SalesService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SalesService{
		tenants: tenants,
		coupons: coupons,
		reports: reports,
		logger:  log,
	}
}

// RecordSale records a checkout: it snapshots each product's current
// price into the line items, applies the coupon discount if any, and
// persists the sale together with the stock decrements in one
// transaction. If any product lacks stock nothing is written.
func (s *SalesService) RecordSale(ctx context.Context, storeID uint64, req RecordSaleRequest) (*SaleResponse, error) {
	repos, err := s.tenants.For(ctx, storeID)
	if err != nil {
		return nil, err
	}

	method := sales.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	var coupon *sales.Coupon
	if req.CouponCode != "" {
		coupon, err = s.resolveCoupon(ctx, storeID, req.CouponCode)
		if err != nil {
			return nil, err
		}
	}

	items := make([]sales.SaleLineItem, 0, len(req.Items))
	decrements := make(map[uuid.UUID]decimal.Decimal, len(req.Items))
	for _, input := range req.Items {
		if !input.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		product, err := repos.Products.FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, sales.SaleLineItem{
			ProductID: product.ID,
			Quantity:  input.Quantity,
			UnitPrice: product.Price,
		})
		decrements[product.ID] = decrements[product.ID].Add(input.Quantity)
	}

	discount := StrategyFor(coupon).Apply(items)
	sale, err := sales.NewSale(items, method, discount)
	if err != nil {
		return nil, err
	}

	if err := repos.Sales.RecordSale(ctx, sale, decrements); err != nil {
		return nil, err
	}

	s.logger.Info("sale recorded",
		logger.StoreField(storeID),
		zap.String("sale_id", sale.ID.String()),
		zap.String("total", sale.Total.String()),
		zap.Int("items", len(sale.Items)))

	if s.reports != nil {
		if err := s.reports.InvalidateStore(ctx, storeID); err != nil {
			s.logger.Warn("report cache invalidation failed",
				logger.StoreField(storeID), zap.Error(err))
		}
	}
	return toSaleResponse(sale), nil
}

func (s *SalesService) resolveCoupon(ctx context.Context, storeID uint64, code string) (*sales.Coupon, error) {
	coupon, err := s.coupons.FindByCode(ctx, storeID, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCoupon
		}
		return nil, err
	}
	if !coupon.IsValidNow() || coupon.DiscountValue() == nil {
		return nil, shared.ErrInvalidCoupon
	}
	return coupon, nil
}

// Get returns one sale with its line items
func (s *SalesService) Get(ctx context.Context, storeID uint64, saleID uuid.UUID) (*SaleResponse, error) {
	repos, err := s.tenants.For(ctx, storeID)
	if err != nil {
		return nil, err
	}
	sale, err := repos.Sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// List returns the sales matching the filter, oldest first
func (s *SalesService) List(ctx context.Context, storeID uint64, filter sales.Filter) ([]SaleResponse, error) {
	repos, err := s.tenants.For(ctx, storeID)
	if err != nil {
		return nil, err
	}
	result, err := repos.Sales.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]SaleResponse, 0, len(result))
	for i := range result {
		responses = append(responses, *toSaleResponse(&result[i]))
	}
	return responses, nil
}
