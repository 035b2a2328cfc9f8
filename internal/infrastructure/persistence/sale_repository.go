package persistence

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storepos/backend/internal/domain/catalog"
	"github.com/storepos/backend/internal/domain/sales"
	"github.com/storepos/backend/internal/domain/shared"
)

// GormSaleRepository implements sales.Repository against one store's
// database. Sales are append-only; there is no update path.
type GormSaleRepository struct {
	*GormRepository[sales.Sale]
}

// NewGormSaleRepository creates a sale repository bound to a store handle
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{
		GormRepository: NewGormRepository[sales.Sale](db, &sales.SaleLineItem{}),
	}
}

// Create persists a sale together with its line items in one
// transaction; either everything commits or nothing does.
func (r *GormSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	if err := r.ensureSchema(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(sale).Error
	})
}

// CreateTx persists a sale inside an already-open transaction so the
// caller can combine it with other steps (stock decrements).
func (r *GormSaleRepository) CreateTx(tx *gorm.DB, sale *sales.Sale) error {
	if err := r.ensureSchema(); err != nil {
		return err
	}
	return tx.Create(sale).Error
}

// RecordSale persists a sale with its line items and applies the
// stock decrements in one atomic transaction. A decrement that would
// drive a product's stock negative aborts the whole transaction with
// shared.ErrInsufficientStock.
func (r *GormSaleRepository) RecordSale(ctx context.Context, sale *sales.Sale, decrements map[uuid.UUID]decimal.Decimal) error {
	if err := r.ensureSchema(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return err
		}
		for _, productID := range sortedDecrementIDs(decrements) {
			qty := decrements[productID]
			result := tx.Model(&catalog.Product{}).
				Where("id = ? AND stock >= ?", productID, qty).
				UpdateColumn("stock", gorm.Expr("stock - ?", qty))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrInsufficientStock
			}
		}
		return nil
	})
}

// sortedDecrementIDs fixes the row-lock order across concurrent
// checkouts that share products.
func sortedDecrementIDs(decrements map[uuid.UUID]decimal.Decimal) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(decrements))
	for id := range decrements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

// FindByID finds a sale with its line items preloaded
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var sale sales.Sale
	if err := db.Preload("Items").First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// Find returns the sales matching the filter, line items preloaded,
// ordered by creation time ascending. The query takes no write locks;
// post-processing happens in memory after the rows are fetched.
func (r *GormSaleRepository) Find(ctx context.Context, filter sales.Filter) ([]sales.Sale, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&sales.Sale{}).Preload("Items")
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *filter.PaymentMethod)
	}
	if filter.ProductID != nil {
		query = query.Where(
			"id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&sales.SaleLineItem{}).
				Select("sale_id").
				Where("product_id = ?", *filter.ProductID),
		)
	}

	var result []sales.Sale
	if err := query.Order("created_at ASC").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindRecent returns the most recent sales, newest first
func (r *GormSaleRepository) FindRecent(ctx context.Context, limit int) ([]sales.Sale, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []sales.Sale{}, nil
	}
	var result []sales.Sale
	if err := db.Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Ensure GormSaleRepository implements sales.Repository
var _ sales.Repository = (*GormSaleRepository)(nil)
