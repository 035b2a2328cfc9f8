package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storepos/backend/internal/domain/catalog"
	"github.com/storepos/backend/internal/domain/shared"
)

// productDetailColumns are the columns an edit may write. Stock is
// absent: it moves only through the guarded relative expressions in
// AdjustStock and RecordSale.
var productDetailColumns = []string{
	"name", "description", "price", "wholesale_price", "retail_price",
	"min_allow_stock", "updated_at",
}

// GormProductRepository implements catalog.Repository against one
// store's database
type GormProductRepository struct {
	*GormRepository[catalog.Product]
}

// NewGormProductRepository creates a product repository bound to a
// store handle
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{
		GormRepository: NewGormRepository[catalog.Product](db),
	}
}

// FindByBarcode finds a product by its barcode, the alternate key
// unique within a store
func (r *GormProductRepository) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	if barcode == "" {
		return nil, shared.NewDomainError("INVALID_BARCODE", "Barcode cannot be empty")
	}
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var product catalog.Product
	if err := db.First(&product, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// UpdateDetails writes the product's editable columns and reports
// whether the row existed. The stock column is never written back, so
// an edit racing a checkout cannot resurrect decremented stock.
func (r *GormProductRepository) UpdateDetails(ctx context.Context, product *catalog.Product) (bool, error) {
	db, err := r.session(ctx)
	if err != nil {
		return false, err
	}
	result := db.Model(&catalog.Product{}).
		Where("id = ?", product.ID).
		Select(productDetailColumns).
		Updates(product)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AdjustStock applies a signed delta through the same guarded relative
// expression checkout uses; the stored stock never goes negative.
func (r *GormProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	db, err := r.session(ctx)
	if err != nil {
		return err
	}
	result := db.Model(&catalog.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	// Zero rows is either a missing product or a shortfall.
	var count int64
	if err := db.Model(&catalog.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrInsufficientStock
}

// Ensure GormProductRepository implements catalog.Repository
var _ catalog.Repository = (*GormProductRepository)(nil)
