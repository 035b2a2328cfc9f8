package persistence

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storepos/backend/internal/domain/partner"
	"github.com/storepos/backend/internal/domain/shared"
)

// mustScope asserts that a query against a shared table carries a
// store scope. Reaching this with a zero store ID is a programming
// error, not a runtime condition; fail loudly instead of silently
// filtering nothing.
func mustScope(storeID uint64) {
	if storeID == 0 {
		panic(shared.ErrScopeViolation)
	}
}

// GormSupplierRepository implements partner.Repository against the
// shared registry database. Suppliers are keyed by store_id and every
// query carries that predicate.
type GormSupplierRepository struct {
	db *gorm.DB

	migrateOnce sync.Once
	migrateErr  error
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

func (r *GormSupplierRepository) session(ctx context.Context) (*gorm.DB, error) {
	r.migrateOnce.Do(func() {
		r.migrateErr = r.db.AutoMigrate(&partner.Supplier{})
	})
	if r.migrateErr != nil {
		return nil, r.migrateErr
	}
	return r.db.WithContext(ctx), nil
}

// FindByID finds a supplier by ID within a store
func (r *GormSupplierRepository) FindByID(ctx context.Context, storeID uint64, id uuid.UUID) (*partner.Supplier, error) {
	mustScope(storeID)
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var supplier partner.Supplier
	if err := db.Where("store_id = ? AND id = ?", storeID, id).First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAll finds all suppliers of a store
func (r *GormSupplierRepository) FindAll(ctx context.Context, storeID uint64) ([]partner.Supplier, error) {
	mustScope(storeID)
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var suppliers []partner.Supplier
	if err := db.Where("store_id = ?", storeID).
		Order("name ASC").
		Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Add inserts a new supplier
func (r *GormSupplierRepository) Add(ctx context.Context, supplier *partner.Supplier) error {
	mustScope(supplier.StoreID)
	db, err := r.session(ctx)
	if err != nil {
		return err
	}
	return db.Create(supplier).Error
}

// Update writes the supplier's columns; reports whether the row
// existed within the store
func (r *GormSupplierRepository) Update(ctx context.Context, supplier *partner.Supplier) (bool, error) {
	mustScope(supplier.StoreID)
	db, err := r.session(ctx)
	if err != nil {
		return false, err
	}
	result := db.Model(&partner.Supplier{}).
		Where("store_id = ? AND id = ?", supplier.StoreID, supplier.ID).
		Select("*").Omit("id", "store_id", "created_at").
		Updates(supplier)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a supplier within a store; reports whether it existed
func (r *GormSupplierRepository) Delete(ctx context.Context, storeID uint64, id uuid.UUID) (bool, error) {
	mustScope(storeID)
	db, err := r.session(ctx)
	if err != nil {
		return false, err
	}
	result := db.Delete(&partner.Supplier{}, "store_id = ? AND id = ?", storeID, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormSupplierRepository implements partner.Repository
var _ partner.Repository = (*GormSupplierRepository)(nil)

// GormSupplyRepository implements partner.SupplyRepository inside one
// store's database (link table, physically isolated per store).
type GormSupplyRepository struct {
	*GormRepository[partner.ProductSupply]
}

// NewGormSupplyRepository creates a supply-link repository bound to a
// store handle
func NewGormSupplyRepository(db *gorm.DB) *GormSupplyRepository {
	return &GormSupplyRepository{
		GormRepository: NewGormRepository[partner.ProductSupply](db),
	}
}

// Link records that a supplier supplies a product. Linking twice is a
// no-op, resolved by the engine's conflict clause rather than by
// matching driver errors.
func (r *GormSupplyRepository) Link(ctx context.Context, productID, supplierID uuid.UUID) error {
	db, err := r.session(ctx)
	if err != nil {
		return err
	}
	link := partner.ProductSupply{ProductID: productID, SupplierID: supplierID}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// Unlink removes a supply link; reports whether it existed
func (r *GormSupplyRepository) Unlink(ctx context.Context, productID, supplierID uuid.UUID) (bool, error) {
	db, err := r.session(ctx)
	if err != nil {
		return false, err
	}
	result := db.Delete(&partner.ProductSupply{}, "product_id = ? AND supplier_id = ?", productID, supplierID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SuppliersOf lists the supplier IDs linked to a product
func (r *GormSupplyRepository) SuppliersOf(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := db.Model(&partner.ProductSupply{}).
		Where("product_id = ?", productID).
		Pluck("supplier_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Ensure GormSupplyRepository implements partner.SupplyRepository
var _ partner.SupplyRepository = (*GormSupplyRepository)(nil)
