package persistence

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storepos/backend/internal/domain/sales"
	"github.com/storepos/backend/internal/domain/shared"
)

// GormCouponRepository implements sales.CouponRepository against the
// shared registry database. Coupons are keyed by store_id and every
// query carries that predicate.
type GormCouponRepository struct {
	db *gorm.DB

	migrateOnce sync.Once
	migrateErr  error
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

func (r *GormCouponRepository) session(ctx context.Context) (*gorm.DB, error) {
	r.migrateOnce.Do(func() {
		r.migrateErr = r.db.AutoMigrate(&sales.Coupon{})
	})
	if r.migrateErr != nil {
		return nil, r.migrateErr
	}
	return r.db.WithContext(ctx), nil
}

// FindByCode finds a coupon by its code within a store
func (r *GormCouponRepository) FindByCode(ctx context.Context, storeID uint64, code string) (*sales.Coupon, error) {
	mustScope(storeID)
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var coupon sales.Coupon
	if err := db.Where("store_id = ? AND code = ?", storeID, code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindAll finds all coupons of a store
func (r *GormCouponRepository) FindAll(ctx context.Context, storeID uint64) ([]sales.Coupon, error) {
	mustScope(storeID)
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var coupons []sales.Coupon
	if err := db.Where("store_id = ?", storeID).
		Order("valid_from DESC").
		Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// Add inserts a new coupon
func (r *GormCouponRepository) Add(ctx context.Context, coupon *sales.Coupon) error {
	mustScope(coupon.StoreID)
	db, err := r.session(ctx)
	if err != nil {
		return err
	}
	return db.Create(coupon).Error
}

// Update writes the coupon's columns; reports whether the row existed
// within the store
func (r *GormCouponRepository) Update(ctx context.Context, coupon *sales.Coupon) (bool, error) {
	mustScope(coupon.StoreID)
	db, err := r.session(ctx)
	if err != nil {
		return false, err
	}
	result := db.Model(&sales.Coupon{}).
		Where("store_id = ? AND id = ?", coupon.StoreID, coupon.ID).
		Select("*").Omit("id", "store_id", "created_at").
		Updates(coupon)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a coupon within a store; reports whether it existed
func (r *GormCouponRepository) Delete(ctx context.Context, storeID uint64, id uuid.UUID) (bool, error) {
	mustScope(storeID)
	db, err := r.session(ctx)
	if err != nil {
		return false, err
	}
	result := db.Delete(&sales.Coupon{}, "store_id = ? AND id = ?", storeID, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormCouponRepository implements sales.CouponRepository
var _ sales.CouponRepository = (*GormCouponRepository)(nil)
