package persistence

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storepos/backend/internal/domain/shared"
	"github.com/storepos/backend/internal/domain/store"
)

// GormStoreRepository implements store.Repository against the shared
// registry database
type GormStoreRepository struct {
	db *gorm.DB

	migrateOnce sync.Once
	migrateErr  error
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

func (r *GormStoreRepository) session(ctx context.Context) (*gorm.DB, error) {
	r.migrateOnce.Do(func() {
		r.migrateErr = r.db.AutoMigrate(&store.Store{})
	})
	if r.migrateErr != nil {
		return nil, r.migrateErr
	}
	return r.db.WithContext(ctx), nil
}

// FindByID finds a store by its numeric ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uint64) (*store.Store, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var s store.Store
	if err := db.First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrStoreNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByOwner lists the stores owned by a user
func (r *GormStoreRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]store.Store, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var stores []store.Store
	if err := db.Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Save inserts a new store; the engine assigns the numeric ID
func (r *GormStoreRepository) Save(ctx context.Context, s *store.Store) error {
	db, err := r.session(ctx)
	if err != nil {
		return err
	}
	return db.Create(s).Error
}

// Update writes the store's mutable columns; reports whether it existed
func (r *GormStoreRepository) Update(ctx context.Context, s *store.Store) (bool, error) {
	db, err := r.session(ctx)
	if err != nil {
		return false, err
	}
	result := db.Model(&store.Store{}).
		Where("id = ?", s.ID).
		Select("name", "address", "updated_at").
		Updates(s)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a store record; reports whether it existed. The
// store's physical database is left untouched.
func (r *GormStoreRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	db, err := r.session(ctx)
	if err != nil {
		return false, err
	}
	result := db.Delete(&store.Store{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormStoreRepository implements store.Repository
var _ store.Repository = (*GormStoreRepository)(nil)
