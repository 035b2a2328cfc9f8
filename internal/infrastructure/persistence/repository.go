package persistence

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storepos/backend/internal/domain/shared"
)

// GormRepository is the generic data-access layer bound to one store's
// database handle. Entities living inside a store database (products,
// sales) need no scope column; physical isolation is the scope.
//
// Schema initialization is lazy and idempotent: the first operation
// that touches the repository runs AutoMigrate exactly once per
// repository instance, and running it against an already-initialized
// schema is safe.
type GormRepository[T any] struct {
	db *gorm.DB

	migrateOnce sync.Once
	migrateErr  error
	// extraModels are migrated together with T (e.g. line items with sales)
	extraModels []any
}

// NewGormRepository creates a repository for T over the given handle
func NewGormRepository[T any](db *gorm.DB, extraModels ...any) *GormRepository[T] {
	return &GormRepository[T]{db: db, extraModels: extraModels}
}

// ensureSchema creates the backing tables on first use
func (r *GormRepository[T]) ensureSchema() error {
	r.migrateOnce.Do(func() {
		models := append([]any{new(T)}, r.extraModels...)
		r.migrateErr = r.db.AutoMigrate(models...)
	})
	return r.migrateErr
}

// session returns a request-scoped handle with the schema guaranteed
func (r *GormRepository[T]) session(ctx context.Context) (*gorm.DB, error) {
	if err := r.ensureSchema(); err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx), nil
}

// FindByID finds an entity by its ID
func (r *GormRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var entity T
	if err := db.First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindAll returns every entity in the store's table
func (r *GormRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var entities []T
	if err := db.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Add inserts a new entity
func (r *GormRepository[T]) Add(ctx context.Context, entity *T) error {
	db, err := r.session(ctx)
	if err != nil {
		return err
	}
	return db.Create(entity).Error
}

// Delete removes the entity with the given ID and reports whether a
// matching row existed.
func (r *GormRepository[T]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	db, err := r.session(ctx)
	if err != nil {
		return false, err
	}
	result := db.Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Transaction runs fn inside one atomic transaction on the store's
// handle. Either every step commits or none do.
func (r *GormRepository[T]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := r.ensureSchema(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(fn)
}
