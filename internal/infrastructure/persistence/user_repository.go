package persistence

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/storepos/backend/internal/domain/account"
	"github.com/storepos/backend/internal/domain/shared"
)

// GormUserRepository implements account.Repository against the shared
// registry database
type GormUserRepository struct {
	db *gorm.DB

	migrateOnce sync.Once
	migrateErr  error
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) session(ctx context.Context) (*gorm.DB, error) {
	r.migrateOnce.Do(func() {
		r.migrateErr = r.db.AutoMigrate(&account.User{})
	})
	if r.migrateErr != nil {
		return nil, r.migrateErr
	}
	return r.db.WithContext(ctx), nil
}

// FindByEmail finds a user by the normalized email address
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*account.User, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var user account.User
	if err := db.First(&user, "email = ?", account.NormalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Add inserts a new user
func (r *GormUserRepository) Add(ctx context.Context, user *account.User) error {
	db, err := r.session(ctx)
	if err != nil {
		return err
	}
	return db.Create(user).Error
}

// Ensure GormUserRepository implements account.Repository
var _ account.Repository = (*GormUserRepository)(nil)
