// Package store defines the store (tenant) aggregate and the contracts
// for resolving a store's dedicated database.
//
// One store owns exactly one physical database on the shared engine
// instance. The registry provisions that database lazily on first
// access and caches the handle for the lifetime of the process.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storepos/backend/internal/domain/shared"
)

// Store represents a single tenant of the platform.
// Immutable once created except for name and address.
type Store struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Address   string    `gorm:"type:varchar(500)" json:"address"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new store owned by the given user
func NewStore(name, address string, ownerID uuid.UUID) (*Store, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Store name cannot exceed 200 characters")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Store owner is required")
	}
	return &Store{
		Name:    name,
		Address: address,
		OwnerID: ownerID,
	}, nil
}

// Rename updates the store's mutable fields
func (s *Store) Rename(name, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	s.Name = name
	s.Address = address
	s.UpdatedAt = time.Now()
	return nil
}

// DatabaseName returns the deterministic name of the store's database.
// The numeric store ID keeps names collision-free across tenants.
func (s *Store) DatabaseName() string {
	return DatabaseName(s.ID)
}

// DatabaseName builds the per-store database name for a store ID.
func DatabaseName(storeID uint64) string {
	return fmt.Sprintf("store_%d", storeID)
}

// Registry resolves a store ID to a live handle on that store's own
// database, provisioning the database on first use.
//
// Resolve returns a cached handle when present; otherwise it behaves
// like Provision followed by caching. Provision is idempotent and
// race-safe: concurrent calls for the same unseen store produce exactly
// one physical create-database side effect, and every caller ends up
// with a handle to the same database. A failed provisioning attempt
// leaves no cache entry behind, so a later call can retry.
type Registry interface {
	Resolve(ctx context.Context, storeID uint64) (*gorm.DB, error)
	Provision(ctx context.Context, storeID uint64) (*gorm.DB, error)
}

// Repository persists stores in the shared registry database
type Repository interface {
	FindByID(ctx context.Context, id uint64) (*Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Store, error)
	Save(ctx context.Context, store *Store) error
	Update(ctx context.Context, store *Store) (bool, error)
	Delete(ctx context.Context, id uint64) (bool, error)
}
