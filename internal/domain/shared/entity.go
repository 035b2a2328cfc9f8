package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities living inside a
// store's own database. Rows there are isolated physically, so no
// store scope column is carried.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// StoreScopedEntity provides common fields for entities stored in the
// shared registry database. Every query touching these rows must carry
// the StoreID predicate; the repositories enforce it.
type StoreScopedEntity struct {
	BaseEntity
	StoreID uint64 `gorm:"not null;index"`
}

// NewStoreScopedEntity creates a new store-scoped entity
func NewStoreScopedEntity(storeID uint64) StoreScopedEntity {
	return StoreScopedEntity{
		BaseEntity: NewBaseEntity(),
		StoreID:    storeID,
	}
}
