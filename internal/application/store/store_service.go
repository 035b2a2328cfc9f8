// Package store implements store lifecycle operations: registration,
// database provisioning, updates and lookup.
package store

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storepos/backend/internal/domain/shared"
	"github.com/storepos/backend/internal/domain/store"
	"github.com/storepos/backend/internal/infrastructure/logger"
)

// CreateStoreRequest is the payload for registering a store
type CreateStoreRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// UpdateStoreRequest is the payload for renaming or relocating a store
type UpdateStoreRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// StoreResponse is the store representation returned to callers
type StoreResponse struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	OwnerID   string `json:"ownerId"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

func toStoreResponse(s *store.Store) *StoreResponse {
	return &StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		OwnerID:   s.OwnerID.String(),
		CreatedAt: s.CreatedAt.Unix(),
		UpdatedAt: s.UpdatedAt.Unix(),
	}
}

// StoreService handles store registration and lifecycle
type StoreService struct {
	stores   store.Repository
	registry store.Registry
	logger   *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(stores store.Repository, registry store.Registry, log *zap.Logger) *StoreService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StoreService{
		stores:   stores,
		registry: registry,
		logger:   log,
	}
}

// Create registers a store for the owner and provisions its database
// eagerly. A provisioning failure does not undo the registration; the
// registry retries transparently on the store's first access.
func (s *StoreService) Create(ctx context.Context, ownerID uuid.UUID, req CreateStoreRequest) (*StoreResponse, error) {
	st, err := store.NewStore(req.Name, req.Address, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Save(ctx, st); err != nil {
		return nil, err
	}
	if _, err := s.registry.Provision(ctx, st.ID); err != nil {
		s.logger.Warn("eager provisioning failed, will retry on first access",
			logger.StoreField(st.ID),
			zap.Error(err))
	} else {
		s.logger.Info("store registered", logger.StoreField(st.ID), zap.String("name", st.Name))
	}
	return toStoreResponse(st), nil
}

// Get returns one store by ID
func (s *StoreService) Get(ctx context.Context, storeID uint64) (*StoreResponse, error) {
	st, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return toStoreResponse(st), nil
}

// ListByOwner returns the stores owned by a user
func (s *StoreService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreResponse, error) {
	stores, err := s.stores.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	result := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		result = append(result, *toStoreResponse(&stores[i]))
	}
	return result, nil
}

// Update renames or relocates a store
func (s *StoreService) Update(ctx context.Context, storeID uint64, req UpdateStoreRequest) (*StoreResponse, error) {
	st, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := st.Rename(req.Name, req.Address); err != nil {
		return nil, err
	}
	updated, err := s.stores.Update(ctx, st)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, shared.ErrStoreNotFound
	}
	return toStoreResponse(st), nil
}

// Delete removes a store record. The physical database is kept; data
// removal is an operator action, not an API side effect.
func (s *StoreService) Delete(ctx context.Context, storeID uint64) error {
	deleted, err := s.stores.Delete(ctx, storeID)
	if err != nil {
		return err
	}
	if !deleted {
		return shared.ErrStoreNotFound
	}
	s.logger.Info("store deleted", logger.StoreField(storeID))
	return nil
}
