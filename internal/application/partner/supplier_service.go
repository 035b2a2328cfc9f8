// Package partner implements supplier management and the links between
// suppliers and the products they supply.
package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storepos/backend/internal/domain/partner"
	"github.com/storepos/backend/internal/domain/shared"
	"github.com/storepos/backend/internal/infrastructure/persistence"
)

// CreateSupplierRequest is the payload for registering a supplier
type CreateSupplierRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ContactName string `json:"contactName" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=30"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Address     string `json:"address" binding:"max=500"`
}

// UpdateSupplierRequest is the payload for editing a supplier
type UpdateSupplierRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ContactName string `json:"contactName" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=30"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Address     string `json:"address" binding:"max=500"`
}

// SupplierResponse is the supplier representation returned to callers
type SupplierResponse struct {
	ID          string `json:"id"`
	StoreID     uint64 `json:"storeId"`
	Name        string `json:"name"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

func toSupplierResponse(s *partner.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:          s.ID.String(),
		StoreID:     s.StoreID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		CreatedAt:   s.CreatedAt.Unix(),
		UpdatedAt:   s.UpdatedAt.Unix(),
	}
}

// SupplierService handles supplier operations. Supplier records live in
// the shared registry database; supply links live in the store's own
// database and are reached through the tenant provider.
type SupplierService struct {
	suppliers partner.Repository
	tenants   *persistence.TenantReposProvider
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(suppliers partner.Repository, tenants *persistence.TenantReposProvider) *SupplierService {
	return &SupplierService{
		suppliers: suppliers,
		tenants:   tenants,
	}
}

// Create registers a supplier for a store
func (s *SupplierService) Create(ctx context.Context, storeID uint64, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(storeID, req.Name)
	if err != nil {
		return nil, err
	}
	supplier.SetContact(req.ContactName, req.Phone, req.Email, req.Address)
	if err := s.suppliers.Add(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// Get returns one supplier of a store
func (s *SupplierService) Get(ctx context.Context, storeID uint64, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, storeID, supplierID)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// List returns every supplier of a store
func (s *SupplierService) List(ctx context.Context, storeID uint64) ([]SupplierResponse, error) {
	suppliers, err := s.suppliers.FindAll(ctx, storeID)
	if err != nil {
		return nil, err
	}
	result := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		result = append(result, *toSupplierResponse(&suppliers[i]))
	}
	return result, nil
}

// Update edits a supplier's fields
func (s *SupplierService) Update(ctx context.Context, storeID uint64, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, storeID, supplierID)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	supplier.Name = req.Name
	supplier.SetContact(req.ContactName, req.Phone, req.Email, req.Address)
	updated, err := s.suppliers.Update(ctx, supplier)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, shared.ErrNotFound
	}
	return toSupplierResponse(supplier), nil
}

// Delete removes a supplier; reports whether it existed
func (s *SupplierService) Delete(ctx context.Context, storeID uint64, supplierID uuid.UUID) (bool, error) {
	return s.suppliers.Delete(ctx, storeID, supplierID)
}

// LinkProduct records that the supplier supplies the product. The link
// is stored in the store's own database; linking twice is a no-op.
func (s *SupplierService) LinkProduct(ctx context.Context, storeID uint64, supplierID, productID uuid.UUID) error {
	if _, err := s.suppliers.FindByID(ctx, storeID, supplierID); err != nil {
		return err
	}
	repos, err := s.tenants.For(ctx, storeID)
	if err != nil {
		return err
	}
	if _, err := repos.Products.FindByID(ctx, productID); err != nil {
		return err
	}
	return repos.Supply.Link(ctx, productID, supplierID)
}

// UnlinkProduct removes a supply link; reports whether it existed
func (s *SupplierService) UnlinkProduct(ctx context.Context, storeID uint64, supplierID, productID uuid.UUID) (bool, error) {
	repos, err := s.tenants.For(ctx, storeID)
	if err != nil {
		return false, err
	}
	return repos.Supply.Unlink(ctx, productID, supplierID)
}

// ProductSuppliers lists the suppliers of one product
func (s *SupplierService) ProductSuppliers(ctx context.Context, storeID uint64, productID uuid.UUID) ([]SupplierResponse, error) {
	repos, err := s.tenants.For(ctx, storeID)
	if err != nil {
		return nil, err
	}
	ids, err := repos.Supply.SuppliersOf(ctx, productID)
	if err != nil {
		return nil, err
	}
	result := make([]SupplierResponse, 0, len(ids))
	for _, id := range ids {
		supplier, err := s.suppliers.FindByID(ctx, storeID, id)
		if err != nil {
			// A link may outlive its supplier record; skip dangling links.
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, *toSupplierResponse(supplier))
	}
	return result, nil
}
