package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/storepos/backend/internal/domain/shared"
)

// Supplier represents a goods supplier of a store.
// Suppliers live in the shared registry database and are keyed by
// store_id; every repository query must carry that predicate.
type Supplier struct {
	shared.StoreScopedEntity
	Name        string `gorm:"type:varchar(200);not null"`
	ContactName string `gorm:"type:varchar(100)"`
	Phone       string `gorm:"type:varchar(30)"`
	Email       string `gorm:"type:varchar(200)"`
	Address     string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier for a store
func NewSupplier(storeID uint64, name string) (*Supplier, error) {
	if storeID == 0 {
		return nil, shared.ErrScopeViolation
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	return &Supplier{
		StoreScopedEntity: shared.NewStoreScopedEntity(storeID),
		Name:              name,
	}, nil
}

// SetContact sets the supplier's contact fields
func (s *Supplier) SetContact(contactName, phone, email, address string) {
	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.Address = address
}

// ProductSupply links a supplier to a product it supplies.
// The link table lives inside the store's own database; it references
// the supplier by its registry-database ID.
type ProductSupply struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	SupplierID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (ProductSupply) TableName() string {
	return "product_suppliers"
}

// Repository persists suppliers in the shared registry database
type Repository interface {
	FindByID(ctx context.Context, storeID uint64, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, storeID uint64) ([]Supplier, error)
	Add(ctx context.Context, supplier *Supplier) error
	Update(ctx context.Context, supplier *Supplier) (bool, error)
	Delete(ctx context.Context, storeID uint64, id uuid.UUID) (bool, error)
}

// SupplyRepository persists product-supplier links inside one store's database
type SupplyRepository interface {
	Link(ctx context.Context, productID, supplierID uuid.UUID) error
	Unlink(ctx context.Context, productID, supplierID uuid.UUID) (bool, error)
	SuppliersOf(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error)
}
