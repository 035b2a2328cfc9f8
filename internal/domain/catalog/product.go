package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storepos/backend/internal/domain/shared"
)

// Product represents a sellable item in a store's catalog.
// Products live inside the store's own database, so rows carry no
// store scope column.
type Product struct {
	shared.BaseEntity
	Name           string          `gorm:"type:varchar(200);not null"`
	Description    string          `gorm:"type:text"`
	Price          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WholesalePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RetailPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Barcode        string          `gorm:"type:varchar(50);uniqueIndex:idx_products_barcode,where:barcode <> ''"`
	// Stock may be fractional (items sold by weight or length).
	Stock         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinAllowStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, barcode string, retailPrice decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if retailPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Retail price cannot be negative")
	}
	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Barcode:     barcode,
		Price:       retailPrice,
		RetailPrice: retailPrice,
	}, nil
}

// SetPrices sets wholesale and retail prices.
// wholesale <= retail is recommended but deliberately not enforced;
// some stores run loss-leader pricing.
func (p *Product) SetPrices(wholesale, retail decimal.Decimal) error {
	if wholesale.IsNegative() || retail.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	p.WholesalePrice = wholesale
	p.RetailPrice = retail
	p.Price = retail
	p.UpdatedAt = time.Now()
	return nil
}

// SetMinAllowStock sets the stock floor used for health classification
func (p *Product) SetMinAllowStock(min decimal.Decimal) error {
	if min.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}
	p.MinAllowStock = min
	p.UpdatedAt = time.Now()
	return nil
}

// AdjustStock applies a signed stock delta. The resulting stock is
// never allowed to go negative from within the service layer.
func (p *Product) AdjustStock(delta decimal.Decimal) error {
	next := p.Stock.Add(delta)
	if next.IsNegative() {
		return shared.ErrInsufficientStock
	}
	p.Stock = next
	p.UpdatedAt = time.Now()
	return nil
}

// StockLevel returns the health classification of the current stock
func (p *Product) StockLevel() StockLevel {
	return ClassifyStock(p.Stock, p.MinAllowStock)
}

// Repository persists products inside one store's database.
//
// Stock moves only through AdjustStock's guarded relative expression;
// UpdateDetails writes the describable columns and never touches the
// stock column, so a concurrent checkout's decrement survives any edit.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	Add(ctx context.Context, product *Product) error
	UpdateDetails(ctx context.Context, product *Product) (bool, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
