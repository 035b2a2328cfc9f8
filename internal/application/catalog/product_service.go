// Package catalog implements product management scoped to one store's
// database.
package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storepos/backend/internal/domain/catalog"
	"github.com/storepos/backend/internal/domain/shared"
	"github.com/storepos/backend/internal/infrastructure/persistence"
)

// CreateProductRequest is the payload for adding a product
type CreateProductRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=200"`
	Description    string          `json:"description" binding:"max=2000"`
	Barcode        string          `json:"barcode" binding:"max=50"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice" binding:"gte=0"`
	RetailPrice    decimal.Decimal `json:"retailPrice" binding:"required,gt=0"`
	InitialStock   decimal.Decimal `json:"initialStock" binding:"gte=0"`
	MinAllowStock  decimal.Decimal `json:"minAllowStock" binding:"gte=0"`
}

// UpdateProductRequest is the payload for editing a product
type UpdateProductRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=200"`
	Description    string          `json:"description" binding:"max=2000"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice" binding:"gte=0"`
	RetailPrice    decimal.Decimal `json:"retailPrice" binding:"required,gt=0"`
	MinAllowStock  decimal.Decimal `json:"minAllowStock" binding:"gte=0"`
}

// AdjustStockRequest applies a signed stock delta (restock or correction)
type AdjustStockRequest struct {
	Delta decimal.Decimal `json:"delta" binding:"required"`
}

// ProductResponse is the product representation returned to callers
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Barcode        string          `json:"barcode"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
	RetailPrice    decimal.Decimal `json:"retailPrice"`
	Stock          decimal.Decimal `json:"stock"`
	MinAllowStock  decimal.Decimal `json:"minAllowStock"`
	StockLevel     string          `json:"stockLevel"`
	CreatedAt      int64           `json:"createdAt"`
	UpdatedAt      int64           `json:"updatedAt"`
}

func toProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Description:    p.Description,
		Barcode:        p.Barcode,
		WholesalePrice: p.WholesalePrice,
		RetailPrice:    p.RetailPrice,
		Stock:          p.Stock,
		MinAllowStock:  p.MinAllowStock,
		StockLevel:     string(p.StockLevel()),
		CreatedAt:      p.CreatedAt.Unix(),
		UpdatedAt:      p.UpdatedAt.Unix(),
	}
}

// ProductService handles product operations against per-store databases
type ProductService struct {
	tenants *persistence.TenantReposProvider
}

// NewProductService creates a new ProductService
func NewProductService(tenants *persistence.TenantReposProvider) *ProductService {
	return &ProductService{tenants: tenants}
}

func (s *ProductService) products(ctx context.Context, storeID uint64) (catalog.Repository, error) {
	repos, err := s.tenants.For(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return repos.Products, nil
}

// Create adds a product to the store's catalog
func (s *ProductService) Create(ctx context.Context, storeID uint64, req CreateProductRequest) (*ProductResponse, error) {
	repo, err := s.products(ctx, storeID)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.Barcode, req.RetailPrice)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if err := product.SetPrices(req.WholesalePrice, req.RetailPrice); err != nil {
		return nil, err
	}
	if err := product.SetMinAllowStock(req.MinAllowStock); err != nil {
		return nil, err
	}
	if !req.InitialStock.IsZero() {
		if err := product.AdjustStock(req.InitialStock); err != nil {
			return nil, err
		}
	}

	if err := repo.Add(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Get returns one product by ID
func (s *ProductService) Get(ctx context.Context, storeID uint64, productID uuid.UUID) (*ProductResponse, error) {
	repo, err := s.products(ctx, storeID)
	if err != nil {
		return nil, err
	}
	product, err := repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByBarcode returns one product by barcode, the checkout fast path
func (s *ProductService) GetByBarcode(ctx context.Context, storeID uint64, barcode string) (*ProductResponse, error) {
	repo, err := s.products(ctx, storeID)
	if err != nil {
		return nil, err
	}
	product, err := repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List returns every product in the store's catalog
func (s *ProductService) List(ctx context.Context, storeID uint64) ([]ProductResponse, error) {
	repo, err := s.products(ctx, storeID)
	if err != nil {
		return nil, err
	}
	products, err := repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]ProductResponse, 0, len(products))
	for i := range products {
		result = append(result, *toProductResponse(&products[i]))
	}
	return result, nil
}

// Update edits a product's describable fields and prices
func (s *ProductService) Update(ctx context.Context, storeID uint64, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	repo, err := s.products(ctx, storeID)
	if err != nil {
		return nil, err
	}
	product, err := repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	product.Name = req.Name
	product.Description = req.Description
	if err := product.SetPrices(req.WholesalePrice, req.RetailPrice); err != nil {
		return nil, err
	}
	if err := product.SetMinAllowStock(req.MinAllowStock); err != nil {
		return nil, err
	}
	updated, err := repo.UpdateDetails(ctx, product)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, shared.ErrNotFound
	}
	return toProductResponse(product), nil
}

// AdjustStock applies a signed stock delta; the result never goes
// negative. The delta is applied as a guarded relative update, not as
// an absolute value computed from a fetched row.
func (s *ProductService) AdjustStock(ctx context.Context, storeID uint64, productID uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	repo, err := s.products(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := repo.AdjustStock(ctx, productID, req.Delta); err != nil {
		return nil, err
	}
	product, err := repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete removes a product from the catalog; absent products are not
// an error
func (s *ProductService) Delete(ctx context.Context, storeID uint64, productID uuid.UUID) (bool, error) {
	repo, err := s.products(ctx, storeID)
	if err != nil {
		return false, err
	}
	return repo.Delete(ctx, productID)
}
