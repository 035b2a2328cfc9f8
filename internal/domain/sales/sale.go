// Package sales defines the sale aggregate, coupons and the contracts
// for recording and querying sales inside one store's database.
package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storepos/backend/internal/domain/shared"
)

// PaymentMethod is the closed set of accepted payment methods
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "CARD"
	PaymentCash PaymentMethod = "CASH"
)

// Valid reports whether the payment method is one of the known values
func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCash
}

// Sale is an append-only record of a completed checkout.
// Sales are never updated after creation.
type Sale struct {
	shared.BaseEntity
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(10);not null;index"`
	Items         []SaleLineItem  `gorm:"foreignKey:SaleID"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleLineItem records one product position of a sale. The unit price
// is snapshotted at the time of sale and never re-derived.
type SaleLineItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleLineItem) TableName() string {
	return "sale_line_items"
}

// Amount returns quantity times the snapshotted unit price
func (i SaleLineItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// NewSale assembles a sale from its line items. Subtotal is the exact
// decimal sum of the items; total is subtotal minus the discount.
func NewSale(items []SaleLineItem, method PaymentMethod, discount decimal.Decimal) (*Sale, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "Sale must contain at least one line item")
	}
	if !method.Valid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	sale := &Sale{
		BaseEntity:    shared.NewBaseEntity(),
		PaymentMethod: method,
	}
	subtotal := decimal.Zero
	for i := range items {
		items[i].ID = uuid.New()
		items[i].SaleID = sale.ID
		subtotal = subtotal.Add(items[i].Amount())
	}
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	sale.Items = items
	sale.Subtotal = subtotal
	sale.Total = total
	return sale, nil
}

// Filter narrows sale queries. Nil fields match everything.
type Filter struct {
	From          *time.Time
	To            *time.Time
	PaymentMethod *PaymentMethod
	ProductID     *uuid.UUID
}

// Repository persists sales inside one store's database.
// Reads are plain read-only queries; the engine's own transaction
// isolation governs concurrent sale recording.
type Repository interface {
	Create(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	Find(ctx context.Context, filter Filter) ([]Sale, error)
	FindRecent(ctx context.Context, limit int) ([]Sale, error)
}
