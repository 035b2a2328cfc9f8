package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineItem(price, qty string) SaleLineItem {
	return SaleLineItem{
		ProductID: uuid.New(),
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestNewSale(t *testing.T) {
	t.Run("computes exact subtotal and total", func(t *testing.T) {
		sale, err := NewSale([]SaleLineItem{
			lineItem("0.10", "1"),
			lineItem("0.20", "1"),
		}, PaymentCash, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("0.30")))
		assert.True(t, sale.Total.Equal(sale.Subtotal))
	})

	t.Run("applies discount", func(t *testing.T) {
		sale, err := NewSale([]SaleLineItem{
			lineItem("10.00", "2"),
		}, PaymentCard, decimal.RequireFromString("3.50"))
		require.NoError(t, err)
		assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("20.00")))
		assert.True(t, sale.Total.Equal(decimal.RequireFromString("16.50")))
	})

	t.Run("total floors at zero", func(t *testing.T) {
		sale, err := NewSale([]SaleLineItem{
			lineItem("1.00", "1"),
		}, PaymentCash, decimal.RequireFromString("5.00"))
		require.NoError(t, err)
		assert.True(t, sale.Total.IsZero())
	})

	t.Run("assigns line item identity", func(t *testing.T) {
		sale, err := NewSale([]SaleLineItem{
			lineItem("2.00", "3"),
		}, PaymentCash, decimal.Zero)
		require.NoError(t, err)
		require.Len(t, sale.Items, 1)
		assert.Equal(t, sale.ID, sale.Items[0].SaleID)
		assert.NotEqual(t, uuid.Nil, sale.Items[0].ID)
	})

	t.Run("rejects empty sale", func(t *testing.T) {
		_, err := NewSale(nil, PaymentCash, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		_, err := NewSale([]SaleLineItem{lineItem("1", "1")}, PaymentMethod("CHECK"), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative discount", func(t *testing.T) {
		_, err := NewSale([]SaleLineItem{lineItem("1", "1")}, PaymentCash, decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestSaleLineItemAmount(t *testing.T) {
	item := lineItem("2.50", "1.5")
	assert.True(t, item.Amount().Equal(decimal.RequireFromString("3.75")))
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentCard.Valid())
	assert.True(t, PaymentCash.Valid())
	assert.False(t, PaymentMethod("BITCOIN").Valid())
	assert.False(t, PaymentMethod("").Valid())
}
