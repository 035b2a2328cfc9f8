package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name  string
		stock string
		min   string
		want  StockLevel
	}{
		{"zero stock is critical", "0", "10", StockLevelCritical},
		{"negative stock is critical", "-1", "10", StockLevelCritical},
		{"at minimum is low", "10", "10", StockLevelLow},
		{"below minimum is low", "5", "10", StockLevelLow},
		{"between minimum and warning band", "12", "10", StockLevelWarning},
		{"at warning boundary", "15", "10", StockLevelWarning},
		{"above warning boundary", "15.0001", "10", StockLevelNormal},
		{"well stocked", "100", "10", StockLevelNormal},
		{"fractional stock at boundary", "7.5", "5", StockLevelWarning},
		{"zero minimum keeps positive stock normal", "1", "0", StockLevelNormal},
		{"zero minimum with zero stock is critical", "0", "0", StockLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStock(d(tt.stock), d(tt.min)))
		})
	}
}

func TestClassifyStock_TopDownPrecedence(t *testing.T) {
	// Zero stock with a zero minimum satisfies both the critical and
	// low predicates; the first match wins.
	assert.Equal(t, StockLevelCritical, ClassifyStock(decimal.Zero, decimal.Zero))
}

func TestStockLevelSeverity(t *testing.T) {
	assert.Equal(t, 0, StockLevelCritical.Severity())
	assert.Equal(t, 1, StockLevelLow.Severity())
	assert.Equal(t, 2, StockLevelWarning.Severity())
	assert.Equal(t, 3, StockLevelNormal.Severity())
}

func TestStockLevelNeedsAttention(t *testing.T) {
	assert.True(t, StockLevelCritical.NeedsAttention())
	assert.True(t, StockLevelLow.NeedsAttention())
	assert.True(t, StockLevelWarning.NeedsAttention())
	assert.False(t, StockLevelNormal.NeedsAttention())
}

func TestProductStockLevel(t *testing.T) {
	product, err := NewProduct("Espresso Beans 1kg", "8711234567890", d("18.50"))
	assert.NoError(t, err)
	assert.NoError(t, product.SetMinAllowStock(d("10")))

	assert.NoError(t, product.AdjustStock(d("11")))
	assert.Equal(t, StockLevelWarning, product.StockLevel())

	assert.NoError(t, product.AdjustStock(d("50")))
	assert.Equal(t, StockLevelNormal, product.StockLevel())
}
