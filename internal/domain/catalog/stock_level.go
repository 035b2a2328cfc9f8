package catalog

import "github.com/shopspring/decimal"

// StockLevel is the qualitative health classification of a product's
// inventory relative to its configured minimum.
type StockLevel string

const (
	StockLevelCritical StockLevel = "CRITICAL"
	StockLevelLow      StockLevel = "LOW"
	StockLevelWarning  StockLevel = "WARNING"
	StockLevelNormal   StockLevel = "NORMAL"
)

// warningFactor widens the LOW band by half again for early warning.
var warningFactor = decimal.NewFromFloat(1.5)

// ClassifyStock maps a stock quantity onto a StockLevel.
//
// Thresholds are inclusive and evaluated top-down, first match wins:
//
//	stock <= 0              CRITICAL
//	stock <= min            LOW
//	stock <= 1.5 * min      WARNING
//	otherwise               NORMAL
func ClassifyStock(stock, minAllowStock decimal.Decimal) StockLevel {
	switch {
	case stock.Sign() <= 0:
		return StockLevelCritical
	case stock.Cmp(minAllowStock) <= 0:
		return StockLevelLow
	case stock.Cmp(minAllowStock.Mul(warningFactor)) <= 0:
		return StockLevelWarning
	default:
		return StockLevelNormal
	}
}

// Severity orders stock levels from most to least urgent.
// Lower values sort first in low-stock listings.
func (l StockLevel) Severity() int {
	switch l {
	case StockLevelCritical:
		return 0
	case StockLevelLow:
		return 1
	case StockLevelWarning:
		return 2
	default:
		return 3
	}
}

// NeedsAttention reports whether the level should appear in low-stock reports
func (l StockLevel) NeedsAttention() bool {
	return l != StockLevelNormal
}
