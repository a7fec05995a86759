package costing

import "github.com/shopspring/decimal"

// Factor returns the usable conversion factor for a unit. Missing or non-positive
// factors fall back to 1 so the unit converts to itself.
func Factor(factor decimal.Decimal) decimal.Decimal {
	if !factor.IsPositive() {
		return one
	}
	return factor
}

// CostingQuantity converts a purchased quantity into costing-base units. Twelve dozen
// eggs become 144 eggs; units with a factor of 1 keep the purchased quantity.
func CostingQuantity(purchased, factor decimal.Decimal) decimal.Decimal {
	return purchased.Mul(Factor(factor)).Round(UnitPlaces)
}
