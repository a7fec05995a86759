// Package costing turns raw purchase figures into unit costs and picks the active
// cost of every ingredient from the purchase ledger. It performs no I/O.
package costing

import "github.com/shopspring/decimal"

// Decimal places kept for each family of derived values.
const (
	UnitPlaces    int32 = 4
	MoneyPlaces   int32 = 2
	CostingPlaces int32 = 6
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Input holds the raw figures of a single purchase. CostingQuantity is taken as given;
// use CostingQuantity to derive it from a unit factor.
type Input struct {
	PurchasedQuantity  decimal.Decimal `json:"purchased_quantity"`
	CostingQuantity    decimal.Decimal `json:"costing_quantity"`
	TotalPurchaseValue decimal.Decimal `json:"total_purchase_value"`
	FreightValue       decimal.Decimal `json:"freight_value"`
	WastePercent       decimal.Decimal `json:"waste_percent"`
}

// Breakdown holds every value derived from an Input, rounded for persistence.
type Breakdown struct {
	GrossUnitValue          decimal.Decimal `json:"gross_unit_value"`
	TotalCostWithFreight    decimal.Decimal `json:"total_cost_with_freight"`
	NetQuantity             decimal.Decimal `json:"net_quantity"`
	RealUnitCost            decimal.Decimal `json:"real_unit_cost"`
	AdjustedCostingQuantity decimal.Decimal `json:"adjusted_costing_quantity"`
	UnitCostForCosting      decimal.Decimal `json:"unit_cost_for_costing"`
}

// Calculate derives the cost breakdown of a purchase. It never fails: any ratio whose
// denominator is zero or negative is reported as zero so partially filled forms can
// still be previewed.
func Calculate(in Input) Breakdown {
	kept := one.Sub(in.WastePercent.Div(hundred))

	totalWithFreight := in.TotalPurchaseValue.Add(in.FreightValue)

	gross := decimal.Zero
	net := decimal.Zero
	if in.PurchasedQuantity.IsPositive() {
		gross = in.TotalPurchaseValue.Div(in.PurchasedQuantity)
		net = nonNegative(in.PurchasedQuantity.Mul(kept))
	}

	adjusted := nonNegative(in.CostingQuantity.Mul(kept))

	return Breakdown{
		GrossUnitValue:          gross.Round(UnitPlaces),
		TotalCostWithFreight:    totalWithFreight.Round(MoneyPlaces),
		NetQuantity:             net.Round(UnitPlaces),
		RealUnitCost:            safeDiv(totalWithFreight, net).Round(UnitPlaces),
		AdjustedCostingQuantity: adjusted.Round(UnitPlaces),
		UnitCostForCosting:      safeDiv(totalWithFreight, adjusted).Round(CostingPlaces),
	}
}

func safeDiv(numerator, denominator decimal.Decimal) decimal.Decimal {
	if !denominator.IsPositive() {
		return decimal.Zero
	}
	return numerator.Div(denominator)
}

func nonNegative(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}
