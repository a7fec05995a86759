package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "%s = %s, want %s", field, got.String(), want)
}

func TestCalculateDozenPurchase(t *testing.T) {
	t.Parallel()

	costingQty := CostingQuantity(d("12"), d("12"))
	assertDecimal(t, "144", costingQty, "CostingQuantity")

	got := Calculate(Input{
		PurchasedQuantity:  d("12"),
		CostingQuantity:    costingQty,
		TotalPurchaseValue: d("120.00"),
		FreightValue:       d("10.00"),
		WastePercent:       d("10"),
	})

	assertDecimal(t, "10.0000", got.GrossUnitValue, "GrossUnitValue")
	assertDecimal(t, "130.00", got.TotalCostWithFreight, "TotalCostWithFreight")
	assertDecimal(t, "10.8", got.NetQuantity, "NetQuantity")
	assertDecimal(t, "12.0370", got.RealUnitCost, "RealUnitCost")
	assertDecimal(t, "129.6", got.AdjustedCostingQuantity, "AdjustedCostingQuantity")
	assertDecimal(t, "1.003086", got.UnitCostForCosting, "UnitCostForCosting")
	assert.Equal(t, "1.0031", got.UnitCostForCosting.StringFixed(4))
}

func TestCalculateZeroQuantityIsSafe(t *testing.T) {
	t.Parallel()

	totals := []string{"0", "50", "1234.56"}
	for _, total := range totals {
		total := total
		t.Run(total, func(t *testing.T) {
			t.Parallel()
			got := Calculate(Input{
				PurchasedQuantity:  decimal.Zero,
				CostingQuantity:    decimal.Zero,
				TotalPurchaseValue: d(total),
				FreightValue:       d("5"),
				WastePercent:       d("10"),
			})
			assertDecimal(t, "0", got.GrossUnitValue, "GrossUnitValue")
			assertDecimal(t, "0", got.NetQuantity, "NetQuantity")
			assertDecimal(t, "0", got.RealUnitCost, "RealUnitCost")
			assertDecimal(t, "0", got.AdjustedCostingQuantity, "AdjustedCostingQuantity")
			assertDecimal(t, "0", got.UnitCostForCosting, "UnitCostForCosting")
			assertDecimal(t, d(total).Add(d("5")).String(), got.TotalCostWithFreight, "TotalCostWithFreight")
		})
	}
}

func TestCalculateFreightAdditivity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		total   string
		freight string
	}{
		{"0", "0"},
		{"120", "10"},
		{"99.99", "0.01"},
		{"15000.5", "320.25"},
	}

	for _, tc := range cases {
		got := Calculate(Input{
			PurchasedQuantity:  d("3"),
			CostingQuantity:    d("3"),
			TotalPurchaseValue: d(tc.total),
			FreightValue:       d(tc.freight),
		})
		assertDecimal(t, d(tc.total).Add(d(tc.freight)).String(), got.TotalCostWithFreight, "TotalCostWithFreight")
	}
}

func TestCalculateWasteMonotonicity(t *testing.T) {
	t.Parallel()

	wastes := []string{"0", "5", "10", "25", "50", "90", "99"}
	var previous *Breakdown
	for _, waste := range wastes {
		got := Calculate(Input{
			PurchasedQuantity:  d("12"),
			CostingQuantity:    d("144"),
			TotalPurchaseValue: d("120"),
			FreightValue:       d("10"),
			WastePercent:       d(waste),
		})
		if previous != nil {
			assert.Truef(t, got.NetQuantity.LessThan(previous.NetQuantity), "net quantity did not decrease at waste %s", waste)
			assert.Truef(t, got.RealUnitCost.GreaterThan(previous.RealUnitCost), "real unit cost did not increase at waste %s", waste)
			assert.Truef(t, got.UnitCostForCosting.GreaterThan(previous.UnitCostForCosting), "costing unit cost did not increase at waste %s", waste)
		}
		current := got
		previous = &current
	}
}

func TestCalculateTotalWasteYieldsZeroRatios(t *testing.T) {
	t.Parallel()

	got := Calculate(Input{
		PurchasedQuantity:  d("4"),
		CostingQuantity:    d("4"),
		TotalPurchaseValue: d("40"),
		WastePercent:       d("100"),
	})
	assertDecimal(t, "10", got.GrossUnitValue, "GrossUnitValue")
	assertDecimal(t, "0", got.NetQuantity, "NetQuantity")
	assertDecimal(t, "0", got.RealUnitCost, "RealUnitCost")
	assertDecimal(t, "0", got.UnitCostForCosting, "UnitCostForCosting")
}

func TestCalculateCostingRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []Input{
		{PurchasedQuantity: d("12"), CostingQuantity: d("144"), TotalPurchaseValue: d("120"), FreightValue: d("10"), WastePercent: d("10")},
		{PurchasedQuantity: d("2.5"), CostingQuantity: d("2.5"), TotalPurchaseValue: d("87.35"), FreightValue: d("0"), WastePercent: d("12.5")},
		{PurchasedQuantity: d("1"), CostingQuantity: d("1000"), TotalPurchaseValue: d("42.9"), FreightValue: d("3.1"), WastePercent: d("3")},
		{PurchasedQuantity: d("7"), CostingQuantity: d("700"), TotalPurchaseValue: d("1999.99"), FreightValue: d("45"), WastePercent: d("33.3")},
	}

	tolerance := d("0.01")
	for _, in := range inputs {
		got := Calculate(in)
		recovered := got.UnitCostForCosting.Mul(got.AdjustedCostingQuantity)
		diff := recovered.Sub(got.TotalCostWithFreight).Abs()
		require.Truef(t, diff.LessThanOrEqual(tolerance), "unit cost %s x %s = %s, want about %s",
			got.UnitCostForCosting, got.AdjustedCostingQuantity, recovered, got.TotalCostWithFreight)
	}
}

func TestCalculateUsesSuppliedCostingQuantity(t *testing.T) {
	t.Parallel()

	got := Calculate(Input{
		PurchasedQuantity:  d("1"),
		CostingQuantity:    d("20"),
		TotalPurchaseValue: d("40"),
	})
	assertDecimal(t, "2", got.UnitCostForCosting, "UnitCostForCosting")
	assertDecimal(t, "40", got.RealUnitCost, "RealUnitCost")
}

func TestFactor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		factor decimal.Decimal
		want   string
	}{
		{"missing", decimal.Zero, "1"},
		{"negative", d("-12"), "1"},
		{"identity", d("1"), "1"},
		{"dozen", d("12"), "12"},
		{"thousand", d("1000"), "1000"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assertDecimal(t, tt.want, Factor(tt.factor), "Factor")
		})
	}
}

func TestCostingQuantity(t *testing.T) {
	t.Parallel()

	assertDecimal(t, "144", CostingQuantity(d("12"), d("12")), "dozen")
	assertDecimal(t, "2.5", CostingQuantity(d("2.5"), d("1")), "kilogram")
	assertDecimal(t, "3", CostingQuantity(d("3"), decimal.Zero), "unknown factor")
	assertDecimal(t, "200", CostingQuantity(d("2"), d("100")), "cento")
}
