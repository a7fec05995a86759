package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fichapp/internal/costing"
	"fichapp/models"
)

// PurchaseInput is a purchase as submitted by an operator or read from a legacy sheet.
// A zero CostingQuantity is derived from the purchase unit's conversion factor.
type PurchaseInput struct {
	PurchaseDate        string `form:"purchase_date" json:"purchase_date" validate:"required,purchase_date"`
	IngredientShortName string `form:"ingredient_short_name" json:"ingredient_short_name" validate:"required,max=128"`
	IngredientFullName  string `form:"ingredient_full_name" json:"ingredient_full_name"`
	Group               string `form:"group" json:"group"`
	Brand               string `form:"brand" json:"brand"`
	Kind                string `form:"kind" json:"kind" validate:"oneof=purchased self_produced"`

	PurchaseUnit      string          `form:"purchase_unit" json:"purchase_unit" validate:"required,max=16"`
	PurchasedQuantity decimal.Decimal `form:"purchased_quantity" json:"purchased_quantity" validate:"gt=0"`
	CostingQuantity   decimal.Decimal `form:"costing_quantity" json:"costing_quantity" validate:"gte=0"`

	TotalPurchaseValue decimal.Decimal `form:"total_purchase_value" json:"total_purchase_value" validate:"gt=0"`
	FreightValue       decimal.Decimal `form:"freight_value" json:"freight_value" validate:"gte=0"`
	WastePercent       decimal.Decimal `form:"waste_percent" json:"waste_percent" validate:"gte=0,lte=100"`

	SupplierName   string `form:"supplier_name" json:"supplier_name"`
	SupplierPhone  string `form:"supplier_phone" json:"supplier_phone"`
	Representative string `form:"representative" json:"representative"`
	Document       string `form:"document" json:"document"`
	Note           string `form:"note" json:"note"`

	// RecordedAt overrides the save timestamp. Only imports set it.
	RecordedAt time.Time `form:"-" json:"-"`
}

var purchaseMessages = map[string]string{
	"purchase_date":         "Purchase date must use the DD/MM/YYYY format.",
	"ingredient_short_name": "Ingredient short name is required.",
	"kind":                  "Kind must be purchased or self-produced.",
	"purchase_unit":         "Select a purchase unit.",
	"purchased_quantity":    "Purchased quantity must be greater than zero.",
	"costing_quantity":      "Costing quantity cannot be negative.",
	"total_purchase_value":  "Total purchase value must be greater than zero.",
	"freight_value":         "Freight cannot be negative.",
	"waste_percent":         "Waste must be between 0 and 100 percent.",
}

// Normalize trims text fields and fills defaults: the full name falls back to the
// short name, the unit code is upper-cased and the kind defaults to purchased.
func (in PurchaseInput) Normalize() PurchaseInput {
	in.PurchaseDate = strings.TrimSpace(in.PurchaseDate)
	in.IngredientShortName = strings.TrimSpace(in.IngredientShortName)
	in.IngredientFullName = strings.TrimSpace(in.IngredientFullName)
	if in.IngredientFullName == "" {
		in.IngredientFullName = in.IngredientShortName
	}
	in.Group = strings.TrimSpace(in.Group)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Kind = models.KindFromLabel(in.Kind)
	in.PurchaseUnit = strings.ToUpper(strings.TrimSpace(in.PurchaseUnit))
	in.SupplierName = strings.TrimSpace(in.SupplierName)
	in.SupplierPhone = strings.TrimSpace(in.SupplierPhone)
	in.Representative = strings.TrimSpace(in.Representative)
	in.Document = strings.TrimSpace(in.Document)
	in.Note = strings.TrimSpace(in.Note)
	return in
}

// Validate reports every rule the input breaks as a *ValidationError.
func (in PurchaseInput) Validate() error {
	return Check(in, purchaseMessages)
}

// CostInput resolves the costing quantity with factor and returns the calculator input.
func (in PurchaseInput) CostInput(factor decimal.Decimal) costing.Input {
	costingQty := in.CostingQuantity
	if !costingQty.IsPositive() {
		costingQty = costing.CostingQuantity(in.PurchasedQuantity, factor)
	}
	return costing.Input{
		PurchasedQuantity:  in.PurchasedQuantity,
		CostingQuantity:    costingQty,
		TotalPurchaseValue: in.TotalPurchaseValue,
		FreightValue:       in.FreightValue,
		WastePercent:       in.WastePercent,
	}
}

// InputFromPurchase copies the raw fields of a stored purchase so it can be revised.
// A costing quantity derived from the unit factor is left blank so the revision
// derives it again from the new quantity and unit.
func InputFromPurchase(p models.Purchase) PurchaseInput {
	costingQty := decimal.Zero
	if p.CostingQuantityOverridden {
		costingQty = p.CostingQuantity
	}
	return PurchaseInput{
		PurchaseDate:        p.PurchaseDate,
		IngredientShortName: p.IngredientShortName,
		IngredientFullName:  p.IngredientFullName,
		Group:               p.Group,
		Brand:               p.Brand,
		Kind:                p.Kind,
		PurchaseUnit:        p.PurchaseUnit,
		PurchasedQuantity:   p.PurchasedQuantity,
		CostingQuantity:     costingQty,
		TotalPurchaseValue:  p.TotalPurchaseValue,
		FreightValue:        p.FreightValue,
		WastePercent:        p.WastePercent,
		SupplierName:        p.SupplierName,
		SupplierPhone:       p.SupplierPhone,
		Representative:      p.Representative,
		Document:            p.Document,
		Note:                p.Note,
	}
}

// overridesCosting reports whether the typed costing quantity differs from the one
// the unit factor gives.
func (in PurchaseInput) overridesCosting(factor decimal.Decimal) bool {
	if !in.CostingQuantity.IsPositive() {
		return false
	}
	return !in.CostingQuantity.Equal(costing.CostingQuantity(in.PurchasedQuantity, factor))
}

func buildPurchase(in PurchaseInput, factor decimal.Decimal, recordedAt time.Time, phoneRegion string) models.Purchase {
	cost := in.CostInput(factor)
	breakdown := costing.Calculate(cost)
	return models.Purchase{
		PurchaseDate:              in.PurchaseDate,
		IngredientShortName:       in.IngredientShortName,
		IngredientFullName:        in.IngredientFullName,
		Group:                     in.Group,
		Brand:                     in.Brand,
		Kind:                      in.Kind,
		PurchaseUnit:              in.PurchaseUnit,
		PurchasedQuantity:         cost.PurchasedQuantity,
		CostingQuantity:           cost.CostingQuantity,
		CostingQuantityOverridden: in.overridesCosting(factor),
		TotalPurchaseValue:        cost.TotalPurchaseValue,
		FreightValue:              cost.FreightValue,
		WastePercent:              cost.WastePercent,
		GrossUnitValue:            breakdown.GrossUnitValue,
		TotalCostWithFreight:      breakdown.TotalCostWithFreight,
		NetQuantity:               breakdown.NetQuantity,
		RealUnitCost:              breakdown.RealUnitCost,
		AdjustedCostingQuantity:   breakdown.AdjustedCostingQuantity,
		UnitCostForCosting:        breakdown.UnitCostForCosting,
		SupplierName:              in.SupplierName,
		SupplierPhone:             NormalizePhone(in.SupplierPhone, phoneRegion),
		Representative:            in.Representative,
		Document:                  in.Document,
		Note:                      in.Note,
		RecordedAt:                recordedAt,
	}
}
