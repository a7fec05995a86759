package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase kinds.
const (
	KindPurchased    = "purchased"
	KindSelfProduced = "self_produced"
)

// Purchase is one immutable line of the purchase ledger. Revisions are stored as new
// rows pointing back at the row they replace.
type Purchase struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	RevisesID *uint  `gorm:"index" json:"revises_id,omitempty"`

	PurchaseDate        string `gorm:"type:varchar(32);not null" json:"purchase_date"`
	IngredientShortName string `gorm:"type:varchar(128);index;not null" json:"ingredient_short_name"`
	IngredientFullName  string `json:"ingredient_full_name"`
	Group               string `gorm:"column:ingredient_group;index" json:"group"`
	Brand               string `json:"brand"`
	Kind                string `gorm:"type:varchar(16);not null;default:purchased" json:"kind"`

	PurchaseUnit      string          `gorm:"type:varchar(16);not null" json:"purchase_unit"`
	PurchasedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"purchased_quantity"`
	CostingQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"costing_quantity"`

	// CostingQuantityOverridden is set when CostingQuantity was typed in rather than
	// derived from the unit factor.
	CostingQuantityOverridden bool `gorm:"not null;default:false" json:"costing_quantity_overridden"`

	TotalPurchaseValue decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_purchase_value"`
	FreightValue       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"freight_value"`
	WastePercent       decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0" json:"waste_percent"`

	GrossUnitValue          decimal.Decimal `gorm:"type:decimal(18,4)" json:"gross_unit_value"`
	TotalCostWithFreight    decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_cost_with_freight"`
	NetQuantity             decimal.Decimal `gorm:"type:decimal(18,4)" json:"net_quantity"`
	RealUnitCost            decimal.Decimal `gorm:"type:decimal(18,4)" json:"real_unit_cost"`
	AdjustedCostingQuantity decimal.Decimal `gorm:"type:decimal(18,4)" json:"adjusted_costing_quantity"`
	UnitCostForCosting      decimal.Decimal `gorm:"type:decimal(18,6)" json:"unit_cost_for_costing"`

	SupplierName   string `json:"supplier_name"`
	SupplierPhone  string `json:"supplier_phone"`
	Representative string `json:"representative"`
	Document       string `json:"document"`
	Note           string `gorm:"type:text" json:"note"`

	RecordedAt time.Time `gorm:"index;not null" json:"recorded_at"`
}

// BeforeCreate assigns the public reference when the caller did not provide one.
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(p.Reference) == "" {
		p.Reference = uuid.NewString()
	}
	return nil
}

// KindLabel returns the label used by the legacy spreadsheets for a purchase kind.
func KindLabel(kind string) string {
	if kind == KindSelfProduced {
		return "Produzido no restaurante"
	}
	return "Comprado"
}

// KindFromLabel maps a legacy spreadsheet label or a stored kind back to a kind.
func KindFromLabel(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case KindSelfProduced, "produzido no restaurante", "produzido", "self-produced":
		return KindSelfProduced
	default:
		return KindPurchased
	}
}
