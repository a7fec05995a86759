package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActiveCost caches the latest per-costing-unit cost of an ingredient. The table is
// rebuilt from the purchase ledger on every save and holds no history of its own.
type ActiveCost struct {
	ID                  uint            `gorm:"primaryKey" json:"-"`
	IngredientShortName string          `gorm:"type:varchar(128);uniqueIndex;not null" json:"ingredient_short_name"`
	Group               string          `gorm:"column:ingredient_group" json:"group"`
	PurchaseUnit        string          `json:"purchase_unit"`
	ActiveUnitCost      decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0" json:"active_unit_cost"`
	LastPurchaseDate    string          `json:"last_purchase_date"`
	PurchaseID          uint            `json:"purchase_id"`
	RebuiltAt           time.Time       `json:"rebuilt_at"`
}
