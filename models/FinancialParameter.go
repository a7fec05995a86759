package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialParameter is a named percentage used when pricing menu items.
type FinancialParameter struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Value     decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0" json:"value"`
	Note      string          `gorm:"type:text" json:"note"`
	Position  int             `gorm:"not null;default:0" json:"position"`
	UpdatedAt time.Time       `json:"updated_at"`
}
