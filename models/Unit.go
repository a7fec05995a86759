package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit is a unit of measure an ingredient can be bought in. ConversionFactor is the
// number of costing-base atoms contained in one purchase unit (DZ holds 12).
type Unit struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Code             string          `gorm:"type:varchar(16);uniqueIndex;not null" json:"code"`
	Description      string          `gorm:"not null" json:"description"`
	ConversionFactor decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1" json:"conversion_factor"`
	CreatedAt        time.Time       `json:"created_at"`
}
