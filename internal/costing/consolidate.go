package costing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the display layout of purchase dates.
const DateLayout = "02/01/2006"

var dateLayouts = []string{DateLayout, "2/1/2006", "2006-01-02"}

// ErrInvalidDate reports a purchase date none of the accepted layouts can read.
var ErrInvalidDate = errors.New("costing: unparseable purchase date")

// ParsePurchaseDate reads a purchase date written as DD/MM/YYYY (or ISO YYYY-MM-DD).
func ParsePurchaseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// FormatPurchaseDate renders t in the display layout.
func FormatPurchaseDate(t time.Time) string {
	return t.Format(DateLayout)
}

// LedgerRow is the slice of a purchase record the consolidator needs.
type LedgerRow struct {
	ID                  uint
	IngredientShortName string
	Group               string
	PurchaseUnit        string
	PurchaseDate        string
	UnitCostForCosting  decimal.Decimal
	RecordedAt          time.Time
}

// ActiveCostEntry is the current cost of one ingredient.
type ActiveCostEntry struct {
	IngredientShortName string          `json:"ingredient_short_name"`
	Group               string          `json:"group"`
	PurchaseUnit        string          `json:"purchase_unit"`
	ActiveUnitCost      decimal.Decimal `json:"active_unit_cost"`
	LastPurchaseDate    string          `json:"last_purchase_date"`
	SourceID            uint            `json:"source_id"`
}

// SkippedRow describes a ledger row left out of consolidation.
type SkippedRow struct {
	ID                  uint   `json:"id"`
	IngredientShortName string `json:"ingredient_short_name"`
	PurchaseDate        string `json:"purchase_date"`
	Reason              string `json:"reason"`
}

// Consolidation is the outcome of a full pass over the ledger.
type Consolidation struct {
	Entries []ActiveCostEntry
	Skipped []SkippedRow
}

type candidate struct {
	row      LedgerRow
	date     time.Time
	position int
}

// newer reports whether c should replace current as the latest purchase.
func (c candidate) newer(current candidate) bool {
	if !c.date.Equal(current.date) {
		return c.date.After(current.date)
	}
	if !c.row.RecordedAt.Equal(current.row.RecordedAt) {
		return c.row.RecordedAt.After(current.row.RecordedAt)
	}
	if c.row.ID != current.row.ID {
		return c.row.ID > current.row.ID
	}
	return c.position > current.position
}

// Consolidate picks, for every ingredient, the purchase with the latest date (the later
// RecordedAt breaks ties) and projects it into an ActiveCostEntry. Rows whose date cannot
// be read or whose ingredient name is blank are reported in Skipped. Entries are sorted
// by ingredient name, so equal ledgers always yield equal results.
func Consolidate(rows []LedgerRow) Consolidation {
	latest := make(map[string]candidate)
	var skipped []SkippedRow

	for idx, row := range rows {
		name := strings.TrimSpace(row.IngredientShortName)
		if name == "" {
			skipped = append(skipped, SkippedRow{ID: row.ID, PurchaseDate: row.PurchaseDate, Reason: "missing ingredient name"})
			continue
		}
		date, err := ParsePurchaseDate(row.PurchaseDate)
		if err != nil {
			skipped = append(skipped, SkippedRow{ID: row.ID, IngredientShortName: name, PurchaseDate: row.PurchaseDate, Reason: "unreadable purchase date"})
			continue
		}
		row.IngredientShortName = name
		next := candidate{row: row, date: date, position: idx}
		if current, ok := latest[name]; !ok || next.newer(current) {
			latest[name] = next
		}
	}

	entries := make([]ActiveCostEntry, 0, len(latest))
	for name, winner := range latest {
		entries = append(entries, ActiveCostEntry{
			IngredientShortName: name,
			Group:               winner.row.Group,
			PurchaseUnit:        winner.row.PurchaseUnit,
			ActiveUnitCost:      winner.row.UnitCostForCosting,
			LastPurchaseDate:    strings.TrimSpace(winner.row.PurchaseDate),
			SourceID:            winner.row.ID,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].IngredientShortName < entries[j].IngredientShortName
	})

	return Consolidation{Entries: entries, Skipped: skipped}
}
