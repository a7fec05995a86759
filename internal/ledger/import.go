package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fichapp/internal/costing"
	applog "fichapp/internal/log"
	"fichapp/models"
)

// ImportRow is one purchase read from a legacy sheet.
type ImportRow struct {
	Line  int
	Input PurchaseInput
}

// RowError explains why an imported row was rejected.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportResult summarises an import run.
type ImportResult struct {
	Imported      int
	Rejected      []RowError
	Consolidation costing.Consolidation
}

// Import appends legacy purchases in one transaction and rebuilds the active-cost
// table once at the end. Derived values are recomputed rather than trusted. Rows with
// an unreadable purchase date are kept in the ledger and reported by the rebuild;
// rows breaking any other rule are rejected.
func (s *Service) Import(ctx context.Context, rows []ImportRow) (ImportResult, error) {
	if !s.Available() {
		return ImportResult{}, ErrNoDatabase
	}

	purchases := make([]models.Purchase, 0, len(rows))
	result := ImportResult{}
	unitFactors := s.unitFactors(ctx)

	for _, row := range rows {
		in := row.Input.Normalize()
		if err := in.validateLegacy(); err != nil {
			result.Rejected = append(result.Rejected, RowError{Line: row.Line, Reason: err.Error()})
			continue
		}
		factor, ok := unitFactors[in.PurchaseUnit]
		if !ok {
			factor = costing.Factor(factor)
		}
		recordedAt := in.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = s.now()
		}
		purchases = append(purchases, buildPurchase(in, factor, recordedAt.UTC(), s.phoneRegion))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(purchases) > 0 {
			if err := tx.CreateInBatches(&purchases, 200).Error; err != nil {
				return fmt.Errorf("append imported purchases: %w", err)
			}
		}
		var err error
		result.Consolidation, err = s.rebuild(ctx, tx)
		return err
	})
	if err != nil {
		return ImportResult{}, err
	}

	result.Imported = len(purchases)
	applog.Info(ctx, "ledger import finished",
		"imported", result.Imported,
		"rejected", len(result.Rejected),
		"skippedFromActiveCosts", len(result.Consolidation.Skipped),
	)
	return result, nil
}

func (s *Service) unitFactors(ctx context.Context) map[string]decimal.Decimal {
	factors := make(map[string]decimal.Decimal)
	units, err := s.Units(ctx)
	if err != nil {
		applog.Error(ctx, "failed to load unit factors for import", "error", err)
		return factors
	}
	for _, unit := range units {
		factors[unit.Code] = costing.Factor(unit.ConversionFactor)
	}
	return factors
}

// validateLegacy applies every purchase rule except the date layout, which the
// consolidator reports instead.
func (in PurchaseInput) validateLegacy() error {
	probe := in
	if _, err := costing.ParsePurchaseDate(probe.PurchaseDate); err != nil {
		probe.PurchaseDate = costing.DateLayout
	}
	return probe.Validate()
}
