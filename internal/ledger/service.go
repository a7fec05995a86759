// Package ledger is the ingestion boundary of the purchase ledger. It validates
// purchases, appends them, and keeps the active-cost table in step with the ledger.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fichapp/internal/costing"
	applog "fichapp/internal/log"
	"fichapp/models"
)

// Service reads and appends purchases. Writers are serialised so each save observes
// the ledger left by the previous one.
type Service struct {
	db          *gorm.DB
	mu          sync.Mutex
	phoneRegion string
	now         func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithPhoneRegion sets the region used to normalise supplier phone numbers.
func WithPhoneRegion(region string) Option {
	return func(s *Service) {
		if strings.TrimSpace(region) != "" {
			s.phoneRegion = strings.ToUpper(strings.TrimSpace(region))
		}
	}
}

// WithClock replaces the clock used for RecordedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Service backed by db. A nil db yields a Service whose operations
// return ErrNoDatabase.
func New(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, phoneRegion: "BR", now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether the service has a database behind it.
func (s *Service) Available() bool {
	return s != nil && s.db != nil
}

// Ping checks that the database answers.
func (s *Service) Ping(ctx context.Context) error {
	if !s.Available() {
		return ErrNoDatabase
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("ledger: access sql database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ledger: ping database: %w", err)
	}
	return nil
}

// PurchaseFilter narrows ledger listings.
type PurchaseFilter struct {
	Query string
	Group string
	Limit int
}

// Result is returned by writes: the stored purchase and the consolidation that
// rebuilt the active-cost table in the same transaction.
type Result struct {
	Purchase      models.Purchase
	Consolidation costing.Consolidation
}

// UnitFactor returns the conversion factor for a unit code. Unknown codes and lookup
// failures resolve to 1.
func (s *Service) UnitFactor(ctx context.Context, code string) decimal.Decimal {
	if !s.Available() {
		return costing.Factor(decimal.Zero)
	}
	var unit models.Unit
	err := s.db.WithContext(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&unit).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Error(ctx, "failed to load unit factor", "error", err, "unit", code)
		}
		return costing.Factor(decimal.Zero)
	}
	return costing.Factor(unit.ConversionFactor)
}

// Quote computes the breakdown for a possibly incomplete input without validating or
// saving it. It backs the live preview of the purchase form.
func (s *Service) Quote(ctx context.Context, in PurchaseInput) (costing.Input, costing.Breakdown) {
	in = in.Normalize()
	factor := costing.Factor(decimal.Zero)
	if in.PurchaseUnit != "" {
		factor = s.UnitFactor(ctx, in.PurchaseUnit)
	}
	cost := in.CostInput(factor)
	return cost, costing.Calculate(cost)
}

// Record validates in, appends it to the ledger and rebuilds the active-cost table.
// Both writes share one transaction.
func (s *Service) Record(ctx context.Context, in PurchaseInput) (Result, error) {
	return s.append(ctx, in, nil)
}

// Revise records a corrected copy of an existing purchase. The original row is kept
// and the new one points back at it.
func (s *Service) Revise(ctx context.Context, id uint, in PurchaseInput) (Result, error) {
	if !s.Available() {
		return Result{}, ErrNoDatabase
	}
	if _, err := s.Purchase(ctx, id); err != nil {
		return Result{}, err
	}
	return s.append(ctx, in, &id)
}

func (s *Service) append(ctx context.Context, in PurchaseInput, revises *uint) (Result, error) {
	if !s.Available() {
		return Result{}, ErrNoDatabase
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		applog.Debug(ctx, "purchase rejected", "error", err, "ingredient", in.IngredientShortName)
		return Result{}, err
	}

	recordedAt := in.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}
	purchase := buildPurchase(in, s.UnitFactor(ctx, in.PurchaseUnit), recordedAt.UTC(), s.phoneRegion)
	purchase.RevisesID = revises

	s.mu.Lock()
	defer s.mu.Unlock()

	var consolidation costing.Consolidation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&purchase).Error; err != nil {
			return fmt.Errorf("append purchase: %w", err)
		}
		var err error
		consolidation, err = s.rebuild(ctx, tx)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	applog.Info(ctx, "purchase recorded",
		"purchaseID", purchase.ID,
		"ingredient", purchase.IngredientShortName,
		"unitCost", purchase.UnitCostForCosting.String(),
		"revises", revises != nil,
	)
	return Result{Purchase: purchase, Consolidation: consolidation}, nil
}

// Rebuild recomputes the whole active-cost table from the ledger.
func (s *Service) Rebuild(ctx context.Context) (costing.Consolidation, error) {
	if !s.Available() {
		return costing.Consolidation{}, ErrNoDatabase
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var consolidation costing.Consolidation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		consolidation, err = s.rebuild(ctx, tx)
		return err
	})
	return consolidation, err
}

func ledgerRows(tx *gorm.DB) ([]costing.LedgerRow, error) {
	var purchases []models.Purchase
	if err := tx.Select("id", "ingredient_short_name", "ingredient_group", "purchase_unit", "purchase_date", "unit_cost_for_costing", "recorded_at").
		Order("id").Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	rows := make([]costing.LedgerRow, 0, len(purchases))
	for _, p := range purchases {
		rows = append(rows, costing.LedgerRow{
			ID:                  p.ID,
			IngredientShortName: p.IngredientShortName,
			Group:               p.Group,
			PurchaseUnit:        p.PurchaseUnit,
			PurchaseDate:        p.PurchaseDate,
			UnitCostForCosting:  p.UnitCostForCosting,
			RecordedAt:          p.RecordedAt,
		})
	}
	return rows, nil
}

func (s *Service) rebuild(ctx context.Context, tx *gorm.DB) (costing.Consolidation, error) {
	rows, err := ledgerRows(tx)
	if err != nil {
		return costing.Consolidation{}, err
	}

	consolidation := costing.Consolidate(rows)
	for _, skipped := range consolidation.Skipped {
		applog.Warn(ctx, "ledger row left out of active costs",
			"purchaseID", skipped.ID,
			"ingredient", skipped.IngredientShortName,
			"purchaseDate", skipped.PurchaseDate,
			"reason", skipped.Reason,
		)
	}

	if err := tx.Where("1 = 1").Delete(&models.ActiveCost{}).Error; err != nil {
		return costing.Consolidation{}, fmt.Errorf("clear active costs: %w", err)
	}
	if len(consolidation.Entries) == 0 {
		return consolidation, nil
	}

	rebuiltAt := s.now().UTC()
	costs := make([]models.ActiveCost, 0, len(consolidation.Entries))
	for _, entry := range consolidation.Entries {
		costs = append(costs, models.ActiveCost{
			IngredientShortName: entry.IngredientShortName,
			Group:               entry.Group,
			PurchaseUnit:        entry.PurchaseUnit,
			ActiveUnitCost:      entry.ActiveUnitCost,
			LastPurchaseDate:    entry.LastPurchaseDate,
			PurchaseID:          entry.SourceID,
			RebuiltAt:           rebuiltAt,
		})
	}
	if err := tx.CreateInBatches(&costs, 200).Error; err != nil {
		return costing.Consolidation{}, fmt.Errorf("store active costs: %w", err)
	}
	return consolidation, nil
}

// Purchase loads a ledger row by id.
func (s *Service) Purchase(ctx context.Context, id uint) (models.Purchase, error) {
	if !s.Available() {
		return models.Purchase{}, ErrNoDatabase
	}
	var purchase models.Purchase
	if err := s.db.WithContext(ctx).First(&purchase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Purchase{}, ErrPurchaseNotFound
		}
		return models.Purchase{}, fmt.Errorf("load purchase %d: %w", id, err)
	}
	return purchase, nil
}

// PurchaseByReference loads a ledger row by its public reference.
func (s *Service) PurchaseByReference(ctx context.Context, reference string) (models.Purchase, error) {
	if !s.Available() {
		return models.Purchase{}, ErrNoDatabase
	}
	var purchase models.Purchase
	err := s.db.WithContext(ctx).Where("reference = ?", strings.TrimSpace(reference)).First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Purchase{}, ErrPurchaseNotFound
		}
		return models.Purchase{}, fmt.Errorf("load purchase %s: %w", reference, err)
	}
	return purchase, nil
}

// Purchases lists the ledger, newest first.
func (s *Service) Purchases(ctx context.Context, filter PurchaseFilter) ([]models.Purchase, error) {
	if !s.Available() {
		return nil, ErrNoDatabase
	}
	query := s.db.WithContext(ctx).Model(&models.Purchase{})
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		like := "%" + q + "%"
		query = query.Where("lower(ingredient_short_name) LIKE ? OR lower(ingredient_full_name) LIKE ? OR lower(supplier_name) LIKE ?", like, like, like)
	}
	if group := strings.TrimSpace(filter.Group); group != "" {
		query = query.Where("ingredient_group = ?", group)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var purchases []models.Purchase
	if err := query.Order("recorded_at DESC").Order("id DESC").Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}

// AllPurchases returns the whole ledger in insertion order.
func (s *Service) AllPurchases(ctx context.Context) ([]models.Purchase, error) {
	if !s.Available() {
		return nil, ErrNoDatabase
	}
	var purchases []models.Purchase
	if err := s.db.WithContext(ctx).Order("id").Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}

// ActiveCosts returns the active-cost table sorted by ingredient.
func (s *Service) ActiveCosts(ctx context.Context) ([]models.ActiveCost, error) {
	if !s.Available() {
		return nil, ErrNoDatabase
	}
	var costs []models.ActiveCost
	if err := s.db.WithContext(ctx).Order("ingredient_short_name").Find(&costs).Error; err != nil {
		return nil, fmt.Errorf("list active costs: %w", err)
	}
	return costs, nil
}

// Summary holds headline counts for the dashboard.
type Summary struct {
	Purchases   int64
	Ingredients int64
	Units       int64
	Groups      int64
	LastRecord  *models.Purchase
	Skipped     []costing.SkippedRow
}

// Summary gathers dashboard counts and re-checks the ledger for rows that cannot
// take part in consolidation.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	if !s.Available() {
		return Summary{}, ErrNoDatabase
	}
	db := s.db.WithContext(ctx)
	var summary Summary
	if err := db.Model(&models.Purchase{}).Count(&summary.Purchases).Error; err != nil {
		return Summary{}, fmt.Errorf("count purchases: %w", err)
	}
	if err := db.Model(&models.ActiveCost{}).Count(&summary.Ingredients).Error; err != nil {
		return Summary{}, fmt.Errorf("count active costs: %w", err)
	}
	if err := db.Model(&models.Unit{}).Count(&summary.Units).Error; err != nil {
		return Summary{}, fmt.Errorf("count units: %w", err)
	}
	if err := db.Model(&models.Group{}).Count(&summary.Groups).Error; err != nil {
		return Summary{}, fmt.Errorf("count groups: %w", err)
	}

	recent, err := s.Purchases(ctx, PurchaseFilter{Limit: 1})
	if err != nil {
		return Summary{}, err
	}
	if len(recent) > 0 {
		summary.LastRecord = &recent[0]
	}

	skipped, err := s.Skipped(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary.Skipped = skipped
	return summary, nil
}

// Skipped lists ledger rows the consolidator cannot rank.
func (s *Service) Skipped(ctx context.Context) ([]costing.SkippedRow, error) {
	if !s.Available() {
		return nil, ErrNoDatabase
	}
	rows, err := ledgerRows(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return costing.Consolidate(rows).Skipped, nil
}
