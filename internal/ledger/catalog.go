package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fichapp/internal/costing"
	applog "fichapp/internal/log"
	"fichapp/models"
)

// UnitInput describes a unit to add to the catalog.
type UnitInput struct {
	Code             string          `form:"code" validate:"required,max=16"`
	Description      string          `form:"description" validate:"required,max=64"`
	ConversionFactor decimal.Decimal `form:"conversion_factor"`
}

var unitMessages = map[string]string{
	"code":        "Unit code is required (up to 16 characters).",
	"description": "Unit description is required.",
}

// GroupInput describes an ingredient group to add.
type GroupInput struct {
	Name string `form:"name" validate:"required,max=64"`
}

var groupMessages = map[string]string{
	"name": "Group name is required (up to 64 characters).",
}

// ParameterInput updates one financial parameter.
type ParameterInput struct {
	Name  string          `form:"name" validate:"required"`
	Value decimal.Decimal `form:"value" validate:"gte=0,lte=100"`
	Note  string          `form:"note"`
}

var parameterMessages = map[string]string{
	"name":  "Parameter name is required.",
	"value": "Parameter values must be between 0 and 100.",
}

// Units lists the catalog units by code.
func (s *Service) Units(ctx context.Context) ([]models.Unit, error) {
	if !s.Available() {
		return nil, ErrNoDatabase
	}
	var units []models.Unit
	if err := s.db.WithContext(ctx).Order("code").Find(&units).Error; err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}

// AddUnit stores a new unit. Codes are upper-cased and must be unique; a blank or
// non-positive factor is stored as 1.
func (s *Service) AddUnit(ctx context.Context, in UnitInput) (models.Unit, error) {
	if !s.Available() {
		return models.Unit{}, ErrNoDatabase
	}
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Description = strings.TrimSpace(in.Description)
	if err := Check(in, unitMessages); err != nil {
		return models.Unit{}, err
	}

	unit := models.Unit{
		Code:             in.Code,
		Description:      in.Description,
		ConversionFactor: costing.Factor(in.ConversionFactor),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Unit{}).Where("code = ?", unit.Code).Count(&count).Error; err != nil {
			return fmt.Errorf("check unit %s: %w", unit.Code, err)
		}
		if count > 0 {
			return ErrDuplicateUnit
		}
		if err := tx.Create(&unit).Error; err != nil {
			return fmt.Errorf("create unit %s: %w", unit.Code, err)
		}
		return nil
	})
	if err != nil {
		return models.Unit{}, err
	}
	applog.Info(ctx, "unit added", "code", unit.Code, "factor", unit.ConversionFactor.String())
	return unit, nil
}

// Groups lists ingredient groups by name.
func (s *Service) Groups(ctx context.Context) ([]models.Group, error) {
	if !s.Available() {
		return nil, ErrNoDatabase
	}
	var groups []models.Group
	if err := s.db.WithContext(ctx).Order("name").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// AddGroup stores a new ingredient group. Names are unique ignoring case.
func (s *Service) AddGroup(ctx context.Context, in GroupInput) (models.Group, error) {
	if !s.Available() {
		return models.Group{}, ErrNoDatabase
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := Check(in, groupMessages); err != nil {
		return models.Group{}, err
	}

	group := models.Group{Name: in.Name}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Group{}).Where("lower(name) = ?", strings.ToLower(group.Name)).Count(&count).Error; err != nil {
			return fmt.Errorf("check group %s: %w", group.Name, err)
		}
		if count > 0 {
			return ErrDuplicateGroup
		}
		if err := tx.Create(&group).Error; err != nil {
			return fmt.Errorf("create group %s: %w", group.Name, err)
		}
		return nil
	})
	if err != nil {
		return models.Group{}, err
	}
	applog.Info(ctx, "group added", "name", group.Name)
	return group, nil
}

// Parameters lists the financial parameters in display order.
func (s *Service) Parameters(ctx context.Context) ([]models.FinancialParameter, error) {
	if !s.Available() {
		return nil, ErrNoDatabase
	}
	var params []models.FinancialParameter
	if err := s.db.WithContext(ctx).Order("position").Order("name").Find(&params).Error; err != nil {
		return nil, fmt.Errorf("list financial parameters: %w", err)
	}
	return params, nil
}

// UpdateParameters saves new values for existing parameters. Every input is validated
// before anything is written, and unknown names abort the whole update.
func (s *Service) UpdateParameters(ctx context.Context, inputs []ParameterInput) error {
	if !s.Available() {
		return ErrNoDatabase
	}
	for i := range inputs {
		inputs[i].Name = strings.TrimSpace(inputs[i].Name)
		inputs[i].Note = strings.TrimSpace(inputs[i].Note)
		if err := Check(inputs[i], parameterMessages); err != nil {
			if verr, ok := AsValidationError(err); ok && inputs[i].Name != "" {
				verr.Reason = inputs[i].Name + ": " + verr.Reason
			}
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			res := tx.Model(&models.FinancialParameter{}).Where("name = ?", in.Name).
				Updates(map[string]any{"value": in.Value, "note": in.Note})
			if res.Error != nil {
				return fmt.Errorf("update parameter %s: %w", in.Name, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrUnknownParameter, in.Name)
			}
		}
		return nil
	})
}

// IsConflict reports whether err signals a duplicate catalog entry.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateUnit) || errors.Is(err, ErrDuplicateGroup)
}
