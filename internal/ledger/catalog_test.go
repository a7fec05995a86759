package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fichapp/models"
)

func TestEnsureDefaultsIsIdempotent(t *testing.T) {
	t.Parallel()
	_, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, EnsureDefaults(ctx, db))

	var units, groups, params int64
	require.NoError(t, db.Model(&models.Unit{}).Count(&units).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groups).Error)
	require.NoError(t, db.Model(&models.FinancialParameter{}).Count(&params).Error)
	assert.Equal(t, int64(len(DefaultUnits)), units)
	assert.Equal(t, int64(len(DefaultGroups)), groups)
	assert.Equal(t, int64(len(DefaultParameters)), params)
}

func TestAddUnit(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	unit, err := svc.AddUnit(ctx, UnitInput{Code: " gf ", Description: "Garrafa"})
	require.NoError(t, err)
	assert.Equal(t, "GF", unit.Code)
	assert.Equal(t, "1", unit.ConversionFactor.String())

	_, err = svc.AddUnit(ctx, UnitInput{Code: "Gf", Description: "Outra garrafa"})
	assert.ErrorIs(t, err, ErrDuplicateUnit)
	assert.True(t, IsConflict(err))

	_, err = svc.AddUnit(ctx, UnitInput{Code: "", Description: "Sem código"})
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.NotEmpty(t, verr.Field("code"))

	sixPack, err := svc.AddUnit(ctx, UnitInput{Code: "SIX", Description: "Pack com seis", ConversionFactor: decimal.NewFromInt(6)})
	require.NoError(t, err)
	assert.Equal(t, "6", sixPack.ConversionFactor.String())
	assert.Equal(t, "6", svc.UnitFactor(ctx, "six").String())

	negative, err := svc.AddUnit(ctx, UnitInput{Code: "NEG", Description: "Fator inválido", ConversionFactor: decimal.NewFromInt(-2)})
	require.NoError(t, err)
	assert.Equal(t, "1", negative.ConversionFactor.String())
}

func TestAddGroup(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	group, err := svc.AddGroup(ctx, GroupInput{Name: "  Padaria "})
	require.NoError(t, err)
	assert.Equal(t, "Padaria", group.Name)

	_, err = svc.AddGroup(ctx, GroupInput{Name: "hortifruti"})
	assert.ErrorIs(t, err, ErrDuplicateGroup)

	_, err = svc.AddGroup(ctx, GroupInput{Name: "   "})
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	groups, err := svc.Groups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, len(DefaultGroups)+1)
}

func TestUpdateParameters(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	params, err := svc.Parameters(ctx)
	require.NoError(t, err)
	require.Len(t, params, len(DefaultParameters))
	assert.Equal(t, "Margem de Contribuição", params[0].Name)
	assert.Equal(t, "50.43", params[0].Value.StringFixed(2))

	err = svc.UpdateParameters(ctx, []ParameterInput{{Name: "Taxa Cartão", Value: decimal.RequireFromString("3.5"), Note: "Nova maquininha"}})
	require.NoError(t, err)

	params, err = svc.Parameters(ctx)
	require.NoError(t, err)
	for _, p := range params {
		if p.Name == "Taxa Cartão" {
			assert.Equal(t, "3.50", p.Value.StringFixed(2))
			assert.Equal(t, "Nova maquininha", p.Note)
		}
	}

	err = svc.UpdateParameters(ctx, []ParameterInput{{Name: "Royalties", Value: decimal.NewFromInt(2)}})
	assert.ErrorIs(t, err, ErrUnknownParameter)

	err = svc.UpdateParameters(ctx, []ParameterInput{{Name: "Simples", Value: decimal.NewFromInt(140)}})
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Reason, "Simples")
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{"blank", "  ", "BR", ""},
		{"sao paulo landline", "(11) 3456-7890", "BR", "+551134567890"},
		{"default region", "11 3456-7890", "", "+551134567890"},
		{"not a number", "ligar para o Zé", "BR", "ligar para o Zé"},
		{"too short", "1234", "BR", "1234"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizePhone(tt.raw, tt.region))
		})
	}
}
