package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	applog "fichapp/internal/log"
	"fichapp/models"
)

// DefaultUnits is the unit catalog a new installation starts with.
var DefaultUnits = []models.Unit{
	{Code: "KG", Description: "Quilograma", ConversionFactor: decimal.NewFromInt(1)},
	{Code: "G", Description: "Grama", ConversionFactor: decimal.NewFromInt(1)},
	{Code: "L", Description: "Litro", ConversionFactor: decimal.NewFromInt(1)},
	{Code: "ML", Description: "Mililitro", ConversionFactor: decimal.NewFromInt(1)},
	{Code: "UN", Description: "Unidade", ConversionFactor: decimal.NewFromInt(1)},
	{Code: "DZ", Description: "Dúzia", ConversionFactor: decimal.NewFromInt(12)},
	{Code: "MIL", Description: "Milheiro", ConversionFactor: decimal.NewFromInt(1000)},
	{Code: "CT", Description: "Cento", ConversionFactor: decimal.NewFromInt(100)},
	{Code: "CX", Description: "Caixa", ConversionFactor: decimal.NewFromInt(1)},
	{Code: "FD", Description: "Fardo", ConversionFactor: decimal.NewFromInt(1)},
	{Code: "PAC", Description: "Pacote", ConversionFactor: decimal.NewFromInt(1)},
	{Code: "BAN", Description: "Bandeja", ConversionFactor: decimal.NewFromInt(1)},
	{Code: "PAR", Description: "Par", ConversionFactor: decimal.NewFromInt(2)},
	{Code: "POR", Description: "Porção", ConversionFactor: decimal.NewFromInt(1)},
}

// DefaultGroups is the ingredient group catalog a new installation starts with.
var DefaultGroups = []string{
	"Embalagem",
	"Peixe",
	"Carne",
	"Hortifruti",
	"Bebida",
	"Frios",
	"Molhos e Temperos",
	"Grãos e Cereais",
	"Higiene",
	"Limpeza",
	"Outros",
}

// DefaultParameters lists the financial parameters and their starting percentages.
var DefaultParameters = []models.FinancialParameter{
	{Name: "Margem de Contribuição", Value: decimal.RequireFromString("50.43"), Note: "Margem de contribuição média alvo"},
	{Name: "Lucro Desejado", Value: decimal.NewFromInt(20), Note: "Percentual de lucro desejado"},
	{Name: "Comissão APP", Value: decimal.Zero, Note: "Comissão de aplicativos de entrega"},
	{Name: "Simples", Value: decimal.NewFromInt(5), Note: "Alíquota do Simples Nacional"},
	{Name: "Cashback Menudino", Value: decimal.NewFromInt(1), Note: "Cashback concedido"},
	{Name: "Comissão Atendente", Value: decimal.NewFromInt(1), Note: "Comissão da equipe de atendimento"},
	{Name: "Taxa Cartão", Value: decimal.NewFromInt(5), Note: "Taxa média das maquininhas"},
	{Name: "Outros (1)", Value: decimal.NewFromInt(1), Note: ""},
	{Name: "Outros (2)", Value: decimal.NewFromInt(1), Note: ""},
}

// EnsureDefaults inserts any missing default unit, group or financial parameter.
// Existing rows are never modified, so it is safe to call on every start.
func EnsureDefaults(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return ErrNoDatabase
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created := 0
		for _, unit := range DefaultUnits {
			row := unit
			res := tx.Where(models.Unit{Code: row.Code}).Attrs(row).FirstOrCreate(&row)
			if res.Error != nil {
				return fmt.Errorf("seed unit %s: %w", unit.Code, res.Error)
			}
			created += int(res.RowsAffected)
		}
		for _, name := range DefaultGroups {
			row := models.Group{Name: name}
			res := tx.Where(models.Group{Name: name}).FirstOrCreate(&row)
			if res.Error != nil {
				return fmt.Errorf("seed group %s: %w", name, res.Error)
			}
			created += int(res.RowsAffected)
		}
		for position, param := range DefaultParameters {
			row := param
			row.Position = position + 1
			res := tx.Where(models.FinancialParameter{Name: row.Name}).Attrs(row).FirstOrCreate(&row)
			if res.Error != nil {
				return fmt.Errorf("seed financial parameter %s: %w", param.Name, res.Error)
			}
			created += int(res.RowsAffected)
		}
		applog.Debug(ctx, "default catalog ensured", "created", created)
		return nil
	})
}
