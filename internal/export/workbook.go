package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fichapp/models"
)

// Sheet names of the exported workbook.
const (
	ActiveCostsSheet = "Custos Ativos"
	PurchasesSheet   = "Compras"
)

// WriteWorkbook writes an XLSX workbook holding the active-cost table and the ledger.
func WriteWorkbook(w io.Writer, costs []models.ActiveCost, purchases []models.Purchase) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ActiveCostsSheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(PurchasesSheet); err != nil {
		return fmt.Errorf("export: add sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#8EA9DB", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	if err := writeHeader(f, ActiveCostsSheet, ActiveCostColumns, headerStyle); err != nil {
		return err
	}
	for i, cost := range costs {
		row := i + 2
		values := []any{
			cost.IngredientShortName,
			cost.Group,
			cost.PurchaseUnit,
			cost.ActiveUnitCost.InexactFloat64(),
			cost.LastPurchaseDate,
		}
		if err := writeRow(f, ActiveCostsSheet, row, values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(ActiveCostsSheet, "A", "A", 32); err != nil {
		return err
	}

	if err := writeHeader(f, PurchasesSheet, LedgerColumns, headerStyle); err != nil {
		return err
	}
	for i, p := range purchases {
		record := ledgerRecord(p)
		values := make([]any, len(record))
		for j, value := range record {
			values[j] = value
		}
		// Numeric columns are stored as numbers so the sheet can be recalculated.
		values[7] = p.PurchasedQuantity.InexactFloat64()
		values[8] = p.CostingQuantity.InexactFloat64()
		values[9] = p.TotalPurchaseValue.InexactFloat64()
		values[10] = p.FreightValue.InexactFloat64()
		values[11] = p.WastePercent.InexactFloat64()
		values[12] = p.GrossUnitValue.InexactFloat64()
		values[13] = p.TotalCostWithFreight.InexactFloat64()
		values[14] = p.NetQuantity.InexactFloat64()
		values[15] = p.RealUnitCost.InexactFloat64()
		values[16] = p.UnitCostForCosting.InexactFloat64()
		if err := writeRow(f, PurchasesSheet, i+2, values); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeHeader(f *excelize.File, sheet string, columns []string, style int) error {
	for i, header := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
