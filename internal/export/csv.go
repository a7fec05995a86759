// Package export renders the purchase ledger and the active-cost table as CSV, XLSX
// and PDF documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"fichapp/models"
)

// RecordedAtLayout formats the atualizado_em column.
const RecordedAtLayout = "2006-01-02 15:04:05"

// LedgerColumns is the header of the ledger CSV, kept compatible with the legacy
// spreadsheets so files round-trip through the import command.
var LedgerColumns = []string{
	"data_compra",
	"grupo",
	"insumo_resumo",
	"insumo_completo",
	"marca",
	"tipo",
	"un_med",
	"quantidade_compra",
	"qtde_para_custos",
	"valor_total_compra",
	"valor_frete",
	"percentual_perda",
	"valor_unit_bruto",
	"custo_total_com_frete",
	"quantidade_liquida",
	"custo_real_unitario",
	"valor_unit_para_custos",
	"fornecedor",
	"fone_fornecedor",
	"representante",
	"documento",
	"observacao",
	"atualizado_em",
}

// ActiveCostColumns is the header of the active-cost CSV.
var ActiveCostColumns = []string{
	"insumo",
	"grupo",
	"un_med",
	"custo_unitario_ativo",
	"data_ultima_compra",
}

// WriteLedgerCSV writes purchases in ledger order.
func WriteLedgerCSV(w io.Writer, purchases []models.Purchase) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(LedgerColumns); err != nil {
		return err
	}
	for _, p := range purchases {
		if err := writer.Write(ledgerRecord(p)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ledgerRecord(p models.Purchase) []string {
	return []string{
		p.PurchaseDate,
		p.Group,
		p.IngredientShortName,
		p.IngredientFullName,
		p.Brand,
		models.KindLabel(p.Kind),
		p.PurchaseUnit,
		fixed(p.PurchasedQuantity, 4),
		fixed(p.CostingQuantity, 4),
		fixed(p.TotalPurchaseValue, 2),
		fixed(p.FreightValue, 2),
		fixed(p.WastePercent, 2),
		fixed(p.GrossUnitValue, 4),
		fixed(p.TotalCostWithFreight, 2),
		fixed(p.NetQuantity, 4),
		fixed(p.RealUnitCost, 4),
		fixed(p.UnitCostForCosting, 6),
		p.SupplierName,
		p.SupplierPhone,
		p.Representative,
		p.Document,
		p.Note,
		p.RecordedAt.UTC().Format(RecordedAtLayout),
	}
}

// WriteActiveCostsCSV writes the active-cost table.
func WriteActiveCostsCSV(w io.Writer, costs []models.ActiveCost) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ActiveCostColumns); err != nil {
		return err
	}
	for _, cost := range costs {
		record := []string{
			cost.IngredientShortName,
			cost.Group,
			cost.PurchaseUnit,
			fixed(cost.ActiveUnitCost, 6),
			cost.LastPurchaseDate,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFileAtomic writes path through a temporary file in the same directory so
// readers never observe a partially written export.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("export: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("export: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("export: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("export: replace %s: %w", path, err)
	}
	return nil
}

func fixed(value decimal.Decimal, places int32) string {
	return value.StringFixed(places)
}
