package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"fichapp/internal/config"
	"fichapp/internal/db"
	"fichapp/internal/export"
	"fichapp/internal/ledger"
	applog "fichapp/internal/log"
	"fichapp/models"
)

// activeCostsFile is written to the export directory after every import.
const activeCostsFile = "custos_ativos.csv"

var openDatabase = db.Configure

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("usage: import_ledger <compras.csv> [unidades.csv]")
	}
	purchasesPath := args[0]
	unitsPath := ""
	if len(args) > 1 {
		unitsPath = args[1]
	}

	if _, err := os.Stat(purchasesPath); err != nil {
		return fmt.Errorf("locate csv: %w", err)
	}

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.UseMock {
		return fmt.Errorf("DATABASE_URL must point at a real database to import")
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}

	database, err := openDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	service := ledger.New(database, ledger.WithPhoneRegion(cfg.Costing.PhoneRegion))

	if unitsPath != "" {
		added, err := importUnits(ctx, service, unitsPath)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d unit(s) from %s\n", added, unitsPath)
	}

	records, err := readCSV(purchasesPath)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	rows := make([]ledger.ImportRow, 0, len(records))
	for idx, record := range records {
		// Line numbers count the header row.
		rows = append(rows, buildImportRow(idx+2, record))
	}

	result, err := service.Import(ctx, rows)
	if err != nil {
		return fmt.Errorf("import purchases: %w", err)
	}

	for _, rejected := range result.Rejected {
		fmt.Fprintf(os.Stderr, "line %d rejected: %s\n", rejected.Line, rejected.Reason)
	}
	for _, skipped := range result.Consolidation.Skipped {
		fmt.Fprintf(os.Stderr, "purchase #%d (%s) left out of active costs: %s\n", skipped.ID, skipped.IngredientShortName, skipped.Reason)
	}

	target, err := writeActiveCosts(ctx, service, cfg.Costing.ExportDir)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d purchase(s), rejected %d, %d active cost(s) written to %s\n",
		result.Imported, len(result.Rejected), len(result.Consolidation.Entries), target)
	return nil
}

func importUnits(ctx context.Context, service *ledger.Service, path string) (int, error) {
	records, err := readCSV(path)
	if err != nil {
		return 0, fmt.Errorf("read units csv: %w", err)
	}

	added := 0
	for idx, record := range records {
		factor, err := sheetDecimal(record["qtde_padrao"])
		if err != nil {
			return added, fmt.Errorf("units line %d: %w", idx+2, err)
		}
		_, err = service.AddUnit(ctx, ledger.UnitInput{
			Code:             record["codigo"],
			Description:      record["descricao"],
			ConversionFactor: factor,
		})
		switch {
		case err == nil:
			added++
		case ledger.IsConflict(err):
			continue
		default:
			return added, fmt.Errorf("units line %d: %w", idx+2, err)
		}
	}
	return added, nil
}

func writeActiveCosts(ctx context.Context, service *ledger.Service, dir string) (string, error) {
	costs, err := service.ActiveCosts(ctx)
	if err != nil {
		return "", fmt.Errorf("load active costs: %w", err)
	}
	target := filepath.Join(dir, activeCostsFile)
	err = export.WriteFileAtomic(target, func(w io.Writer) error {
		return export.WriteActiveCostsCSV(w, costs)
	})
	if err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, nil
}

// readCSV loads a legacy sheet into header-keyed records. Files that are not valid
// UTF-8 are decoded as Windows-1252, the encoding the old spreadsheets were saved in.
func readCSV(path string) ([]map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	var source io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		source = transform.NewReader(source, charmap.Windows1252.NewDecoder())
	}

	reader := csv.NewReader(source)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	if bytes.Count(firstLine(raw), []byte(";")) > bytes.Count(firstLine(raw), []byte(",")) {
		reader.Comma = ';'
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := make([]string, len(rows[0]))
	for idx, key := range rows[0] {
		header[idx] = strings.ToLower(strings.TrimSpace(key))
	}
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[key] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}

	return records, nil
}

func firstLine(raw []byte) []byte {
	if idx := bytes.IndexByte(raw, '\n'); idx >= 0 {
		return raw[:idx]
	}
	return raw
}

// buildImportRow maps the legacy columns onto a purchase. Derived columns are ignored
// because the service recomputes them. Numbers that cannot be read are left at zero
// so validation rejects the row with a readable reason.
func buildImportRow(line int, record map[string]string) ledger.ImportRow {
	in := ledger.PurchaseInput{
		PurchaseDate:        record["data_compra"],
		IngredientShortName: record["insumo_resumo"],
		IngredientFullName:  record["insumo_completo"],
		Group:               record["grupo"],
		Brand:               record["marca"],
		Kind:                models.KindFromLabel(record["tipo"]),
		PurchaseUnit:        strings.ToUpper(record["un_med"]),
		PurchasedQuantity:   decimalOrZero(record["quantidade_compra"]),
		CostingQuantity:     decimalOrZero(record["qtde_para_custos"]),
		TotalPurchaseValue:  decimalOrZero(record["valor_total_compra"]),
		FreightValue:        decimalOrZero(record["valor_frete"]),
		WastePercent:        decimalOrZero(record["percentual_perda"]),
		SupplierName:        record["fornecedor"],
		SupplierPhone:       record["fone_fornecedor"],
		Representative:      record["representante"],
		Document:            record["documento"],
		Note:                record["observacao"],
	}
	if stamp := strings.TrimSpace(record["atualizado_em"]); stamp != "" {
		if recordedAt, err := time.Parse(export.RecordedAtLayout, stamp); err == nil {
			in.RecordedAt = recordedAt
		}
	}
	return ledger.ImportRow{Line: line, Input: in}
}

func decimalOrZero(raw string) decimal.Decimal {
	value, err := sheetDecimal(raw)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// sheetDecimal reads a number written by a spreadsheet export. Dot-decimal values
// such as "2.500" are taken as written; comma values go through ledger.ParseDecimal.
func sheetDecimal(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	if value == "" || strings.Contains(value, ",") {
		return ledger.ParseDecimal(value)
	}
	return decimal.NewFromString(value)
}
