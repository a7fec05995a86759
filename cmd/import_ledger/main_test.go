package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const purchasesCSV = `data_compra,grupo,insumo_resumo,insumo_completo,marca,tipo,un_med,quantidade_compra,qtde_para_custos,valor_total_compra,valor_frete,percentual_perda,fornecedor,atualizado_em
10/01/2024,Hortifruti,Ovos,Ovos brancos,Granja,Comprado,DZ,12,,"120,00","10,00",10,Granja Boa,2024-01-10 08:00:00
05/01/2024,Mercearia,Azeite,,,Comprado,GL,2,,"50,00",0,0,,
06/01/2024,Secos,Feijao,,,Comprado,KG,0,,"10,00",0,0,,
31/02/2024,Secos,Sal,,,Comprado,KG,1,,"2,00",0,0,,
`

const unitsCSV = `codigo,descricao,qtde_padrao
GL,Galão,5
KG,Quilograma,1
`

func TestRunImportsLedgerAndWritesActiveCosts(t *testing.T) {
	dir := t.TempDir()
	purchasesPath := filepath.Join(dir, "compras.csv")
	unitsPath := filepath.Join(dir, "unidades.csv")
	if err := os.WriteFile(purchasesPath, []byte(purchasesCSV), 0o600); err != nil {
		t.Fatalf("write purchases: %v", err)
	}
	if err := os.WriteFile(unitsPath, []byte(unitsCSV), 0o600); err != nil {
		t.Fatalf("write units: %v", err)
	}

	exportDir := filepath.Join(dir, "exports")
	t.Setenv("DATABASE_URL", filepath.Join(dir, "fichapp.db"))
	t.Setenv("DATABASE_USE_MOCK", "false")
	t.Setenv("EXPORT_DIR", exportDir)
	t.Setenv("LOG_LEVEL", "error")

	if err := run(context.Background(), []string{purchasesPath, unitsPath}); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	written, err := os.ReadFile(filepath.Join(exportDir, activeCostsFile))
	if err != nil {
		t.Fatalf("read active costs: %v", err)
	}
	content := string(written)
	if !strings.Contains(content, "Ovos,Hortifruti,DZ,1.003086,10/01/2024") {
		t.Fatalf("expected eggs active cost, got:\n%s", content)
	}
	if !strings.Contains(content, "Azeite,Mercearia,GL,5.000000,05/01/2024") {
		t.Fatalf("expected olive oil priced with the imported GL factor, got:\n%s", content)
	}
	if strings.Contains(content, "Feijao") {
		t.Fatalf("row with zero quantity should have been rejected, got:\n%s", content)
	}
	if strings.Contains(content, "Sal,") {
		t.Fatalf("row with an impossible date should stay out of active costs, got:\n%s", content)
	}
}

func TestRunRequiresPurchasesPath(t *testing.T) {
	if err := run(context.Background(), nil); err == nil {
		t.Fatal("expected usage error without arguments")
	}
	if err := run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.csv")}); err == nil {
		t.Fatal("expected error for a missing csv")
	}
}

func TestReadCSVDecodesWindows1252Semicolons(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.csv")
	raw := []byte("Insumo_Resumo;Tipo\r\nFeij\xe3o;Produzido no restaurante\r\n\r\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := readCSV(path)
	if err != nil {
		t.Fatalf("readCSV returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if got := records[0]["insumo_resumo"]; got != "Feijão" {
		t.Fatalf("expected decoded name Feijão, got %q", got)
	}

	row := buildImportRow(2, records[0])
	if row.Input.Kind != "self_produced" {
		t.Fatalf("expected self_produced kind, got %q", row.Input.Kind)
	}
	if row.Line != 2 {
		t.Fatalf("expected line 2, got %d", row.Line)
	}
}

func TestReadCSVRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if _, err := readCSV(path); err == nil {
		t.Fatal("expected error for an empty csv")
	}
}

func TestSheetDecimalKeepsDotFractions(t *testing.T) {
	cases := map[string]string{
		"":         "0",
		"2.500":    "2.5",
		"144.0000": "144",
		"1.234,56": "1234.56",
		"12":       "12",
	}
	for raw, want := range cases {
		got, err := sheetDecimal(raw)
		if err != nil {
			t.Fatalf("sheetDecimal(%q): %v", raw, err)
		}
		if got.String() != want {
			t.Fatalf("sheetDecimal(%q) = %s, want %s", raw, got.String(), want)
		}
	}
	if _, err := sheetDecimal("doze"); err == nil {
		t.Fatal("expected error for a word")
	}
}
