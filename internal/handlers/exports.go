package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"fichapp/internal/export"
	applog "fichapp/internal/log"
	"fichapp/internal/views/pages"
)

var nowFunc = time.Now

// Exports renders the download page.
func Exports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderPage(w, r, http.StatusOK, pages.Exports(), pages.ExportsPartial())
}

// ExportLedgerCSV downloads the whole ledger in the legacy spreadsheet layout.
func ExportLedgerCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rows, err := purchases.AllPurchases(r.Context())
	if err != nil {
		status, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, status)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteLedgerCSV(&buf, rows); err != nil {
		applog.Error(r.Context(), "failed to write ledger csv", "error", err)
		http.Error(w, "We were unable to generate the export. Please try again.", http.StatusInternalServerError)
		return
	}
	sendDownload(w, r, "text/csv; charset=utf-8", exportName("compras", "csv"), buf.Bytes())
}

// ExportWorkbook downloads the active costs and the ledger as an XLSX workbook.
func ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	costs, err := purchases.ActiveCosts(r.Context())
	if err != nil {
		status, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, status)
		return
	}
	rows, err := purchases.AllPurchases(r.Context())
	if err != nil {
		status, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, status)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, costs, rows); err != nil {
		applog.Error(r.Context(), "failed to write workbook", "error", err)
		http.Error(w, "We were unable to generate the export. Please try again.", http.StatusInternalServerError)
		return
	}
	sendDownload(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", exportName("custos", "xlsx"), buf.Bytes())
}

// ExportActiveCostsPDF downloads the printable active-cost sheet.
func ExportActiveCostsPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	costs, err := purchases.ActiveCosts(r.Context())
	if err != nil {
		status, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, status)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteActiveCostsPDF(&buf, costs, nowFunc()); err != nil {
		applog.Error(r.Context(), "failed to write active cost pdf", "error", err)
		http.Error(w, "We were unable to generate the export. Please try again.", http.StatusInternalServerError)
		return
	}
	sendDownload(w, r, "application/pdf", exportName("custos-ativos", "pdf"), buf.Bytes())
}

func exportName(base, ext string) string {
	return fmt.Sprintf("%s-%s.%s", base, nowFunc().UTC().Format("20060102"), ext)
}

func sendDownload(w http.ResponseWriter, r *http.Request, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	if _, err := w.Write(body); err != nil {
		applog.Error(r.Context(), "failed to send export", "error", err, "file", filename)
	}
}
