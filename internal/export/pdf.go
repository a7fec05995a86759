package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"fichapp/models"
)

// WriteActiveCostsPDF renders the active-cost table as an A4 price sheet.
func WriteActiveCostsPDF(w io.Writer, costs []models.ActiveCost, generatedAt time.Time) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		SizeStr:        "A4",
	})
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24
	colName := contentW * 0.36
	colGroup := contentW * 0.22
	colUnit := contentW * 0.10
	colCost := contentW * 0.16
	colDate := contentW - colName - colGroup - colUnit - colCost

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(217, 225, 242)
		pdf.CellFormat(colName, 6, tr("Insumo"), "B", 0, "L", true, 0, "")
		pdf.CellFormat(colGroup, 6, tr("Grupo"), "B", 0, "L", true, 0, "")
		pdf.CellFormat(colUnit, 6, tr("Un."), "B", 0, "C", true, 0, "")
		pdf.CellFormat(colCost, 6, tr("Custo unitário"), "B", 0, "R", true, 0, "")
		pdf.CellFormat(colDate, 6, tr("Última compra"), "B", 1, "C", true, 0, "")
		pdf.SetFont("Helvetica", "", 8)
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(contentW, 7, tr("FichApp - Custos ativos"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(contentW, 5, tr("Gerado em "+generatedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
		pdf.Ln(2)
		header()
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(contentW, 4, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	if len(costs) == 0 {
		pdf.Ln(2)
		pdf.CellFormat(contentW, 6, tr("Nenhuma compra registrada."), "", 1, "L", false, 0, "")
	}
	for _, cost := range costs {
		pdf.CellFormat(colName, 5, tr(cost.IngredientShortName), "", 0, "L", false, 0, "")
		pdf.CellFormat(colGroup, 5, tr(cost.Group), "", 0, "L", false, 0, "")
		pdf.CellFormat(colUnit, 5, tr(cost.PurchaseUnit), "", 0, "C", false, 0, "")
		pdf.CellFormat(colCost, 5, "R$ "+cost.ActiveUnitCost.StringFixed(6), "", 0, "R", false, 0, "")
		pdf.CellFormat(colDate, 5, cost.LastPurchaseDate, "", 1, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: render pdf: %w", err)
	}
	return nil
}
