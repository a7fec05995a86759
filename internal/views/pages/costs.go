package pages

import (
	"time"

	"github.com/a-h/templ"

	"fichapp/internal/costing"
	"fichapp/models"
)

// ActiveCostsData feeds the active-cost table.
type ActiveCostsData struct {
	Query     string
	Costs     []models.ActiveCost
	Skipped   []costing.SkippedRow
	RebuiltAt time.Time
	Message   string
}

// ActiveCosts renders the active-cost table inside the application shell.
func ActiveCosts(data ActiveCostsData) templ.Component {
	return page("Active costs", "active-costs", ActiveCostsPartial(data))
}

// ActiveCostsPartial renders the active-cost table body.
func ActiveCostsPartial(data ActiveCostsData) templ.Component {
	return render("active_costs.html", data)
}

// ExportLink is one downloadable document.
type ExportLink struct {
	Label       string
	Href        string
	Description string
}

// ExportLinks lists the documents offered on the exports page.
var ExportLinks = []ExportLink{
	{Label: "Ledger (CSV)", Href: "/app/exports/ledger.csv", Description: "Every purchase in the legacy spreadsheet layout."},
	{Label: "Workbook (XLSX)", Href: "/app/exports/costs.xlsx", Description: "Active costs and purchases in two sheets."},
	{Label: "Price sheet (PDF)", Href: "/app/exports/active-costs.pdf", Description: "Printable list of active costs."},
}

// Exports renders the download page inside the application shell.
func Exports() templ.Component {
	return page("Exports", "exports", ExportsPartial())
}

// ExportsPartial renders the download list.
func ExportsPartial() templ.Component {
	return render("exports.html", ExportLinks)
}
