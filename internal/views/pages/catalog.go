package pages

import (
	"github.com/a-h/templ"

	"fichapp/internal/ledger"
	"fichapp/models"
)

// CatalogData feeds the units and groups administration page.
type CatalogData struct {
	Units       []models.Unit
	Groups      []models.Group
	Unit        ledger.UnitInput
	Group       ledger.GroupInput
	UnitErrors  map[string]string
	GroupErrors map[string]string
	Message     string
}

// Catalog renders the units and groups page inside the application shell.
func Catalog(data CatalogData) templ.Component {
	return page("Units & groups", "catalog", CatalogPartial(data))
}

// CatalogPartial renders the units and groups page body.
func CatalogPartial(data CatalogData) templ.Component {
	return render("catalog.html", data)
}

// ParametersData feeds the financial parameters page.
type ParametersData struct {
	Parameters []models.FinancialParameter
	Errors     map[string]string
	Message    string
}

// Parameters renders the financial parameters page inside the application shell.
func Parameters(data ParametersData) templ.Component {
	return page("Parameters", "parameters", ParametersPartial(data))
}

// ParametersPartial renders the financial parameters form.
func ParametersPartial(data ParametersData) templ.Component {
	return render("parameters.html", data)
}
