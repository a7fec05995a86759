package pages

import (
	"github.com/a-h/templ"

	"fichapp/internal/costing"
	"fichapp/internal/ledger"
	"fichapp/models"
)

// KindOption is one choice of the purchase kind select.
type KindOption struct {
	Value string
	Label string
}

// KindOptions lists the purchase kinds in display order.
var KindOptions = []KindOption{
	{Value: models.KindPurchased, Label: models.KindLabel(models.KindPurchased)},
	{Value: models.KindSelfProduced, Label: models.KindLabel(models.KindSelfProduced)},
}

// CostPreviewData is the breakdown shown next to the purchase form.
type CostPreviewData struct {
	Input     costing.Input
	Breakdown costing.Breakdown
}

// PurchaseFormData feeds the purchase entry form. A non-zero ReviseID turns the form
// into a correction of that ledger row.
type PurchaseFormData struct {
	Input    ledger.PurchaseInput
	ReviseID uint
	Units    []models.Unit
	Groups   []models.Group
	Kinds    []KindOption
	Errors   map[string]string
	Message  string
	Saved    *models.Purchase
	Preview  CostPreviewData
}

// PurchaseForm renders the purchase form inside the application shell.
func PurchaseForm(data PurchaseFormData) templ.Component {
	title := "New purchase"
	if data.ReviseID > 0 {
		title = "Revise purchase"
	}
	return page(title, "new-purchase", PurchaseFormPartial(data))
}

// PurchaseFormPartial renders the purchase form body.
func PurchaseFormPartial(data PurchaseFormData) templ.Component {
	if data.Kinds == nil {
		data.Kinds = KindOptions
	}
	return render("purchase_form.html", data)
}

// CostPreview renders the live breakdown of a purchase being typed.
func CostPreview(data CostPreviewData) templ.Component {
	return render("cost_preview.html", data)
}

// PurchaseListData feeds the ledger listing.
type PurchaseListData struct {
	Filters   PurchaseFilters
	Purchases []models.Purchase
	Groups    []models.Group
	Message   string
}

// PurchaseList renders the ledger listing inside the application shell.
func PurchaseList(data PurchaseListData) templ.Component {
	return page("Purchases", "purchases", PurchaseListPartial(data))
}

// PurchaseListPartial renders the ledger listing body.
func PurchaseListPartial(data PurchaseListData) templ.Component {
	return render("purchase_list.html", data)
}
