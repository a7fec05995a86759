package handlers

import (
	"context"
	"errors"
	"net/http"

	"fichapp/internal/ledger"
	applog "fichapp/internal/log"
	"fichapp/internal/views/pages"
)

// Purchases lists the ledger on GET and records a purchase on POST.
func Purchases(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		listPurchases(w, r)
	case http.MethodPost:
		savePurchase(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listPurchases(w http.ResponseWriter, r *http.Request) {
	filters := pages.PurchaseFiltersFromRequest(r)
	rows, err := purchases.Purchases(r.Context(), ledger.PurchaseFilter{Query: filters.Query, Group: filters.Group})
	if err != nil {
		status, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, status)
		return
	}
	groups, err := purchases.Groups(r.Context())
	if err != nil {
		applog.Error(r.Context(), "failed to load groups for purchase filters", "error", err)
	}

	data := pages.PurchaseListData{Filters: filters, Purchases: rows, Groups: groups}
	renderPage(w, r, http.StatusOK, pages.PurchaseList(data), pages.PurchaseListPartial(data))
}

// NewPurchase renders an empty purchase form, or a form prefilled from the purchase
// named by the revise query parameter.
func NewPurchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !purchases.Available() {
		http.Error(w, "The ledger is unavailable because no database connection is configured.", http.StatusServiceUnavailable)
		return
	}

	data := pages.PurchaseFormData{}
	if reviseID := pages.ParseUint(r.URL.Query().Get("revise")); reviseID > 0 {
		original, err := purchases.Purchase(r.Context(), reviseID)
		if err != nil {
			status, message := ledgerErrorStatus(r.Context(), err)
			http.Error(w, message, status)
			return
		}
		data.ReviseID = reviseID
		data.Input = ledger.InputFromPurchase(original)
	}

	renderPurchaseForm(w, r, http.StatusOK, data)
}

func savePurchase(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid submission.", http.StatusBadRequest)
		return
	}

	data := pages.PurchaseFormData{ReviseID: pages.ParseUint(r.PostFormValue("revise"))}
	if err := ledger.DecodeForm(r.PostForm, &data.Input); err != nil {
		verr, ok := ledger.AsValidationError(err)
		if !ok {
			applog.Error(r.Context(), "failed to decode purchase form", "error", err)
			http.Error(w, "Invalid submission.", http.StatusBadRequest)
			return
		}
		data.Errors = verr.Fields
		data.Message = verr.Error()
		renderPurchaseForm(w, r, formErrorStatus(r), data)
		return
	}

	var (
		result ledger.Result
		err    error
	)
	if data.ReviseID > 0 {
		result, err = purchases.Revise(r.Context(), data.ReviseID, data.Input)
	} else {
		result, err = purchases.Record(r.Context(), data.Input)
	}
	if err != nil {
		if verr, ok := ledger.AsValidationError(err); ok {
			data.Errors = verr.Fields
			data.Message = "Fix the highlighted fields and save again."
			renderPurchaseForm(w, r, formErrorStatus(r), data)
			return
		}
		status, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, status)
		return
	}

	userID, _ := currentUserID(r)
	applog.Debug(r.Context(), "purchase form accepted",
		"purchaseID", result.Purchase.ID,
		"ingredient", result.Purchase.IngredientShortName,
		"revises", data.ReviseID,
		"userID", userID,
		"activeCosts", len(result.Consolidation.Entries),
	)

	if !isHTMX(r) {
		http.Redirect(w, r, "/app/purchases", http.StatusSeeOther)
		return
	}
	saved := result.Purchase
	triggerEvent(w, r, activeCostsChanged)
	renderPurchaseForm(w, r, http.StatusOK, pages.PurchaseFormData{Saved: &saved})
}

// PreviewPurchase renders the cost breakdown of a purchase form that has not been
// saved. Incomplete or unreadable values count as zero.
func PreviewPurchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid submission.", http.StatusBadRequest)
		return
	}

	var in ledger.PurchaseInput
	if err := ledger.DecodeForm(r.PostForm, &in); err != nil {
		if _, ok := ledger.AsValidationError(err); !ok {
			http.Error(w, "Invalid submission.", http.StatusBadRequest)
			return
		}
	}

	cost, breakdown := purchases.Quote(r.Context(), in)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.CostPreview(pages.CostPreviewData{Input: cost, Breakdown: breakdown}).Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render cost preview", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func renderPurchaseForm(w http.ResponseWriter, r *http.Request, status int, data pages.PurchaseFormData) {
	loadFormCatalog(r.Context(), &data)
	cost, breakdown := purchases.Quote(r.Context(), data.Input)
	data.Preview = pages.CostPreviewData{Input: cost, Breakdown: breakdown}
	renderPage(w, r, status, pages.PurchaseForm(data), pages.PurchaseFormPartial(data))
}

func loadFormCatalog(ctx context.Context, data *pages.PurchaseFormData) {
	units, err := purchases.Units(ctx)
	if err != nil && !errors.Is(err, ledger.ErrNoDatabase) {
		applog.Error(ctx, "failed to load units for purchase form", "error", err)
	}
	groups, err := purchases.Groups(ctx)
	if err != nil && !errors.Is(err, ledger.ErrNoDatabase) {
		applog.Error(ctx, "failed to load groups for purchase form", "error", err)
	}
	data.Units = units
	data.Groups = groups
}
