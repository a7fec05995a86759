package handlers

import (
	"errors"
	"net/http"

	"fichapp/internal/ledger"
	applog "fichapp/internal/log"
	"fichapp/internal/views/pages"
)

// Dashboard renders the ledger overview once a user is authenticated.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/app" && r.URL.Path != "/app/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	data := pages.DashboardData{}
	summary, err := purchases.Summary(r.Context())
	switch {
	case errors.Is(err, ledger.ErrNoDatabase):
		data.Message = "No database is configured. Purchases cannot be recorded."
	case err != nil:
		applog.Error(r.Context(), "failed to load dashboard summary", "error", err)
		http.Error(w, "We were unable to load the dashboard. Please try again.", http.StatusInternalServerError)
		return
	default:
		data.Purchases = summary.Purchases
		data.Ingredients = summary.Ingredients
		data.Units = summary.Units
		data.Groups = summary.Groups
		data.LastRecord = summary.LastRecord
		data.Skipped = summary.Skipped
		if recent, err := purchases.Purchases(r.Context(), ledger.PurchaseFilter{Limit: 5}); err == nil {
			data.Recent = recent
		} else {
			applog.Error(r.Context(), "failed to load recent purchases", "error", err)
		}
	}

	renderPage(w, r, http.StatusOK, pages.Dashboard(data), pages.DashboardPartial(data))
}
