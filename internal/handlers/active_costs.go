package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"fichapp/internal/costing"
	applog "fichapp/internal/log"
	"fichapp/internal/views/pages"
)

// ActiveCosts renders the active-cost table.
func ActiveCosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderActiveCosts(w, r, "")
}

// RebuildActiveCosts recomputes the active-cost table from the whole ledger.
func RebuildActiveCosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	consolidation, err := purchases.Rebuild(r.Context())
	if err != nil {
		status, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, status)
		return
	}

	userID, _ := currentUserID(r)
	applog.Info(r.Context(), "active costs rebuilt on request", "entries", len(consolidation.Entries), "userID", userID)
	triggerEvent(w, r, activeCostsChanged)
	renderActiveCosts(w, r, fmt.Sprintf("Rebuilt %d active cost(s) from the ledger.", len(consolidation.Entries)))
}

func renderActiveCosts(w http.ResponseWriter, r *http.Request, message string) {
	costs, err := purchases.ActiveCosts(r.Context())
	if err != nil {
		status, text := ledgerErrorStatus(r.Context(), err)
		http.Error(w, text, status)
		return
	}
	skipped, err := purchases.Skipped(r.Context())
	if err != nil {
		applog.Error(r.Context(), "failed to check ledger for skipped rows", "error", err)
		skipped = []costing.SkippedRow{}
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	data := pages.ActiveCostsData{
		Query:   query,
		Costs:   pages.FilterActiveCosts(costs, query),
		Skipped: skipped,
		Message: message,
	}
	if len(costs) > 0 {
		data.RebuiltAt = costs[0].RebuiltAt
	}
	renderPage(w, r, http.StatusOK, pages.ActiveCosts(data), pages.ActiveCostsPartial(data))
}
