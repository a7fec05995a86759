package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"fichapp/internal/costing"
	"fichapp/internal/ledger"
	"fichapp/internal/views/pages"
	"fichapp/models"
)

type activeCostsResponse struct {
	Costs   []models.ActiveCost  `json:"costs"`
	Skipped []costing.SkippedRow `json:"skipped"`
}

type previewResponse struct {
	Input     costing.Input     `json:"input"`
	Breakdown costing.Breakdown `json:"breakdown"`
}

type purchaseResponse struct {
	Purchase    models.Purchase           `json:"purchase"`
	ActiveCosts []costing.ActiveCostEntry `json:"active_costs"`
	Skipped     []costing.SkippedRow      `json:"skipped"`
}

// ActiveCostsAPI returns the active-cost table as JSON.
func ActiveCostsAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	costs, err := purchases.ActiveCosts(r.Context())
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	skipped, err := purchases.Skipped(r.Context())
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	if costs == nil {
		costs = []models.ActiveCost{}
	}
	if skipped == nil {
		skipped = []costing.SkippedRow{}
	}
	writeJSON(w, http.StatusOK, activeCostsResponse{Costs: costs, Skipped: skipped})
}

// PurchasesAPI lists the ledger on GET and records a purchase on POST. A revise query
// parameter turns the POST into a revision of that purchase.
func PurchasesAPI(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filters := pages.PurchaseFiltersFromRequest(r)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		rows, err := purchases.Purchases(r.Context(), ledger.PurchaseFilter{Query: filters.Query, Group: filters.Group, Limit: limit})
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}
		if rows == nil {
			rows = []models.Purchase{}
		}
		writeJSON(w, http.StatusOK, rows)
	case http.MethodPost:
		var in ledger.PurchaseInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}

		var (
			result ledger.Result
			err    error
		)
		if reviseID := pages.ParseUint(r.URL.Query().Get("revise")); reviseID > 0 {
			result, err = purchases.Revise(r.Context(), reviseID, in)
		} else {
			result, err = purchases.Record(r.Context(), in)
		}
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}
		resp := purchaseResponse{
			Purchase:    result.Purchase,
			ActiveCosts: result.Consolidation.Entries,
			Skipped:     result.Consolidation.Skipped,
		}
		if resp.Skipped == nil {
			resp.Skipped = []costing.SkippedRow{}
		}
		writeJSON(w, http.StatusCreated, resp)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// PreviewAPI computes the breakdown of a purchase without saving it.
func PreviewAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in ledger.PurchaseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	cost, breakdown := purchases.Quote(r.Context(), in)
	writeJSON(w, http.StatusOK, previewResponse{Input: cost, Breakdown: breakdown})
}

// PurchaseAPI returns one ledger row by its public reference.
func PurchaseAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	reference := strings.Trim(strings.TrimPrefix(r.URL.Path, "/app/api/purchases/"), "/")
	if reference == "" {
		writeJSONError(w, http.StatusNotFound, "purchase reference required")
		return
	}
	purchase, err := purchases.PurchaseByReference(r.Context(), reference)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, purchase)
}
