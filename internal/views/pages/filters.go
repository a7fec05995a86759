package pages

import (
	"net/http"
	"strconv"
	"strings"

	"fichapp/models"
)

// PurchaseFilters capture the client-driven state for ledger listings.
type PurchaseFilters struct {
	Query string
	Group string
}

// PurchaseFiltersFromRequest extracts filter inputs from an HTTP request.
func PurchaseFiltersFromRequest(r *http.Request) PurchaseFilters {
	filters := PurchaseFilters{}
	if err := r.ParseForm(); err != nil {
		return filters
	}
	filters.Query = strings.TrimSpace(r.FormValue("q"))
	filters.Group = strings.TrimSpace(r.FormValue("group"))
	return filters
}

// FilterActiveCosts keeps the entries whose ingredient or group contains query.
func FilterActiveCosts(all []models.ActiveCost, query string) []models.ActiveCost {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}
	filtered := make([]models.ActiveCost, 0, len(all))
	for _, cost := range all {
		if containsFold(cost.IngredientShortName, query) || containsFold(cost.Group, query) {
			filtered = append(filtered, cost)
		}
	}
	return filtered
}

// ParseUint extracts a uint from the provided string, returning zero on failure.
func ParseUint(value string) uint {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), needle)
}
