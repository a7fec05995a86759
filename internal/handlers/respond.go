package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"fichapp/internal/ledger"
	applog "fichapp/internal/log"
)

// renderPage writes partial for HTMX requests and full otherwise.
func renderPage(w http.ResponseWriter, r *http.Request, status int, full, partial templ.Component) {
	component := full
	if isHTMX(r) {
		component = partial
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err, "path", r.URL.Path)
	}
}

// formErrorStatus is the status used when a form is re-rendered with errors. HTMX
// only swaps successful responses, so those requests get 200.
func formErrorStatus(r *http.Request) int {
	if isHTMX(r) {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

// conflictStatus is formErrorStatus for duplicates.
func conflictStatus(r *http.Request) int {
	if isHTMX(r) {
		return http.StatusOK
	}
	return http.StatusConflict
}

// ledgerErrorStatus maps ledger errors to an HTTP status and a message safe to show.
func ledgerErrorStatus(ctx context.Context, err error) (int, string) {
	if verr, ok := ledger.AsValidationError(err); ok {
		return http.StatusUnprocessableEntity, verr.Error()
	}
	switch {
	case errors.Is(err, ledger.ErrNoDatabase):
		return http.StatusServiceUnavailable, "The ledger is unavailable because no database connection is configured."
	case errors.Is(err, ledger.ErrPurchaseNotFound):
		return http.StatusNotFound, "The purchase no longer exists."
	case errors.Is(err, ledger.ErrDuplicateUnit):
		return http.StatusConflict, "A unit with that code already exists."
	case errors.Is(err, ledger.ErrDuplicateGroup):
		return http.StatusConflict, "A group with that name already exists."
	case errors.Is(err, ledger.ErrUnknownParameter):
		return http.StatusBadRequest, "Unknown financial parameter."
	default:
		applog.Error(ctx, "ledger operation failed", "error", err)
		return http.StatusInternalServerError, "We were unable to complete the request. Please try again."
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

type jsonError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, jsonError{Error: message})
}

// writeLedgerError reports err as JSON, listing field messages for validation errors.
func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := ledgerErrorStatus(r.Context(), err)
	payload := jsonError{Error: message}
	if verr, ok := ledger.AsValidationError(err); ok {
		payload.Fields = verr.Fields
	}
	writeJSON(w, status, payload)
}
