package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fichapp/internal/ledger"
	applog "fichapp/internal/log"
)

type healthResponse struct {
	Status string    `json:"status"`
	Ledger string    `json:"ledger"`
	Time   time.Time `json:"time"`
}

// Health reports readiness for infrastructure probes. A server without a database
// is still ready because it serves the degraded pages; a database that stops
// answering is not.
func Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Ledger: "ok", Time: time.Now().UTC()}
	status := http.StatusOK

	err := purchases.Ping(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrNoDatabase):
		resp.Ledger = "unconfigured"
	default:
		applog.Error(r.Context(), "health check could not reach the database", "error", err)
		resp.Status = "unavailable"
		resp.Ledger = "unreachable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
