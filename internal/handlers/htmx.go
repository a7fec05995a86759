package handlers

import "net/http"

// activeCostsChanged is raised on HTMX responses after the active-cost table was
// rebuilt so listeners on the page can refresh.
const activeCostsChanged = "active-costs-changed"

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" || r.Header.Get("HX-Boosted") == "true"
}

// triggerEvent asks htmx to fire event on the client once the response is swapped.
// It must run before the header is written.
func triggerEvent(w http.ResponseWriter, r *http.Request, event string) {
	if isHTMX(r) {
		w.Header().Add("HX-Trigger", event)
	}
}
