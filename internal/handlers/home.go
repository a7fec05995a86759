package handlers

import "net/http"

// Home sends visitors to the dashboard, or to the sign-in page when they have no
// session. Unknown paths are not found.
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if ActiveSession(r) {
		redirectToApp(w, r)
		return
	}
	redirectToLogin(w, r)
}
