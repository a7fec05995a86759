package handlers

import (
	"errors"
	"net/http"

	"fichapp/internal/accounts"
	"fichapp/internal/ledger"
	applog "fichapp/internal/log"
	"fichapp/internal/views/pages"
)

// Signup renders the account form and registers new operators.
func Signup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		renderPage(w, r, http.StatusOK, pages.Signup("", "", ""), pages.SignupPartial("", "", ""))
	case http.MethodPost:
		register(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func register(w http.ResponseWriter, r *http.Request) {
	if sessionManager == nil || !operators.Available() {
		applog.Debug(r.Context(), "registration dependencies unavailable", "hasSession", sessionManager != nil)
		http.Error(w, "registration not available", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	var in accounts.Registration
	if err := ledger.DecodeForm(r.PostForm, &in); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	fail := func(status int, message string) {
		renderPage(w, r, status, pages.Signup(message, in.Name, in.Email), pages.SignupPartial(message, in.Name, in.Email))
	}

	user, err := operators.Register(r.Context(), in)
	switch {
	case err == nil:
	case errors.Is(err, accounts.ErrEmailTaken):
		fail(conflictStatus(r), "An account with that email already exists.")
		return
	default:
		if verr, ok := ledger.AsValidationError(err); ok {
			fail(formErrorStatus(r), verr.Reason)
			return
		}
		applog.Error(r.Context(), "failed to create user", "error", err)
		fail(http.StatusInternalServerError, "We couldn't create your account right now. Please try again.")
		return
	}

	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session after signup", "error", err)
		fail(http.StatusInternalServerError, "We couldn't sign you in after creating your account. Please try again.")
		return
	}

	redirectToApp(w, r)
}
