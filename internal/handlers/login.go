package handlers

import (
	"errors"
	"net/http"

	"fichapp/internal/accounts"
	"fichapp/internal/ledger"
	applog "fichapp/internal/log"
	"fichapp/internal/views/pages"
)

const (
	loginFailedMessage = "Invalid email or password. Please try again."
	loginErrorMessage  = "We were unable to sign you in. Please try again."
)

// Login renders the sign-in form and opens a session for valid credentials.
func Login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		message := ""
		if sessionManager != nil {
			message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		}
		renderPage(w, r, http.StatusOK, pages.Login(message, ""), pages.LoginPartial(message, ""))
	case http.MethodPost:
		signIn(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func signIn(w http.ResponseWriter, r *http.Request) {
	if sessionManager == nil || !operators.Available() {
		applog.Debug(r.Context(), "authentication dependencies unavailable", "hasSession", sessionManager != nil)
		http.Error(w, "authentication not available", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	var creds accounts.Credentials
	if err := ledger.DecodeForm(r.PostForm, &creds); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	user, err := operators.Authenticate(r.Context(), creds)
	if err != nil {
		message := loginErrorMessage
		if verr, ok := ledger.AsValidationError(err); ok {
			message = verr.Reason
		} else if errors.Is(err, accounts.ErrInvalidCredentials) {
			message = loginFailedMessage
		} else {
			applog.Error(r.Context(), "failed to load user during login", "error", err)
		}
		applog.Debug(r.Context(), "sign in rejected", "reason", message)
		status := formErrorStatus(r)
		renderPage(w, r, status, pages.Login(message, creds.Email), pages.LoginPartial(message, creds.Email))
		return
	}

	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session", "error", err)
		renderPage(w, r, http.StatusInternalServerError, pages.Login(loginErrorMessage, creds.Email), pages.LoginPartial(loginErrorMessage, creds.Email))
		return
	}

	applog.Info(r.Context(), "operator signed in", "userID", user.ID)
	redirectToApp(w, r)
}
