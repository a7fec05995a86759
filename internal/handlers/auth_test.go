package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fichapp/internal/accounts"
	"fichapp/internal/ledger"
	"fichapp/models"
)

func withTestSessionManager(t *testing.T) (*scs.SessionManager, func()) {
	t.Helper()
	original := sessionManager
	sm := scs.New()
	sessionManager = sm
	return sm, func() {
		sessionManager = original
	}
}

func withTestDatabase(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	originalOperators := operators
	originalLedger := purchases
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Unit{},
		&models.Group{},
		&models.FinancialParameter{},
		&models.Purchase{},
		&models.ActiveCost{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	if err := ledger.EnsureDefaults(context.Background(), db); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	operators = accounts.New(db)
	purchases = ledger.New(db)
	return db, func() {
		operators = originalOperators
		purchases = originalLedger
		sqlDB.Close()
	}
}

func TestIsHTMX(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if isHTMX(req) {
		t.Fatal("expected false when no HTMX headers present")
	}
	req.Header.Set("HX-Request", "true")
	if !isHTMX(req) {
		t.Fatal("expected true when HX-Request header present")
	}
}

func TestActiveSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ActiveSession(req) {
		t.Fatal("expected inactive session when manager is nil")
	}

	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	sm.Put(req.Context(), sessionUserIDKey, 42)

	if !ActiveSession(req) {
		t.Fatal("expected active session when flags are set")
	}
}

func TestCurrentUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := currentUserID(req); ok {
		t.Fatal("expected currentUserID to fail without session manager")
	}

	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)

	if _, ok := currentUserID(req); ok {
		t.Fatal("expected false when user id not set")
	}

	sm.Put(req.Context(), sessionUserIDKey, 7)
	id, ok := currentUserID(req)
	if !ok || id != 7 {
		t.Fatalf("expected user id 7, got %d (ok=%t)", id, ok)
	}
}

func TestEstablishSession(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)

	user := &models.User{Model: gorm.Model{ID: 3}, Email: "user@example.com", Name: "User"}
	if err := establishSession(req, user); err != nil {
		t.Fatalf("establishSession returned error: %v", err)
	}

	if !sm.GetBool(req.Context(), sessionAuthenticatedKey) {
		t.Fatal("expected session authenticated flag to be true")
	}
	if got := sm.GetInt(req.Context(), sessionUserIDKey); got != 3 {
		t.Fatalf("expected session user id 3, got %d", got)
	}
	if got := sm.GetString(req.Context(), sessionUserEmailKey); got != "user@example.com" {
		t.Fatalf("unexpected email %q", got)
	}
	if got := sm.GetString(req.Context(), sessionUserNameKey); got != "User" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestEstablishSessionWithoutManager(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	if err := establishSession(req, &models.User{}); err == nil {
		t.Fatal("expected error when session manager is nil")
	}
}

func seedOperator(t *testing.T, email, password string) *models.User {
	t.Helper()
	user, err := operators.Register(context.Background(), accounts.Registration{
		Name:     "Operator",
		Email:    email,
		Password: password,
		Confirm:  password,
	})
	if err != nil {
		t.Fatalf("failed to seed operator: %v", err)
	}
	return user
}

func postAuthForm(sm *scs.SessionManager, handler http.HandlerFunc, path string, values url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	w := httptest.NewRecorder()
	sm.LoadAndSave(handler).ServeHTTP(w, req)
	return w
}

func TestLoginOpensSession(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	seedOperator(t, "user@example.com", "password123")

	w := postAuthForm(sm, Login, "/login", url.Values{"email": {"USER@example.com"}, "password": {"password123"}}, false)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 after login, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/app" {
		t.Fatalf("expected redirect to /app, got %q", loc)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Fatal("expected session cookie to be issued")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	seedOperator(t, "user@example.com", "password123")

	w := postAuthForm(sm, Login, "/login", url.Values{"email": {"user@example.com"}, "password": {"wrong"}}, false)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad password, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid email or password.") {
		t.Fatalf("expected failure message, got %s", w.Body.String())
	}

	w = postAuthForm(sm, Login, "/login", url.Values{"email": {"user@example.com"}}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for HTMX validation failure, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Email and password are required.") {
		t.Fatalf("expected required message, got %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "<html") {
		t.Fatal("expected HTMX response to omit the layout")
	}
}

func TestLoginWithoutDatabase(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	original := operators
	operators = accounts.New(nil)
	t.Cleanup(func() { operators = original })

	w := postAuthForm(sm, Login, "/login", url.Values{"email": {"user@example.com"}, "password": {"password123"}}, false)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without database, got %d", w.Code)
	}
}

func TestSignupRegistersAndSignsIn(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	values := url.Values{
		"name":             {"  Test User  "},
		"email":            {"Example@Email.com"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
	}
	w := postAuthForm(sm, Signup, "/signup", values, false)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 after signup, got %d: %s", w.Code, w.Body.String())
	}

	var user models.User
	if err := db.Where("email = ?", "example@email.com").First(&user).Error; err != nil {
		t.Fatalf("expected user persisted: %v", err)
	}
	if user.Name != "Test User" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")); err != nil {
		t.Fatalf("password hash does not match original: %v", err)
	}
}

func TestSignupReportsProblems(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	seedOperator(t, "taken@example.com", "password123")

	w := postAuthForm(sm, Signup, "/signup", url.Values{
		"email":            {"new@example.com"},
		"password":         {"password123"},
		"confirm_password": {"password456"},
	}, false)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for mismatched passwords, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Passwords do not match.") {
		t.Fatalf("expected mismatch message, got %s", w.Body.String())
	}

	w = postAuthForm(sm, Signup, "/signup", url.Values{
		"email":            {"taken@example.com"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
	}, false)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already exists") {
		t.Fatalf("expected duplicate message, got %s", w.Body.String())
	}
}

func TestLogoutLeavesSignedOutMessage(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	sm.LoadAndSave(http.HandlerFunc(Logout)).ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 after logout, got %d", w.Code)
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie carrying the sign-out message")
	}
	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	sm.LoadAndSave(http.HandlerFunc(Login)).ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), "You have been signed out.") {
		t.Fatalf("expected sign-out message on the login page, got %s", w.Body.String())
	}
}

func TestRedirectToLogin(t *testing.T) {
	_, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	redirectToLogin(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 for HTMX redirect, got %d", w.Code)
	}
	if w.Header().Get("HX-Redirect") != "/login" {
		t.Fatalf("expected HX-Redirect header to be set")
	}

	req = httptest.NewRequest(http.MethodGet, "/app", nil)
	w = httptest.NewRecorder()
	redirectToLogin(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestRedirectToApp(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("HX-Boosted", "true")
	w := httptest.NewRecorder()
	redirectToApp(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 status, got %d", w.Code)
	}
	if w.Header().Get("HX-Redirect") != "/app" {
		t.Fatalf("expected HX-Redirect header to be set")
	}

	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	w = httptest.NewRecorder()
	redirectToApp(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 status, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/app" {
		t.Fatalf("expected redirect to /app, got %q", loc)
	}
}
