package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRouterRegistersHealthRoute(t *testing.T) {
	router := newRouter()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected /healthz to return 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json content type, got %q", ct)
	}
}

func TestRoutesAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(routes))
	for _, rt := range routes {
		if seen[rt.path] {
			t.Fatalf("route %s registered twice", rt.path)
		}
		seen[rt.path] = true
		if rt.handler == nil {
			t.Fatalf("route %s has no handler", rt.path)
		}
	}
	for _, path := range []string{"/healthz", "/login", "/signup", "/logout"} {
		if !seen[path] {
			t.Fatalf("expected public route %s", path)
		}
	}
}

func TestAppRoutesAreProtected(t *testing.T) {
	for _, rt := range routes {
		if strings.HasPrefix(rt.path, "/app") && !rt.protected {
			t.Fatalf("route %s must require authentication", rt.path)
		}
	}
}
