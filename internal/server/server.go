package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"fichapp/internal/handlers"
	"fichapp/internal/ledger"
	applog "fichapp/internal/log"
)

const (
	defaultSessionLifetime = 12 * time.Hour
	defaultCookieName      = "fichapp_session"
	shutdownTimeout        = 10 * time.Second
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr     string
	Session  SessionConfig
	Database *gorm.DB
	// PhoneRegion is the default region for supplier phone numbers.
	PhoneRegion string
}

// SessionConfig controls session behavior for the HTTP server.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server serves the FichApp pages and API.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New wires the handlers to cfg.Database and builds the handler chain:
// request logging, then sessions, then the router.
func New(cfg Config) (*Server, error) {
	ctx := context.Background()
	sessions := newSessionManager(cfg.Session)

	handlers.Configure(sessions, cfg.Database, ledger.WithPhoneRegion(cfg.PhoneRegion))
	applog.Debug(ctx, "server configured",
		"addr", cfg.Addr,
		"database", cfg.Database != nil,
		"phoneRegion", cfg.PhoneRegion,
		"sessionCookie", sessions.Cookie.Name,
	)

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           requestLogger(sessions.LoadAndSave(newRouter())),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       2 * time.Minute,
			ErrorLog:          slog.NewLogLogger(applog.Logger().Handler(), slog.LevelError),
		},
	}, nil
}

func newSessionManager(cfg SessionConfig) *scs.SessionManager {
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = defaultSessionLifetime
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		cfg.CookieName = defaultCookieName
	}

	sessions := scs.New()
	sessions.Lifetime = cfg.Lifetime
	sessions.Cookie.Name = cfg.CookieName
	sessions.Cookie.Domain = cfg.CookieDomain
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.Persist = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode
	sessions.Cookie.Secure = cfg.CookieSecure
	return sessions
}

// Start listens on the configured address until Stop is called.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Stop drains in-flight requests, giving up after shutdownTimeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
