package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultWebReadHeaderTimeout = 10 * time.Second
	DefaultWebWriteTimeout      = 30 * time.Second
	DefaultWebIdleTimeout       = 120 * time.Second
)

// WebServer serves the browser UI, its JSON API, sign-in and health
// endpoints.
type WebServer struct {
	sc         *ServerContext
	sessions   *SessionStore
	health     *HealthChecker
	httpServer *http.Server
	secure     bool
}

// NewWebServer creates the web server for sc.
func NewWebServer(sc *ServerContext) *WebServer {
	cfg := sc.Config()
	s := &WebServer{
		sc:       sc,
		sessions: NewSessionStore(cfg.Server.SessionTTL, sc.Metrics(), sc.Logger()),
		secure:   strings.HasPrefix(cfg.Server.BaseURL, "https://"),
	}
	s.health = NewHealthChecker(sc, s.sessions)
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.instrument(s.routes()),
		ReadHeaderTimeout: DefaultWebReadHeaderTimeout,
		WriteTimeout:      DefaultWebWriteTimeout,
		IdleTimeout:       DefaultWebIdleTimeout,
	}
	return s
}

func (s *WebServer) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /theme.css", s.handleStylesheet)
	mux.HandleFunc("POST /theme/toggle", s.handleThemeToggle)

	mux.HandleFunc("GET /api/grid", s.handleGrid)
	mux.HandleFunc("GET /api/theme", s.handleTheme)
	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	mux.HandleFunc("PUT /api/events/{id}", s.handleUpdateEvent)
	mux.HandleFunc("DELETE /api/events/{id}", s.handleDeleteEvent)

	mux.HandleFunc("GET /auth/login", s.handleLogin)
	mux.HandleFunc("GET /auth/callback", s.handleCallback)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)

	s.health.RegisterHealthEndpoints(mux)
	return mux
}

// Handler returns the instrumented root handler.
func (s *WebServer) Handler() http.Handler {
	return s.httpServer.Handler
}

// Sessions returns the session store.
func (s *WebServer) Sessions() *SessionStore {
	return s.sessions
}

func (s *WebServer) Addr() string {
	return s.httpServer.Addr
}

// Start serves until Shutdown is called. It returns nil after a
// graceful shutdown.
func (s *WebServer) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on ln.
func (s *WebServer) Serve(ln net.Listener) error {
	s.sc.Logger().Info("starting web server", "addr", ln.Addr().String(), "base_url", s.sc.Config().Server.BaseURL)
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown marks the server not ready, drains connections and stops the
// session sweeper.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	s.sc.Logger().Info("shutting down web server")
	err := s.httpServer.Shutdown(ctx)
	s.sessions.Stop()
	return err
}
