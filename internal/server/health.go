package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Health status constants for health check responses.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusDisabled     = "disabled"
)

// HealthChecker provides health check endpoints for Kubernetes probes.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	sessions      *SessionStore
	startTime     time.Time
}

// NewHealthChecker creates a HealthChecker. sc and sessions may be nil.
func NewHealthChecker(sc *ServerContext, sessions *SessionStore) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		sessions:      sessions,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

func (h *HealthChecker) isServerShuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse adds uptime, session count and whether Google
// sign-in is available.
type DetailedHealthResponse struct {
	Status         string `json:"status"`
	Uptime         string `json:"uptime"`
	ActiveSessions int    `json:"active_sessions"`
	GoogleSignIn   string `json:"google_sign_in"`
}

// LivenessHandler serves /healthz. It only reports that the process runs.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks := make(map[string]string)
		allOk := true

		if !h.ready.Load() {
			checks["ready"] = healthStatusNotReady
			allOk = false
		} else {
			checks["ready"] = healthStatusOK
		}

		if h.isServerShuttingDown() {
			checks["shutdown"] = healthStatusShuttingDown
			allOk = false
		} else {
			checks["shutdown"] = healthStatusOK
		}

		if allOk {
			writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK, Checks: checks})
			return
		}
		writeHealth(w, http.StatusServiceUnavailable, HealthResponse{Status: healthStatusNotReady, Checks: checks})
	})
}

// DetailedHealthHandler serves /healthz/detailed.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response := DetailedHealthResponse{
			Status:       healthStatusOK,
			Uptime:       time.Since(h.startTime).Truncate(time.Second).String(),
			GoogleSignIn: healthStatusDisabled,
		}
		if h.sessions != nil {
			response.ActiveSessions = h.sessions.Len()
		}
		if h.serverContext != nil && h.serverContext.Config().GoogleConfigured() {
			response.GoogleSignIn = healthStatusOK
		}

		status := http.StatusOK
		switch {
		case !h.ready.Load():
			response.Status = healthStatusNotReady
			status = http.StatusServiceUnavailable
		case h.isServerShuttingDown():
			response.Status = healthStatusShuttingDown
			status = http.StatusServiceUnavailable
		}

		writeHealth(w, status, response)
	})
}

// RegisterHealthEndpoints registers health check endpoints on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("GET /healthz", h.LivenessHandler())
	mux.Handle("GET /readyz", h.ReadinessHandler())
	mux.Handle("GET /healthz/detailed", h.DetailedHealthHandler())
}

func writeHealth(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
