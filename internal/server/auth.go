package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/teemow/calgrid/internal/instrumentation"
	"github.com/teemow/calgrid/internal/logging"
)

const stateCookieMaxAge = 10 * time.Minute

// handleLogin starts the Google authorization code flow. The random state
// is kept in a short-lived cookie and checked by the callback.
func (s *WebServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.sc.Config().GoogleConfigured() {
		http.Error(w, "Google sign-in is not configured", http.StatusServiceUnavailable)
		return
	}

	state := uuid.NewString()
	setSessionCookie(w, stateCookie, state, stateCookieMaxAge, s.secure)
	http.Redirect(w, r, s.sc.OAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline), http.StatusFound)
}

func (s *WebServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	metrics := s.sc.Metrics()
	logger := logging.WithOperation(s.sc.Logger(), "auth.callback")
	q := r.URL.Query()

	fail := func(status int, msg string, err error) {
		metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		logger.Warn("sign-in failed", "reason", msg, logging.Err(err))
		http.Error(w, msg, status)
	}

	c, err := r.Cookie(stateCookie)
	if err != nil || c.Value == "" || c.Value != q.Get("state") {
		fail(http.StatusBadRequest, "invalid OAuth state", nil)
		return
	}
	clearCookie(w, stateCookie)

	if e := q.Get("error"); e != "" {
		fail(http.StatusUnauthorized, "sign-in was not completed: "+e, nil)
		return
	}
	code := q.Get("code")
	if code == "" {
		fail(http.StatusBadRequest, "missing authorization code", nil)
		return
	}

	conf := s.sc.OAuthConfig()
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		fail(http.StatusBadGateway, "failed to exchange authorization code", err)
		return
	}

	// The session outlives this request, so refreshes use the server context.
	ts := conf.TokenSource(s.sc.Context(), tok)
	profile, err := s.sc.FetchProfile(ctx, ts)
	if err != nil {
		fail(http.StatusBadGateway, "failed to load your Google profile", err)
		return
	}
	events, err := s.sc.EventServiceForToken(s.sc.Context(), ts)
	if err != nil {
		fail(http.StatusInternalServerError, "failed to create calendar client", err)
		return
	}

	sess := s.sessions.Create(ctx, tok, profile, events)
	setSessionCookie(w, SessionCookie, sess.ID, s.sc.Config().Server.SessionTTL, s.secure)
	metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
	logger.Info("signed in", logging.UserHash(profile.Email))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *WebServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.sessions.Delete(r.Context(), c.Value)
	}
	clearCookie(w, SessionCookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
