package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/teemow/calgrid/internal/config"
	"github.com/teemow/calgrid/internal/google"
)

func googleTestConfig() *config.Config {
	cfg := testConfig()
	cfg.Google.ClientID = "client-id"
	cfg.Google.ClientSecret = "client-secret"
	return cfg
}

// newTokenServer answers the token endpoint for code "good".
func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access","refresh_token":"refresh","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newAuthServer(t *testing.T, fetch ProfileFetcher) (*WebServer, *stubEvents) {
	t.Helper()
	tokenSrv := newTokenServer(t)
	events := &stubEvents{}
	conf := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  tokenSrv.URL + "/auth",
			TokenURL: tokenSrv.URL + "/token",
		},
	}
	if fetch == nil {
		fetch = func(_ context.Context, ts oauth2.TokenSource) (*google.Profile, error) {
			tok, err := ts.Token()
			if err != nil {
				return nil, err
			}
			if tok.AccessToken != "access" {
				return nil, errors.New("unexpected token")
			}
			return &google.Profile{Name: "Ada Lovelace", Email: "ada@example.com"}, nil
		}
	}
	ws := newTestWebServer(t, googleTestConfig(),
		WithOAuthConfig(conf),
		WithProfileFetcher(fetch),
		WithEventServiceFactory(func(context.Context, oauth2.TokenSource) (EventService, error) {
			return events, nil
		}))
	return ws, events
}

func TestLogin_NotConfigured(t *testing.T) {
	ws := newTestWebServer(t, nil)
	rec := serve(ws, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLogin_RedirectsToGoogle(t *testing.T) {
	ws := newTestWebServer(t, googleTestConfig())

	rec := serve(ws, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", loc.Host)
	q := loc.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8080/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Contains(t, q.Get("scope"), "https://www.googleapis.com/auth/calendar")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, stateCookie, cookies[0].Name)
	assert.Equal(t, q.Get("state"), cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCallback_CreatesSession(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ws, events := newAuthServer(t, nil)
	ws.sessions.metrics = metrics

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=s1&code=good", nil)
	rec := serve(ws, req, &http.Cookie{Name: stateCookie, Value: "s1"})

	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/", rec.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	sess, ok := ws.Sessions().Get(context.Background(), session.Value)
	require.True(t, ok)
	assert.Equal(t, "refresh", sess.Token.RefreshToken)
	assert.Equal(t, "ada@example.com", sess.Profile.Email)
	assert.Same(t, events, sess.Events)
	assert.Equal(t, int64(1), activeSessions(t, reader))

	rec = serve(ws, httptest.NewRequest(http.MethodGet, "/", nil), session)
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")
}

func TestCallback_Failures(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		cookie   string
		fetch    ProfileFetcher
		wantCode int
	}{
		{name: "missing state cookie", query: "state=s1&code=good", wantCode: http.StatusBadRequest},
		{name: "state mismatch", query: "state=s2&code=good", cookie: "s1", wantCode: http.StatusBadRequest},
		{name: "consent denied", query: "state=s1&error=access_denied", cookie: "s1", wantCode: http.StatusUnauthorized},
		{name: "missing code", query: "state=s1", cookie: "s1", wantCode: http.StatusBadRequest},
		{name: "exchange rejected", query: "state=s1&code=bad", cookie: "s1", wantCode: http.StatusBadGateway},
		{
			name:   "profile failure",
			query:  "state=s1&code=good",
			cookie: "s1",
			fetch: func(context.Context, oauth2.TokenSource) (*google.Profile, error) {
				return nil, errors.New("userinfo down")
			},
			wantCode: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, _ := newAuthServer(t, tt.fetch)

			req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+tt.query, nil)
			var cookies []*http.Cookie
			if tt.cookie != "" {
				cookies = append(cookies, &http.Cookie{Name: stateCookie, Value: tt.cookie})
			}
			rec := serve(ws, req, cookies...)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Zero(t, ws.Sessions().Len())
		})
	}
}

func TestLogout(t *testing.T) {
	ws := newTestWebServer(t, nil)
	cookie := signIn(t, ws, &stubEvents{})

	rec := serve(ws, httptest.NewRequest(http.MethodPost, "/auth/logout", nil), cookie)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, ws.Sessions().Len())
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, SessionCookie, cleared[0].Name)
	assert.Negative(t, cleared[0].MaxAge)

	rec = serve(ws, httptest.NewRequest(http.MethodGet, "/api/events", nil), cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
