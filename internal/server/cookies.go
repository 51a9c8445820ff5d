package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/teemow/calgrid/internal/prefs"
)

const (
	// stateCookie holds the OAuth state between login and callback.
	stateCookie = "calgrid_oauth_state"

	prefCookieMaxAge = 365 * 24 * time.Hour
)

var _ prefs.Store = cookieStore{}

// cookieStore adapts one request/response pair to prefs.Store. Values
// live in long-lived cookies named after their key.
type cookieStore struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool
}

func (s cookieStore) Get(key string) (string, bool, error) {
	c, err := s.r.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return c.Value, true, nil
}

func (s cookieStore) Set(key, value string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(prefCookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})
	return nil
}

func setSessionCookie(w http.ResponseWriter, name, value string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
