package google

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultAccount is the keyring entry used when no account is named.
const DefaultAccount = "default"

// ErrNoToken is returned when no stored token exists for an account.
var ErrNoToken = errors.New("no Google OAuth token found")

var accountNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// NewOAuthConfig returns the OAuth2 configuration for Google sign-in.
func NewOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       DefaultOAuthScopes,
	}
}

// validateAccountName ensures account names can be used as keyring entries
// and metric labels.
func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNamePattern.MatchString(account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, '-' and '_' are allowed", account)
	}
	return nil
}

// GetAuthenticationErrorMessage tells the user how to sign in an account.
func GetAuthenticationErrorMessage(account string) string {
	if account == "" {
		account = DefaultAccount
	}
	return fmt.Sprintf("Google OAuth token not found for account %q. Run 'calgrid login --account %s' to sign in.", account, account)
}

// TokenSource returns a refreshing token source for account. Refreshed
// tokens are not written back; the refresh token stays valid.
func TokenSource(ctx context.Context, conf *oauth2.Config, provider TokenProvider, account string) (oauth2.TokenSource, error) {
	tok, err := provider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return conf.TokenSource(ctx, tok), nil
}

// loginResult carries the outcome of the loopback callback.
type loginResult struct {
	code string
	err  error
}

// Login runs the authorization code flow with a loopback redirect.
// openURL is called with the consent URL; the user completes sign-in in a
// browser and Login returns the exchanged token. conf.RedirectURL is
// replaced with the local listener address.
func Login(ctx context.Context, conf *oauth2.Config, openURL func(string) error) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}

	local := &oauth2.Config{
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		Endpoint:     conf.Endpoint,
		Scopes:       conf.Scopes,
		RedirectURL:  fmt.Sprintf("http://%s/callback", ln.Addr().String()),
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	results := make(chan loginResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		// Requests without our state are not part of this login.
		if q.Get("state") != state {
			http.Error(w, "state mismatch in OAuth callback", http.StatusBadRequest)
			return
		}

		var res loginResult
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("code") == "":
			res.err = fmt.Errorf("authorization code missing from callback")
		default:
			res.code = q.Get("code")
		}

		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			_, _ = fmt.Fprintln(w, "Signed in. You can close this window.")
		}

		select {
		case results <- res:
		default:
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := local.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)
	if err := openURL(authURL); err != nil {
		return nil, fmt.Errorf("failed to open consent page: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := local.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, fmt.Errorf("failed to exchange auth code: %w", err)
		}
		return tok, nil
	}
}
