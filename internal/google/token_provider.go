package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

// KeyringService is the service name under which tokens are stored.
const KeyringService = "calgrid"

// TokenProvider is an interface for providing OAuth tokens for Google APIs
// This abstraction allows different token sources (keyring, web session)
type TokenProvider interface {
	// GetTokenForAccount retrieves an OAuth token for the specified account
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount checks if a token exists for the specified account
	HasTokenForAccount(account string) bool
}

// KeyringTokenProvider keeps tokens in the OS keyring, one entry per account.
type KeyringTokenProvider struct {
	service string
}

// NewKeyringTokenProvider creates a keyring-backed provider. An empty
// service means KeyringService.
func NewKeyringTokenProvider(service string) *KeyringTokenProvider {
	if service == "" {
		service = KeyringService
	}
	return &KeyringTokenProvider{service: service}
}

func (p *KeyringTokenProvider) GetTokenForAccount(_ context.Context, account string) (*oauth2.Token, error) {
	if err := validateAccountName(account); err != nil {
		return nil, err
	}

	raw, err := keyring.Get(p.service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("%w for account %q", ErrNoToken, account)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token from keyring: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return nil, fmt.Errorf("stored token for account %q is corrupt: %w", account, err)
	}
	return &tok, nil
}

func (p *KeyringTokenProvider) HasTokenForAccount(account string) bool {
	if validateAccountName(account) != nil {
		return false
	}
	_, err := keyring.Get(p.service, account)
	return err == nil
}

// SaveToken stores tok for account, replacing any previous token.
func (p *KeyringTokenProvider) SaveToken(account string, tok *oauth2.Token) error {
	if err := validateAccountName(account); err != nil {
		return err
	}
	if tok == nil {
		return fmt.Errorf("token is nil")
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := keyring.Set(p.service, account, string(data)); err != nil {
		return fmt.Errorf("failed to write token to keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the token for account. Deleting a missing token
// returns ErrNoToken.
func (p *KeyringTokenProvider) DeleteToken(account string) error {
	if err := validateAccountName(account); err != nil {
		return err
	}
	err := keyring.Delete(p.service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w for account %q", ErrNoToken, account)
	}
	return err
}

// StaticTokenProvider serves a single token regardless of account, as
// held by a signed-in web session.
type StaticTokenProvider struct {
	token *oauth2.Token
}

func NewStaticTokenProvider(tok *oauth2.Token) *StaticTokenProvider {
	return &StaticTokenProvider{token: tok}
}

func (p *StaticTokenProvider) GetTokenForAccount(_ context.Context, _ string) (*oauth2.Token, error) {
	if p.token == nil {
		return nil, ErrNoToken
	}
	return p.token, nil
}

func (p *StaticTokenProvider) HasTokenForAccount(_ string) bool {
	return p.token != nil
}
