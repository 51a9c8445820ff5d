package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	"github.com/teemow/calgrid/internal/google"
	"github.com/teemow/calgrid/internal/server"
)

func TestRunLogout(t *testing.T) {
	keyring.MockInit()
	provider := google.NewKeyringTokenProvider(google.KeyringService)

	var buf bytes.Buffer
	require.NoError(t, runLogout(&buf, provider, "work"))
	assert.Equal(t, "No token stored for account \"work\"\n", buf.String())

	require.NoError(t, provider.SaveToken("work", &oauth2.Token{AccessToken: "tok"}))
	require.True(t, provider.HasTokenForAccount("work"))

	buf.Reset()
	require.NoError(t, runLogout(&buf, provider, "work"))
	assert.Equal(t, "Signed out account \"work\"\n", buf.String())
	assert.False(t, provider.HasTokenForAccount("work"))
}

func TestRunWhoami(t *testing.T) {
	useDefaultConfig(t)

	var gotToken string
	fetcher := func(ctx context.Context, ts oauth2.TokenSource) (*google.Profile, error) {
		tok, err := ts.Token()
		if err != nil {
			return nil, err
		}
		gotToken = tok.AccessToken
		return &google.Profile{Name: "Ada Lovelace", Email: "ada@example.com"}, nil
	}
	sc, err := newServerContext(context.Background(), server.WithProfileFetcher(fetcher))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	provider := google.NewStaticTokenProvider(&oauth2.Token{
		AccessToken: "tok",
		Expiry:      time.Now().Add(time.Hour),
	})

	var buf bytes.Buffer
	require.NoError(t, runWhoami(context.Background(), &buf, sc, provider, google.DefaultAccount))
	assert.Equal(t, "Ada Lovelace <ada@example.com>\n", buf.String())
	assert.Equal(t, "tok", gotToken)
}

func TestRunWhoami_NoToken(t *testing.T) {
	useDefaultConfig(t)

	sc, err := newServerContext(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	err = runWhoami(context.Background(), &bytes.Buffer{}, sc, google.NewStaticTokenProvider(nil), "work")
	require.ErrorIs(t, err, google.ErrNoToken)
	assert.Contains(t, err.Error(), "calgrid login --account work")
}

func TestRunWhoami_ProfileFailure(t *testing.T) {
	useDefaultConfig(t)

	fetcher := func(context.Context, oauth2.TokenSource) (*google.Profile, error) {
		return nil, errors.New("userinfo: 401")
	}
	sc, err := newServerContext(context.Background(), server.WithProfileFetcher(fetcher))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	provider := google.NewStaticTokenProvider(&oauth2.Token{AccessToken: "tok", Expiry: time.Now().Add(time.Hour)})
	err = runWhoami(context.Background(), &bytes.Buffer{}, sc, provider, google.DefaultAccount)
	require.ErrorContains(t, err, "401")
}
