package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/teemow/calgrid/internal/google"
	"github.com/teemow/calgrid/internal/logging"
	"github.com/teemow/calgrid/internal/server"
)

const loginTimeout = 5 * time.Minute

func newLoginCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with Google and store the token",
		Long: `Sign in with Google using a local loopback redirect and store the token
in the OS keyring. The token is used by render --events, tui, events and mcp.

google.client_id and google.client_secret must be configured (or set via
GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.GoogleConfigured() {
				return fmt.Errorf("google.client_id and google.client_secret must be set to sign in")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
			defer cancel()

			out := cmd.OutOrStdout()
			conf := google.NewOAuthConfig(cfg.Google.ClientID, cfg.Google.ClientSecret, "")
			tok, err := google.Login(ctx, conf, func(authURL string) error {
				_, err := fmt.Fprintf(out, "Open this URL in your browser to sign in:\n\n  %s\n\n", authURL)
				return err
			})
			if err != nil {
				return fmt.Errorf("sign-in failed: %w", err)
			}

			provider := google.NewKeyringTokenProvider(google.KeyringService)
			if err := provider.SaveToken(account, tok); err != nil {
				return err
			}

			profile, err := google.FetchProfile(ctx, option.WithTokenSource(conf.TokenSource(ctx, tok)))
			if err != nil {
				logger.Warn("signed in but failed to load profile", logging.Err(err))
				_, err = fmt.Fprintf(out, "Signed in as account %q\n", account)
				return err
			}
			logger.Info("signed in", logging.UserHash(profile.Email))
			_, err = fmt.Fprintf(out, "Signed in as %s <%s> (account %q)\n", profile.Name, profile.Email, account)
			return err
		},
	}

	cmd.Flags().StringVar(&account, "account", google.DefaultAccount, "Account name to store the token under")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored Google token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.OutOrStdout(), google.NewKeyringTokenProvider(google.KeyringService), account)
		},
	}

	cmd.Flags().StringVar(&account, "account", google.DefaultAccount, "Account name whose token is deleted")
	return cmd
}

func runLogout(w io.Writer, provider *google.KeyringTokenProvider, account string) error {
	err := provider.DeleteToken(account)
	switch {
	case errors.Is(err, google.ErrNoToken):
		_, err = fmt.Fprintf(w, "No token stored for account %q\n", account)
		return err
	case err != nil:
		return err
	}
	_, err = fmt.Fprintf(w, "Signed out account %q\n", account)
	return err
}

func newWhoamiCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the Google profile of the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := newServerContext(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			provider := google.NewKeyringTokenProvider(google.KeyringService)
			return runWhoami(cmd.Context(), cmd.OutOrStdout(), sc, provider, account)
		},
	}

	cmd.Flags().StringVar(&account, "account", google.DefaultAccount, "Google account name to use")
	return cmd
}

func runWhoami(ctx context.Context, w io.Writer, sc *server.ServerContext, provider google.TokenProvider, account string) error {
	ts, err := google.TokenSource(ctx, sc.OAuthConfig(), provider, account)
	if err != nil {
		return fmt.Errorf("%w\n\n%s", err, google.GetAuthenticationErrorMessage(account))
	}
	profile, err := sc.FetchProfile(ctx, ts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s <%s>\n", profile.Name, profile.Email)
	return err
}
