package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/calgrid/internal/google"
	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/logging"
	"github.com/teemow/calgrid/internal/theme"
	"github.com/teemow/calgrid/internal/tui"
)

func newTUICmd() *cobra.Command {
	var (
		view     string
		account  string
		noEvents bool
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive terminal calendar grid",
		Long: `Start the interactive terminal calendar grid.

Keys: t today, h/← previous, l/→ next, 1/3/7 view, d dark mode, r reload,
? help, q quit.

Events of the stored Google account are shown when a token is available
(see 'calgrid login').`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := cfg.View()
			if view != "" {
				pv, err := grid.ParseView(view)
				if err != nil {
					return err
				}
				v = pv
			}

			store, err := prefsStore()
			if err != nil {
				return err
			}

			opts := tui.Options{
				Renderer: grid.NewRenderer(cfg.WeekStartDay()),
				View:     v,
				Theme:    theme.Derive(cfg.Theme.SourceColor),
				Prefs:    store,
			}

			if !noEvents {
				sc, err := newServerContext(cmd.Context())
				if err != nil {
					return err
				}
				defer func() { _ = sc.Shutdown() }()

				svc, err := sc.EventServiceForAccount(account)
				if err != nil {
					// The grid is still useful without events.
					logger.Warn("events unavailable", logging.Err(err))
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				} else {
					opts.Events = svc
				}
			}

			m, err := tui.NewModel(opts)
			if err != nil {
				return err
			}
			return tui.Run(m)
		},
	}

	cmd.Flags().StringVar(&view, "view", "", "Initial view: 1, 3 or 7 (default: calendar.default_view)")
	cmd.Flags().StringVar(&account, "account", google.DefaultAccount, "Google account name to use")
	cmd.Flags().BoolVar(&noEvents, "no-events", false, "Show the grid without Google Calendar events")
	return cmd
}
