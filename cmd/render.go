package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/calgrid/internal/calendar"
	"github.com/teemow/calgrid/internal/google"
	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/theme"
	"github.com/teemow/calgrid/internal/tui"
)

// renderOptions carries everything runRender needs, resolved from flags
// and configuration.
type renderOptions struct {
	flags       gridFlags
	output      string
	now         func() time.Time
	weekStart   time.Weekday
	defaultView grid.View
	theme       theme.Theme
	mode        theme.Mode
	// events is nil when only the empty grid is rendered.
	events tui.EventLister
}

// renderResult is the structured render output.
type renderResult struct {
	grid.Layout `yaml:",inline"`
	Events      []calendar.Event `json:"events,omitempty" yaml:"events,omitempty"`
}

func newRenderCmd() *cobra.Command {
	var (
		flags      gridFlags
		output     string
		withEvents bool
		account    string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the calendar grid",
		Long: `Print the calendar grid for a date and view.

Text output is a table with one column per day and one row per hour. It is
colored with the theme palette when stdout is a terminal. JSON and YAML
output contain the full layout.

Examples:
  calgrid render
  calgrid render --view 3 --date 2025-03-12
  calgrid render --events --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := renderOptions{
				flags:       flags,
				output:      output,
				now:         time.Now,
				weekStart:   cfg.WeekStartDay(),
				defaultView: cfg.View(),
				theme:       theme.Derive(cfg.Theme.SourceColor),
			}

			if store, err := prefsStore(); err == nil {
				if mode, err := theme.LoadMode(store); err == nil {
					opts.mode = mode
				}
			}

			if withEvents {
				sc, err := newServerContext(cmd.Context())
				if err != nil {
					return err
				}
				defer func() { _ = sc.Shutdown() }()

				svc, err := sc.EventServiceForAccount(account)
				if err != nil {
					return err
				}
				opts.events = svc
			}

			return runRender(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&flags.date, "date", "", "Reference date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&flags.view, "view", "", "Visible days: 1, 3 or 7 (default: calendar.default_view)")
	cmd.Flags().StringVar(&flags.weekStart, "week-start", "", "First day of a week view (default: calendar.week_start)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&withEvents, "events", false, "Place the account's Google Calendar events in the grid")
	cmd.Flags().StringVar(&account, "account", google.DefaultAccount, "Google account name to use")
	return cmd
}

func runRender(ctx context.Context, w io.Writer, opts renderOptions) error {
	if err := validateOutput(opts.output); err != nil {
		return err
	}
	r, err := opts.flags.renderer(opts.weekStart, opts.now)
	if err != nil {
		return err
	}
	state, err := opts.flags.state(opts.now(), opts.defaultView)
	if err != nil {
		return err
	}
	layout := r.Render(state)

	var events []calendar.Event
	if opts.events != nil {
		events, err = opts.events.ListEvents(ctx, layout.Start, layout.End)
		if err != nil {
			return alertError(err)
		}
	}

	if opts.output != outputText {
		return writeStructured(w, opts.output, renderResult{Layout: layout, Events: events})
	}

	styles := tui.NewStyles(opts.theme.Palette(opts.mode), isTerminal(w))
	placement := calendar.Place(layout, events)
	_, err = fmt.Fprintf(w, "%s\n%s\n", tui.Title(layout, styles), tui.Table(layout, placement, styles))
	return err
}
