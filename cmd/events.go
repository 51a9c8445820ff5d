package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/teemow/calgrid/internal/calendar"
	"github.com/teemow/calgrid/internal/google"
	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/server"
	"github.com/teemow/calgrid/internal/tools/batch"
)

// eventFlags are the event fields settable from the command line.
type eventFlags struct {
	summary     string
	description string
	location    string
	start       string
	end         string
	timeZone    string
	attendees   string
	allDay      bool
}

func (f eventFlags) register(cmd *cobra.Command) *eventFlags {
	cmd.Flags().StringVar(&f.summary, "summary", "", "Event title/summary")
	cmd.Flags().StringVar(&f.description, "description", "", "Event description")
	cmd.Flags().StringVar(&f.location, "location", "", "Event location")
	cmd.Flags().StringVar(&f.start, "start", "", "Start time (RFC3339, or YYYY-MM-DD for all-day events)")
	cmd.Flags().StringVar(&f.end, "end", "", "End time (RFC3339, or YYYY-MM-DD for all-day events; exclusive)")
	cmd.Flags().StringVar(&f.timeZone, "time-zone", "", "Time zone (e.g. America/New_York, default: UTC)")
	cmd.Flags().StringVar(&f.attendees, "attendees", "", "Comma-separated list of attendee email addresses")
	cmd.Flags().BoolVar(&f.allDay, "all-day", false, "All-day event (only the dates of start and end are used)")
	return &f
}

// input converts the flags. Unset times stay zero.
func (f eventFlags) input(loc *time.Location) (calendar.EventInput, error) {
	in := calendar.EventInput{
		Summary:     f.summary,
		Description: f.description,
		Location:    f.location,
		TimeZone:    f.timeZone,
		AllDay:      f.allDay,
		Attendees:   parseCommaSeparatedList(f.attendees),
	}
	var err error
	if f.start != "" {
		if in.Start, err = parseTime("start", f.start, loc); err != nil {
			return in, err
		}
	}
	if f.end != "" {
		if in.End, err = parseTime("end", f.end, loc); err != nil {
			return in, err
		}
	}
	return in, nil
}

func newEventsCmd() *cobra.Command {
	var (
		account string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage Google Calendar events",
		Long: `List, create, update and delete events of the configured calendar
(google.calendar_id) using the stored token of an account.`,
	}
	cmd.PersistentFlags().StringVar(&account, "account", google.DefaultAccount, "Google account name to use")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")

	// withService runs fn with the account's event service.
	withService := func(cmd *cobra.Command, fn func(ctx context.Context, svc server.EventService) error) error {
		if err := validateOutput(output); err != nil {
			return err
		}
		sc, err := newServerContext(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = sc.Shutdown() }()

		svc, err := sc.EventServiceForAccount(account)
		if err != nil {
			return err
		}
		return fn(cmd.Context(), svc)
	}

	var gf gridFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the events visible in a grid view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := gf.renderer(cfg.WeekStartDay(), time.Now)
			if err != nil {
				return err
			}
			state, err := gf.state(time.Now(), cfg.View())
			if err != nil {
				return err
			}
			layout := r.Render(state)
			return withService(cmd, func(ctx context.Context, svc server.EventService) error {
				return runEventsList(ctx, cmd.OutOrStdout(), svc, layout, output)
			})
		},
	}
	listCmd.Flags().StringVar(&gf.date, "date", "", "Reference date (YYYY-MM-DD, default: today)")
	listCmd.Flags().StringVar(&gf.view, "view", "", "Visible days: 1, 3 or 7 (default: calendar.default_view)")
	listCmd.Flags().StringVar(&gf.weekStart, "week-start", "", "First day of a week view (default: calendar.week_start)")

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		Example: `  calgrid events create --summary "Review" --start 2025-03-12T14:00:00Z --end 2025-03-12T15:00:00Z
  calgrid events create --summary "Offsite" --all-day --start 2025-03-13 --end 2025-03-14`,
		Args: cobra.NoArgs,
	}
	createFlags := eventFlags{}.register(createCmd)
	createCmd.RunE = func(cmd *cobra.Command, args []string) error {
		in, err := createFlags.input(time.Local)
		if err != nil {
			return err
		}
		if err := in.Validate(); err != nil {
			return err
		}
		return withService(cmd, func(ctx context.Context, svc server.EventService) error {
			ev, err := svc.CreateEvent(ctx, in)
			if err != nil {
				return alertError(err)
			}
			return writeEvent(cmd.OutOrStdout(), "Created", ev, output)
		})
	}

	updateCmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Update an event; only the given fields change",
		Args:  cobra.ExactArgs(1),
	}
	updateFlags := eventFlags{}.register(updateCmd)
	updateCmd.RunE = func(cmd *cobra.Command, args []string) error {
		in, err := updateFlags.input(time.Local)
		if err != nil {
			return err
		}
		return withService(cmd, func(ctx context.Context, svc server.EventService) error {
			ev, err := svc.UpdateEvent(ctx, args[0], in)
			if err != nil {
				return alertError(err)
			}
			return writeEvent(cmd.OutOrStdout(), "Updated", ev, output)
		})
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <event-id>...",
		Short: "Delete one or more events",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc server.EventService) error {
				return runEventsDelete(ctx, cmd.OutOrStdout(), svc, args, output)
			})
		},
	}

	cmd.AddCommand(listCmd, createCmd, updateCmd, deleteCmd)
	return cmd
}

// alertError prefixes calendar failures with their user-facing alert.
func alertError(err error) error {
	return fmt.Errorf("%s: %w", calendar.Alert(err), err)
}

func runEventsList(ctx context.Context, w io.Writer, svc server.EventService, layout grid.Layout, output string) error {
	events, err := svc.ListEvents(ctx, layout.Start, layout.End)
	if err != nil {
		return alertError(err)
	}

	if output != outputText {
		if events == nil {
			events = []calendar.Event{}
		}
		return writeStructured(w, output, events)
	}

	if len(events) == 0 {
		_, err := fmt.Fprintf(w, "No events in %s (%s - %s)\n", layout.Caption,
			layout.Start.Format("Jan 2"), layout.End.AddDate(0, 0, -1).Format("Jan 2, 2006"))
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("when", "summary", "id")
	for _, e := range events {
		t.Row(eventWhen(e), e.Summary, e.ID)
	}
	_, err = fmt.Fprintln(w, t.String())
	return err
}

// runEventsDelete deletes every ID and reports each outcome. It fails
// when any deletion failed.
func runEventsDelete(ctx context.Context, w io.Writer, svc server.EventService, ids []string, output string) error {
	results := batch.Process(ctx, ids, batch.DefaultLimit, func(ctx context.Context, id string) (string, error) {
		if err := svc.DeleteEvent(ctx, id); err != nil {
			return "", alertError(err)
		}
		return "deleted", nil
	})
	summary := batch.Summarize(results)

	if output != outputText {
		if err := writeStructured(w, output, summary); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Status == batch.StatusSuccess {
				fmt.Fprintf(w, "Deleted event %s\n", r.ID)
			} else {
				fmt.Fprintf(w, "Failed to delete event %s: %s\n", r.ID, r.Error)
			}
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d deletions failed", summary.Failed, summary.Total)
	}
	return nil
}

func writeEvent(w io.Writer, verb string, ev *calendar.Event, output string) error {
	if output != outputText {
		return writeStructured(w, output, ev)
	}
	_, err := fmt.Fprintf(w, "%s event %s: %s (%s)\n", verb, ev.ID, ev.Summary, eventWhen(*ev))
	return err
}

func eventWhen(e calendar.Event) string {
	if e.AllDay {
		return e.Start.Format("Mon Jan 2") + " all day"
	}
	return e.Start.Format("Mon Jan 2 15:04") + " - " + e.End.Format("15:04")
}
