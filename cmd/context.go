package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/prefs"
	"github.com/teemow/calgrid/internal/server"
)

const dateLayout = "2006-01-02"

// newServerContext builds the server context shared by the commands
// that talk to Google Calendar.
func newServerContext(ctx context.Context, opts ...server.Option) (*server.ServerContext, error) {
	opts = append([]server.Option{server.WithLogger(logger)}, opts...)
	sc, err := server.NewServerContext(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	return sc, nil
}

// prefsStore opens the preference file in the config directory.
func prefsStore() (*prefs.FileStore, error) {
	path, err := prefs.DefaultPath()
	if err != nil {
		return nil, err
	}
	return prefs.NewFileStore(path), nil
}

// gridFlags are the --date, --view and --week-start flags shared by
// render and events list.
type gridFlags struct {
	date      string
	view      string
	weekStart string
}

// state parses the flags relative to now. Empty flags mean today and the
// configured view.
func (f gridFlags) state(now time.Time, defaultView grid.View) (grid.ViewState, error) {
	ref := now
	if f.date != "" {
		d, err := time.ParseInLocation(dateLayout, f.date, now.Location())
		if err != nil {
			return grid.ViewState{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", f.date)
		}
		ref = d
	}
	view := defaultView
	if f.view != "" {
		v, err := grid.ParseView(f.view)
		if err != nil {
			return grid.ViewState{}, err
		}
		view = v
	}
	return grid.NewViewState(ref, view), nil
}

// renderer returns a renderer for the flag's week start, or for
// defaultStart when none is given.
func (f gridFlags) renderer(defaultStart time.Weekday, now func() time.Time) (*grid.Renderer, error) {
	start := defaultStart
	if f.weekStart != "" {
		d, err := grid.ParseWeekday(f.weekStart)
		if err != nil {
			return nil, err
		}
		start = d
	}
	r := grid.NewRenderer(start)
	r.Now = now
	return r, nil
}

// parseTime accepts RFC3339 timestamps and plain dates in loc.
func parseTime(name, value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid %s %q: want RFC3339 or YYYY-MM-DD", name, value)
}

// parseCommaSeparatedList splits a comma-separated flag value, dropping
// empty entries.
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
