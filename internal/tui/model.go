package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teemow/calgrid/internal/calendar"
	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/instrumentation"
	"github.com/teemow/calgrid/internal/prefs"
	"github.com/teemow/calgrid/internal/theme"
)

const (
	surfaceTUI  = "tui"
	loadTimeout = 30 * time.Second
)

// EventLister loads the events of a time range.
type EventLister interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]calendar.Event, error)
}

// Options configures a Model.
type Options struct {
	Renderer *grid.Renderer
	View     grid.View
	Theme    theme.Theme
	// Prefs persists the dark mode flag. Required.
	Prefs prefs.Store
	// Events may be nil; the grid is then shown without events.
	Events  EventLister
	Metrics *instrumentation.Metrics
}

// eventsLoadedMsg carries the result of a load for the range
// [start, end).
type eventsLoadedMsg struct {
	start  time.Time
	end    time.Time
	events []calendar.Event
	err    error
}

// Model is the terminal calendar grid.
type Model struct {
	renderer *grid.Renderer
	state    grid.ViewState
	layout   grid.Layout
	theme    theme.Theme
	mode     theme.Mode
	styles   Styles
	prefs    prefs.Store
	events   EventLister
	metrics  *instrumentation.Metrics

	placement calendar.Placement
	loading   bool
	status    string
	alert     bool

	keys     keyMap
	help     help.Model
	width    int
	height   int
	quitting bool
}

// NewModel creates the model for today in opts.View. The persisted mode
// is read from opts.Prefs.
func NewModel(opts Options) (Model, error) {
	if opts.Prefs == nil {
		return Model{}, fmt.Errorf("preference store is required")
	}
	r := opts.Renderer
	if r == nil {
		r = grid.NewRenderer(time.Sunday)
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	mode, err := theme.LoadMode(opts.Prefs)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		renderer: r,
		state:    grid.NewViewState(r.Now(), opts.View),
		theme:    opts.Theme,
		mode:     mode,
		prefs:    opts.Prefs,
		events:   opts.Events,
		metrics:  opts.Metrics,
		keys:     defaultKeyMap(),
		help:     help.New(),
		width:    80,
		height:   24,
	}
	m.styles = NewStyles(m.theme.Palette(m.mode), true)
	m.relayout()
	return m, nil
}

// Init starts the first event load.
func (m Model) Init() tea.Cmd {
	return m.loadEvents()
}

// State returns the navigation state.
func (m Model) State() grid.ViewState {
	return m.state
}

// Layout returns the grid currently shown.
func (m Model) Layout() grid.Layout {
	return m.layout
}

// Mode returns the active theme mode.
func (m Model) Mode() theme.Mode {
	return m.mode
}

// Loading reports whether an event load is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Status returns the status bar text.
func (m Model) Status() string {
	return m.status
}

func (m *Model) relayout() {
	m.layout = m.renderer.Render(m.state)
	m.placement = calendar.Placement{}
	m.metrics.RecordGridRender(context.Background(), surfaceTUI, m.layout.View.Days())
}

// navigate switches to state and reloads events for the new range.
func (m Model) navigate(state grid.ViewState) (tea.Model, tea.Cmd) {
	m.state = state
	m.relayout()
	cmd := m.loadEvents()
	return m, cmd
}

func (m *Model) loadEvents() tea.Cmd {
	if m.events == nil {
		return nil
	}
	m.loading = true
	m.alert = false
	m.status = "Loading events…"

	lister := m.events
	start, end := m.layout.Start, m.layout.End
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		events, err := lister.ListEvents(ctx, start, end)
		return eventsLoadedMsg{start: start, end: end, events: events, err: err}
	}
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case eventsLoadedMsg:
		// A response for a range no longer shown is dropped. Views of
		// different lengths can share a start date.
		if !msg.start.Equal(m.layout.Start) || !msg.end.Equal(m.layout.End) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.alert = true
			m.status = calendar.Alert(msg.err)
			return m, nil
		}
		m.placement = calendar.Place(m.layout, msg.events)
		m.status = eventCount(m.placement.Len())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Today):
		return m.navigate(m.state.Today(m.renderer.Now()))
	case key.Matches(msg, m.keys.Prev):
		return m.navigate(m.state.Prev())
	case key.Matches(msg, m.keys.Next):
		return m.navigate(m.state.Next())
	case key.Matches(msg, m.keys.Day):
		return m.navigate(m.state.WithView(grid.Day))
	case key.Matches(msg, m.keys.ThreeDay):
		return m.navigate(m.state.WithView(grid.ThreeDay))
	case key.Matches(msg, m.keys.Week):
		return m.navigate(m.state.WithView(grid.Week))
	case key.Matches(msg, m.keys.Reload):
		cmd := m.loadEvents()
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Dark):
		mode, err := theme.ToggleMode(m.prefs)
		if err != nil {
			m.alert = true
			m.status = err.Error()
			return m, nil
		}
		m.mode = mode
		m.styles = NewStyles(m.theme.Palette(mode), true)
		m.metrics.RecordThemeToggle(context.Background(), mode.String())
		return m, nil
	}
	return m, nil
}

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	status := m.styles.Status.Render(m.status)
	if m.alert {
		status = m.styles.Alert.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		Title(m.layout, m.styles),
		Table(m.layout, m.placement, m.styles),
		status,
		m.help.View(m.keys),
	)
}

func eventCount(n int) string {
	if n == 1 {
		return "1 event"
	}
	return fmt.Sprintf("%d events", n)
}

// Run starts the program on the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
