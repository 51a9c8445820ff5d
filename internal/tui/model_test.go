package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calgrid/internal/calendar"
	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/prefs"
	"github.com/teemow/calgrid/internal/theme"
)

var testNow = time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

type stubLister struct {
	events []calendar.Event
	err    error
	calls  int
}

func (s *stubLister) ListEvents(_ context.Context, _, _ time.Time) ([]calendar.Event, error) {
	s.calls++
	if s.err != nil {
		return nil, &calendar.Error{Op: calendar.OpList, Err: s.err}
	}
	return s.events, nil
}

func newTestModel(t *testing.T, lister EventLister) (Model, *prefs.MemoryStore) {
	t.Helper()
	store := prefs.NewMemoryStore()
	r := grid.NewRenderer(time.Sunday)
	r.Now = func() time.Time { return testNow }
	m, err := NewModel(Options{
		Renderer: r,
		View:     grid.Week,
		Theme:    theme.Derive(theme.DefaultSourceColor),
		Prefs:    store,
		Events:   lister,
	})
	require.NoError(t, err)
	return m, store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func date(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestNewModel(t *testing.T) {
	_, err := NewModel(Options{})
	require.Error(t, err)

	m, _ := newTestModel(t, nil)
	require.Equal(t, date(12), m.State().Reference)
	require.Equal(t, grid.Week, m.State().View)
	require.Equal(t, date(9), m.Layout().Start)
	require.Equal(t, theme.Light, m.Mode())
	require.Nil(t, m.Init())
}

func TestNewModel_ReadsPersistedMode(t *testing.T) {
	store := prefs.NewMemoryStore()
	require.NoError(t, store.Set(theme.DarkModeKey, "true"))

	m, err := NewModel(Options{Prefs: store, Theme: theme.Derive(theme.DefaultSourceColor)})
	require.NoError(t, err)
	require.Equal(t, theme.Dark, m.Mode())
}

func TestUpdate_Navigation(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(t, m, runes("l"))
	require.Equal(t, date(19), m.State().Reference)
	require.Equal(t, date(16), m.Layout().Start)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(t, m, runes("h"))
	require.Equal(t, date(5), m.State().Reference)

	m, _ = press(t, m, runes("t"))
	require.Equal(t, date(12), m.State().Reference)

	m, _ = press(t, m, runes("1"))
	require.Equal(t, grid.Day, m.State().View)
	require.Equal(t, "Day View", m.Layout().Caption)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, date(13), m.State().Reference)

	m, _ = press(t, m, runes("3"))
	require.Equal(t, grid.ThreeDay, m.State().View)
	require.Len(t, m.Layout().Days, 3)

	m, _ = press(t, m, runes("w"))
	require.Equal(t, grid.Week, m.State().View)

	m, _ = press(t, m, runes("1"))
	m, _ = press(t, m, runes("7"))
	require.Equal(t, grid.Week, m.State().View)
	require.Equal(t, date(13), m.State().Reference)
}

func TestUpdate_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		m, _ := newTestModel(t, nil)
		m, cmd := press(t, m, msg)
		require.NotNil(t, cmd)
		require.IsType(t, tea.QuitMsg{}, cmd())
		require.Empty(t, m.View())
	}
}

func TestUpdate_ToggleDarkMode(t *testing.T) {
	m, store := newTestModel(t, nil)

	m, _ = press(t, m, runes("d"))
	require.Equal(t, theme.Dark, m.Mode())
	v, ok, err := store.Get(theme.DarkModeKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", v)

	m, _ = press(t, m, runes("d"))
	require.Equal(t, theme.Light, m.Mode())
	v, _, _ = store.Get(theme.DarkModeKey)
	require.Equal(t, "false", v)
}

func TestUpdate_Help(t *testing.T) {
	m, _ := newTestModel(t, nil)
	require.False(t, m.help.ShowAll)

	m, _ = press(t, m, runes("?"))
	require.True(t, m.help.ShowAll)
	require.Contains(t, m.View(), "dark mode")
}

func TestEvents_Load(t *testing.T) {
	lister := &stubLister{events: []calendar.Event{
		{ID: "1", Summary: "Standup", Start: testNow, End: testNow.Add(30 * time.Minute)},
	}}
	m, _ := newTestModel(t, lister)

	cmd := m.Init()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	require.Equal(t, 1, lister.calls)
	require.False(t, m.Loading())
	require.Equal(t, "1 event", m.Status())
	require.Len(t, m.placement.At(11, 4), 1)
	require.Contains(t, m.View(), "Standup")
}

func TestEvents_FailureShowsAlert(t *testing.T) {
	lister := &stubLister{err: errors.New("403")}
	m, _ := newTestModel(t, lister)

	updated, _ := m.Update(m.Init()())
	m = updated.(Model)

	require.Equal(t, "Could not fetch Google Calendar events. Please ensure you have granted calendar permissions.", m.Status())
	require.True(t, m.alert)
	require.Contains(t, m.View(), "Could not fetch Google Calendar events.")
}

func TestEvents_StaleResultDropped(t *testing.T) {
	lister := &stubLister{}
	m, _ := newTestModel(t, lister)
	stale := m.Init()

	m, next := press(t, m, runes("l"))
	require.NotNil(t, next)
	require.True(t, m.Loading())

	updated, _ := m.Update(stale())
	m = updated.(Model)
	require.True(t, m.Loading())

	updated, _ = m.Update(next())
	m = updated.(Model)
	require.False(t, m.Loading())
	require.Equal(t, "0 events", m.Status())
}

// rangeLister returns only the events starting inside the requested range.
type rangeLister struct {
	events []calendar.Event
}

func (r rangeLister) ListEvents(_ context.Context, timeMin, timeMax time.Time) ([]calendar.Event, error) {
	var out []calendar.Event
	for _, e := range r.events {
		if !e.Start.Before(timeMin) && e.Start.Before(timeMax) {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestEvents_StaleResultSameStartDropped(t *testing.T) {
	lister := rangeLister{events: []calendar.Event{
		{ID: "1", Summary: "Brunch", Start: date(9).Add(11 * time.Hour), End: date(9).Add(12 * time.Hour)},
		{ID: "2", Summary: "Review", Start: date(11).Add(9 * time.Hour), End: date(11).Add(10 * time.Hour)},
	}}
	m, _ := newTestModel(t, lister)

	m, _ = press(t, m, runes("1"))
	m, _ = press(t, m, runes("h"))
	m, _ = press(t, m, runes("h"))
	m, day := press(t, m, runes("h"))
	require.Equal(t, date(9), m.Layout().Start)

	m, week := press(t, m, runes("7"))
	require.Equal(t, date(9), m.Layout().Start)
	require.Equal(t, date(16), m.Layout().End)

	updated, _ := m.Update(week())
	m = updated.(Model)
	require.Equal(t, "2 events", m.Status())

	updated, _ = m.Update(day())
	m = updated.(Model)
	require.Equal(t, "2 events", m.Status())
	require.Len(t, m.placement.At(10, 3), 1)
}

func TestEvents_Reload(t *testing.T) {
	lister := &stubLister{}
	m, _ := newTestModel(t, lister)

	m, cmd := press(t, m, runes("r"))
	require.NotNil(t, cmd)
	require.True(t, m.Loading())
	cmd()
	require.Equal(t, 1, lister.calls)
}
