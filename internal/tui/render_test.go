package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/teemow/calgrid/internal/calendar"
	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/theme"
)

func testLayout(v grid.View) grid.Layout {
	r := grid.NewRenderer(time.Sunday)
	r.Now = func() time.Time { return testNow }
	return r.Render(grid.NewViewState(testNow, v))
}

func TestTitle(t *testing.T) {
	st := NewStyles(nil, false)

	assert.Equal(t, "Week View  Mar 9 - Mar 15, 2025", Title(testLayout(grid.Week), st))
	assert.Equal(t, "Day View  Wed Mar 12, 2025", Title(testLayout(grid.Day), st))
}

func TestTable(t *testing.T) {
	layout := testLayout(grid.ThreeDay)
	placement := calendar.Place(layout, []calendar.Event{
		{ID: "1", Summary: "Standup", Start: testNow, End: testNow.Add(time.Hour)},
		{ID: "2", Summary: "Quarterly planning with everyone", Start: testNow.Add(26 * time.Hour), End: testNow.Add(27 * time.Hour)},
	})

	out := Table(layout, placement, NewStyles(nil, false))

	for _, want := range []string{"Wed 12", "Thu 13", "Fri 14", "12 AM", "10 AM", "11 PM", "Standup", "Quarterly pla…"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Sat 15")
	assert.NotContains(t, out, allDayLabel)
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 24)
}

func TestTable_AllDayRow(t *testing.T) {
	layout := testLayout(grid.Week)
	placement := calendar.Place(layout, []calendar.Event{
		{ID: "1", Summary: "Offsite", AllDay: true, Start: time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
	})

	out := Table(layout, placement, NewStyles(nil, false))

	assert.Contains(t, out, allDayLabel)
	assert.Contains(t, out, "Offsite")
}

func TestNewStyles_Colors(t *testing.T) {
	th := theme.Derive(theme.DefaultSourceColor)

	plain := NewStyles(th.Light, false)
	assert.Equal(t, "Week View", plain.Caption.Render("Week View"))

	colored := NewStyles(th.Light, true)
	assert.Equal(t, lipgloss.Color(th.Light.Hex(theme.RolePrimary)), colored.Caption.GetForeground())
	assert.True(t, colored.Caption.GetBold())
	assert.False(t, plain.Caption.GetBold())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "äöü…", truncate("äöüßxyz", 4))
	assert.Equal(t, "", summaries(nil))
	assert.Equal(t, "(no title)", summaries([]calendar.Event{{}}))
}
