package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/teemow/calgrid/internal/calendar"
	"github.com/teemow/calgrid/internal/grid"
)

const allDayLabel = "all day"

// Title is the caption followed by the visible date range.
func Title(layout grid.Layout, st Styles) string {
	first := layout.Days[0]
	last := layout.Days[len(layout.Days)-1]

	span := first.Format("Mon Jan 2, 2006")
	if len(layout.Days) > 1 {
		span = fmt.Sprintf("%s - %s", first.Format("Jan 2"), last.Format("Jan 2, 2006"))
	}
	return st.Caption.Render(layout.Caption) + "  " + st.Range.Render(span)
}

// Table renders the grid as a table: one column per day, one row per
// hour, plus an all-day row when there are all-day events. A slot lists
// the summaries of the events starting in it.
func Table(layout grid.Layout, placement calendar.Placement, st Styles) string {
	headers := []string{""}
	for _, c := range layout.Header() {
		headers = append(headers, c.Label)
	}

	var rows [][]string
	if len(placement.AllDay) > 0 {
		row := []string{allDayLabel}
		for col := 1; col < layout.Columns; col++ {
			row = append(row, summaries(placement.AllDayAt(col)))
		}
		rows = append(rows, row)
	}
	for r := 1; r < layout.Rows; r++ {
		row := []string{layout.Cell(r, 0).Label}
		for col := 1; col < layout.Columns; col++ {
			row = append(row, summaries(placement.At(r, col)))
		}
		rows = append(rows, row)
	}

	today := layout.TodayColumn()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow && col > 0 && col == today:
				return st.TodayHeader
			case row == table.HeaderRow:
				return st.DayHeader
			case col == 0:
				return st.HourLabel
			case col == today:
				return st.TodaySlot
			default:
				return st.Slot
			}
		})
	return t.String()
}

// summaries joins event summaries and cuts them to the slot width.
func summaries(events []calendar.Event) string {
	if len(events) == 0 {
		return ""
	}
	names := make([]string, 0, len(events))
	for _, e := range events {
		name := e.Summary
		if name == "" {
			name = "(no title)"
		}
		names = append(names, name)
	}
	return truncate(strings.Join(names, ", "), SlotWidth)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
