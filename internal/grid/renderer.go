package grid

import (
	"strconv"
	"time"
)

// Renderer turns a ViewState into a Layout.
type Renderer struct {
	// WeekStart is the first day of a week view.
	WeekStart time.Weekday

	// Now returns the current time. It decides which header cell is
	// flagged as today.
	Now func() time.Time
}

// NewRenderer creates a Renderer using the wall clock.
func NewRenderer(weekStart time.Weekday) *Renderer {
	return &Renderer{WeekStart: weekStart, Now: time.Now}
}

// RangeStart returns the first visible date for a reference date. Week
// views start on the most recent week start on or before ref; the other
// views start on ref itself.
func (r *Renderer) RangeStart(ref time.Time, v View) time.Time {
	d := DateOf(ref)
	if v.OrDefault() != Week {
		return d
	}
	offset := (int(d.Weekday()) - int(r.WeekStart) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

// Render builds the grid for state. It never fails: an invalid view is
// rendered as DefaultView.
func (r *Renderer) Render(state ViewState) Layout {
	view := state.View.OrDefault()
	n := view.Days()
	start := r.RangeStart(state.Reference, view)

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	today := now()

	layout := Layout{
		Caption: view.Caption(),
		View:    view,
		Start:   start,
		End:     start.AddDate(0, 0, n),
		Days:    make([]time.Time, n),
		Columns: n + 1,
		Rows:    HoursPerDay + 1,
		Cells:   make([]Cell, 0, (HoursPerDay+1)*(n+1)),
	}
	for i := range layout.Days {
		layout.Days[i] = start.AddDate(0, 0, i)
	}

	layout.Cells = append(layout.Cells, Cell{Kind: KindCorner})
	for i, d := range layout.Days {
		weekday := d.Weekday().String()[:3]
		layout.Cells = append(layout.Cells, Cell{
			Kind:       KindDayHeader,
			Column:     i + 1,
			Label:      weekday + " " + strconv.Itoa(d.Day()),
			Weekday:    weekday,
			DayOfMonth: d.Day(),
			Today:      SameDate(d, today),
			Date:       d,
		})
	}

	for hour := 0; hour < HoursPerDay; hour++ {
		row := hour + 1
		layout.Cells = append(layout.Cells, Cell{
			Kind:  KindHourLabel,
			Row:   row,
			Label: HourLabel(hour),
			Hour:  hour,
		})
		for i, d := range layout.Days {
			layout.Cells = append(layout.Cells, Cell{
				Kind:   KindTimeSlot,
				Row:    row,
				Column: i + 1,
				Hour:   hour,
				Date:   d,
			})
		}
	}

	return layout
}
