package calendar

import (
	"time"

	"github.com/teemow/calgrid/internal/grid"
)

// Slot addresses a time-slot cell of a grid.Layout.
type Slot struct {
	Row    int
	Column int
}

// Placement assigns events to the cells of one layout.
type Placement struct {
	// Timed holds events by the slot their (clipped) start falls in.
	Timed map[Slot][]Event
	// AllDay holds all-day events by column, one entry per covered day.
	AllDay map[int][]Event
}

// At returns the timed events starting in the given slot.
func (p Placement) At(row, column int) []Event {
	return p.Timed[Slot{Row: row, Column: column}]
}

// AllDayAt returns the all-day events covering a column.
func (p Placement) AllDayAt(column int) []Event {
	return p.AllDay[column]
}

// Len is the number of distinct events placed.
func (p Placement) Len() int {
	seen := map[string]struct{}{}
	for _, evs := range p.Timed {
		for _, e := range evs {
			seen[e.ID] = struct{}{}
		}
	}
	for _, evs := range p.AllDay {
		for _, e := range evs {
			seen[e.ID] = struct{}{}
		}
	}
	return len(seen)
}

// Place groups events into the layout's cells. Timed events go to the
// slot of their start hour; an event already running when the range
// begins goes to the first slot. Events outside the range are dropped.
// Input order is kept within a cell.
func Place(layout grid.Layout, events []Event) Placement {
	p := Placement{
		Timed:  map[Slot][]Event{},
		AllDay: map[int][]Event{},
	}

	for _, e := range events {
		if e.AllDay {
			placeAllDay(p, layout, e)
			continue
		}

		start := e.Start
		if start.Before(layout.Start) && e.End.After(layout.Start) {
			start = layout.Start
		}
		row, col, ok := layout.SlotFor(start)
		if !ok {
			continue
		}
		slot := Slot{Row: row, Column: col}
		p.Timed[slot] = append(p.Timed[slot], e)
	}
	return p
}

func placeAllDay(p Placement, layout grid.Layout, e Event) {
	first := grid.DateOf(e.Start)
	last := grid.DateOf(e.End)
	if !last.After(first) {
		last = first.AddDate(0, 0, 1)
	}
	for i, d := range layout.Days {
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, first.Location())
		if !day.Before(first) && day.Before(last) {
			p.AllDay[i+1] = append(p.AllDay[i+1], e)
		}
	}
}
