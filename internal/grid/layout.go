package grid

import (
	"fmt"
	"time"
)

// HoursPerDay is the number of hour rows in every grid.
const HoursPerDay = 24

// CellKind identifies what a cell displays.
type CellKind string

const (
	KindCorner    CellKind = "corner"
	KindDayHeader CellKind = "day-header"
	KindHourLabel CellKind = "hour-label"
	KindTimeSlot  CellKind = "time-slot"
)

// Cell is one positional entry of a Layout.
// Row 0 is the header row and rows 1 to 24 are hours 0 to 23.
// Column 0 is the label column and columns 1 to N are the visible days.
type Cell struct {
	Kind       CellKind  `json:"kind" yaml:"kind"`
	Row        int       `json:"row" yaml:"row"`
	Column     int       `json:"column" yaml:"column"`
	Label      string    `json:"label,omitempty" yaml:"label,omitempty"`
	Weekday    string    `json:"weekday,omitempty" yaml:"weekday,omitempty"`
	DayOfMonth int       `json:"day_of_month,omitempty" yaml:"day_of_month,omitempty"`
	Today      bool      `json:"today,omitempty" yaml:"today,omitempty"`
	Hour       int       `json:"hour" yaml:"hour"`
	Date       time.Time `json:"date,omitzero" yaml:"date,omitempty"`
}

// Start returns the instant the cell begins. For day headers this is
// midnight, for time slots it is the top of the slot's hour.
func (c Cell) Start() time.Time {
	if c.Date.IsZero() {
		return c.Date
	}
	y, m, d := c.Date.Date()
	return time.Date(y, m, d, c.Hour, 0, 0, 0, c.Date.Location())
}

// Layout is the full description of a rendered grid. Cells are stored
// in row-major order, Columns cells per row.
type Layout struct {
	Caption string      `json:"caption" yaml:"caption"`
	View    View        `json:"view" yaml:"view"`
	Start   time.Time   `json:"start" yaml:"start"`
	End     time.Time   `json:"end" yaml:"end"`
	Days    []time.Time `json:"days" yaml:"days"`
	Columns int         `json:"columns" yaml:"columns"`
	Rows    int         `json:"rows" yaml:"rows"`
	Cells   []Cell      `json:"cells" yaml:"cells"`
}

// Cell returns the cell at row and column. It panics when the position
// is outside the grid.
func (l Layout) Cell(row, column int) Cell {
	if row < 0 || row >= l.Rows || column < 0 || column >= l.Columns {
		panic(fmt.Sprintf("grid: cell (%d, %d) outside %dx%d layout", row, column, l.Rows, l.Columns))
	}
	return l.Cells[row*l.Columns+column]
}

// Row returns the cells of one row, label column included.
func (l Layout) Row(row int) []Cell {
	return l.Cells[row*l.Columns : (row+1)*l.Columns]
}

// Header returns the day header cells without the corner cell.
func (l Layout) Header() []Cell {
	return l.Row(0)[1:]
}

// TodayColumn returns the column of the day flagged as today, or 0 when
// today is not visible.
func (l Layout) TodayColumn() int {
	for _, c := range l.Header() {
		if c.Today {
			return c.Column
		}
	}
	return 0
}

// Contains reports whether t lies within [Start, End).
func (l Layout) Contains(t time.Time) bool {
	return !t.Before(l.Start) && t.Before(l.End)
}

// SlotFor locates the time-slot cell whose hour contains t.
func (l Layout) SlotFor(t time.Time) (row, column int, ok bool) {
	if !l.Contains(t) {
		return 0, 0, false
	}
	local := t.In(l.Start.Location())
	for i, d := range l.Days {
		if SameDate(d, local) {
			return local.Hour() + 1, i + 1, true
		}
	}
	return 0, 0, false
}

// HourLabel formats an hour of the day on a 12-hour clock, e.g. "12 AM",
// "9 AM", "3 PM".
func HourLabel(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d %s", h, suffix)
}
