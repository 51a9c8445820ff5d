package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// View is the number of days visible in the grid.
type View int

const (
	Day      View = 1
	ThreeDay View = 3
	Week     View = 7
)

// DefaultView is used when no valid view is given.
const DefaultView = Week

// ErrInvalidView is returned when a view string is not one of 1, 3 or 7.
var ErrInvalidView = errors.New("invalid view")

// ErrInvalidWeekday is returned when a week start cannot be parsed.
var ErrInvalidWeekday = errors.New("invalid weekday")

// Views lists the selectable views in display order.
var Views = []View{Day, ThreeDay, Week}

// ParseView accepts "1", "3", "7", "day", "3day", "3-day" and "week".
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "day":
		return Day, nil
	case "3", "3day", "3-day":
		return ThreeDay, nil
	case "7", "week":
		return Week, nil
	}
	return 0, fmt.Errorf("%w: %q (want 1, 3 or 7)", ErrInvalidView, s)
}

// Valid reports whether v is one of the supported views.
func (v View) Valid() bool {
	return v == Day || v == ThreeDay || v == Week
}

// OrDefault returns v, or DefaultView when v is not valid.
func (v View) OrDefault() View {
	if v.Valid() {
		return v
	}
	return DefaultView
}

// Days returns the number of visible day columns.
func (v View) Days() int {
	return int(v.OrDefault())
}

// Caption returns the heading shown above the grid.
func (v View) Caption() string {
	switch v.OrDefault() {
	case Day:
		return "Day View"
	case ThreeDay:
		return "3-Day View"
	default:
		return "Week View"
	}
}

func (v View) String() string {
	return strconv.Itoa(v.Days())
}

// ParseWeekday accepts full or three letter English day names and the
// numbers 0 (Sunday) through 6 (Saturday).
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}
