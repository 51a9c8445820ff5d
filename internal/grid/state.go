package grid

import "time"

// ViewState is the navigation state of one session: the reference date
// and how many days are visible. Values are immutable; every navigation
// method returns a new state.
type ViewState struct {
	Reference time.Time `json:"reference" yaml:"reference"`
	View      View      `json:"view" yaml:"view"`
}

// NewViewState returns a state for the date of ref.
func NewViewState(ref time.Time, v View) ViewState {
	return ViewState{Reference: DateOf(ref), View: v.OrDefault()}
}

// Next moves the reference forward by the visible day count.
func (s ViewState) Next() ViewState {
	return s.shift(1)
}

// Prev moves the reference back by the visible day count.
func (s ViewState) Prev() ViewState {
	return s.shift(-1)
}

// Today resets the reference to the date of now.
func (s ViewState) Today(now time.Time) ViewState {
	s.Reference = DateOf(now)
	return s
}

// WithView changes the visible day count and keeps the reference date.
func (s ViewState) WithView(v View) ViewState {
	s.View = v.OrDefault()
	return s
}

func (s ViewState) shift(direction int) ViewState {
	s.View = s.View.OrDefault()
	s.Reference = DateOf(s.Reference).AddDate(0, 0, direction*s.View.Days())
	return s
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar date in
// the location of a.
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.In(a.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
