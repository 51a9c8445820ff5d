package grid

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestViewState_NextPrevRoundTrip(t *testing.T) {
	refs := []time.Time{
		date(2025, time.January, 1),
		date(2024, time.February, 28),
		date(2024, time.December, 30),
		date(1999, time.December, 31),
	}

	for _, ref := range refs {
		for _, v := range Views {
			s := NewViewState(ref, v)
			assert.True(t, s.Next().Prev().Reference.Equal(ref), "next/prev for %s view %d", ref, v)
			assert.True(t, s.Prev().Next().Reference.Equal(ref), "prev/next for %s view %d", ref, v)
		}
	}
}

func TestViewState_NextShiftsByVisibleDays(t *testing.T) {
	ref := date(2025, time.December, 30)

	assert.Equal(t, date(2025, time.December, 31), NewViewState(ref, Day).Next().Reference)
	assert.Equal(t, date(2026, time.January, 2), NewViewState(ref, ThreeDay).Next().Reference)
	assert.Equal(t, date(2026, time.January, 6), NewViewState(ref, Week).Next().Reference)
	assert.Equal(t, date(2025, time.December, 23), NewViewState(ref, Week).Prev().Reference)
}

func TestViewState_TodayAndWithView(t *testing.T) {
	now := time.Date(2025, time.May, 5, 17, 42, 0, 0, time.UTC)
	s := NewViewState(date(2020, time.January, 1), Day).Today(now)

	assert.Equal(t, date(2025, time.May, 5), s.Reference)
	assert.Equal(t, Day, s.View)

	s = s.WithView(Week)
	assert.Equal(t, Week, s.View)
	assert.Equal(t, date(2025, time.May, 5), s.Reference)

	s = s.WithView(View(2))
	assert.Equal(t, DefaultView, s.View)
}

func TestViewState_NavigationIsUnbounded(t *testing.T) {
	s := NewViewState(date(2025, time.January, 1), Week)
	for i := 0; i < 10000; i++ {
		s = s.Prev()
	}
	assert.Equal(t, date(2025, time.January, 1).AddDate(0, 0, -70000), s.Reference)
}

func TestParseView(t *testing.T) {
	tests := []struct {
		input   string
		want    View
		wantErr bool
	}{
		{"1", Day, false},
		{"day", Day, false},
		{"3", ThreeDay, false},
		{"3-day", ThreeDay, false},
		{"7", Week, false},
		{" Week ", Week, false},
		{"2", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseView(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidView))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{"sunday", time.Sunday, false},
		{"Mon", time.Monday, false},
		{"6", time.Saturday, false},
		{"SATURDAY", time.Saturday, false},
		{"7", time.Sunday, true},
		{"funday", time.Sunday, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWeekday)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
