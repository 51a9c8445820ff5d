package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calgrid/internal/calendar"
	"github.com/teemow/calgrid/internal/grid"
)

type stubEvents struct {
	events    []calendar.Event
	err       error
	listMin   time.Time
	listMax   time.Time
	created   calendar.EventInput
	updatedID string
	updated   calendar.EventInput
	deleted   string
}

func (s *stubEvents) ListEvents(_ context.Context, timeMin, timeMax time.Time) ([]calendar.Event, error) {
	s.listMin, s.listMax = timeMin, timeMax
	if s.err != nil {
		return nil, &calendar.Error{Op: calendar.OpList, Err: s.err}
	}
	return s.events, nil
}

func (s *stubEvents) GetEvent(_ context.Context, id string) (*calendar.Event, error) {
	for _, e := range s.events {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, &calendar.Error{Op: calendar.OpGet, EventID: id, Err: errors.New("not found")}
}

func (s *stubEvents) CreateEvent(_ context.Context, in calendar.EventInput) (*calendar.Event, error) {
	if s.err != nil {
		return nil, &calendar.Error{Op: calendar.OpCreate, Err: s.err}
	}
	s.created = in
	return &calendar.Event{ID: "new", Summary: in.Summary, Start: in.Start, End: in.End, AllDay: in.AllDay}, nil
}

func (s *stubEvents) UpdateEvent(_ context.Context, id string, in calendar.EventInput) (*calendar.Event, error) {
	if s.err != nil {
		return nil, &calendar.Error{Op: calendar.OpUpdate, EventID: id, Err: s.err}
	}
	s.updatedID, s.updated = id, in
	return &calendar.Event{ID: id, Summary: in.Summary, Start: in.Start, End: in.End}, nil
}

func (s *stubEvents) DeleteEvent(_ context.Context, id string) error {
	if s.err != nil {
		return &calendar.Error{Op: calendar.OpDelete, EventID: id, Err: s.err}
	}
	s.deleted = id
	return nil
}

func weekLayout() grid.Layout {
	r := grid.NewRenderer(time.Sunday)
	r.Now = clock
	return r.Render(grid.NewViewState(fixedNow, grid.Week))
}

func TestRunEventsList_Text(t *testing.T) {
	stub := &stubEvents{events: []calendar.Event{
		{ID: "ev1", Summary: "Standup", Start: fixedNow, End: fixedNow.Add(30 * time.Minute)},
		{ID: "ev2", Summary: "Offsite", AllDay: true, Start: time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
	}}

	var buf bytes.Buffer
	require.NoError(t, runEventsList(context.Background(), &buf, stub, weekLayout(), outputText))

	out := buf.String()
	assert.Contains(t, out, "Wed Mar 12 10:30 - 11:00")
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "Thu Mar 13 all day")
	assert.Contains(t, out, "ev2")
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), stub.listMin)
	assert.Equal(t, time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), stub.listMax)
}

func TestRunEventsList_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runEventsList(context.Background(), &buf, &stubEvents{}, weekLayout(), outputText))
	assert.Equal(t, "No events in Week View (Mar 9 - Mar 15, 2025)\n", buf.String())

	buf.Reset()
	require.NoError(t, runEventsList(context.Background(), &buf, &stubEvents{}, weekLayout(), outputJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRunEventsList_JSON(t *testing.T) {
	stub := &stubEvents{events: []calendar.Event{
		{ID: "ev1", Summary: "Standup", Start: fixedNow, End: fixedNow.Add(30 * time.Minute)},
	}}

	var buf bytes.Buffer
	require.NoError(t, runEventsList(context.Background(), &buf, stub, weekLayout(), outputJSON))

	var got []calendar.Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "ev1", got[0].ID)
	assert.True(t, fixedNow.Equal(got[0].Start))
}

func TestRunEventsList_Failure(t *testing.T) {
	err := runEventsList(context.Background(), &bytes.Buffer{}, &stubEvents{err: errors.New("403")}, weekLayout(), outputText)
	require.ErrorContains(t, err, "Could not fetch Google Calendar events")
	require.ErrorContains(t, err, "403")
}

func TestEventFlags_Input(t *testing.T) {
	in, err := eventFlags{
		summary:   "Review",
		start:     "2025-03-12T14:00:00Z",
		end:       "2025-03-12T15:00:00Z",
		attendees: "a@example.com, b@example.com",
	}.input(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "Review", in.Summary)
	assert.Equal(t, time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC), in.Start)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, in.Attendees)
	require.NoError(t, in.Validate())

	// Unset fields stay zero so an update leaves them alone.
	in, err = eventFlags{location: "Room 4"}.input(time.UTC)
	require.NoError(t, err)
	assert.True(t, in.Start.IsZero())
	assert.Nil(t, in.Attendees)

	_, err = eventFlags{end: "later"}.input(time.UTC)
	require.ErrorContains(t, err, `invalid end "later"`)
}

func TestWriteEvent(t *testing.T) {
	ev := &calendar.Event{ID: "ev1", Summary: "Review", Start: fixedNow, End: fixedNow.Add(time.Hour)}

	var buf bytes.Buffer
	require.NoError(t, writeEvent(&buf, "Created", ev, outputText))
	assert.Equal(t, "Created event ev1: Review (Wed Mar 12 10:30 - 11:30)\n", buf.String())

	buf.Reset()
	require.NoError(t, writeEvent(&buf, "Updated", ev, outputYAML))
	assert.Contains(t, buf.String(), "ev1")
}

func TestRunEventsDelete(t *testing.T) {
	stub := &stubEvents{}

	var buf bytes.Buffer
	require.NoError(t, runEventsDelete(context.Background(), &buf, stub, []string{"ev1"}, outputText))
	assert.Equal(t, "Deleted event ev1\n", buf.String())
	assert.Equal(t, "ev1", stub.deleted)

	stub.err = errors.New("410 gone")
	buf.Reset()
	err := runEventsDelete(context.Background(), &buf, stub, []string{"ev2"}, outputJSON)
	require.EqualError(t, err, "1 of 1 deletions failed")
	assert.Contains(t, buf.String(), `"failed": 1`)
	assert.Contains(t, buf.String(), "Could not delete the event from Google Calendar.")
}
