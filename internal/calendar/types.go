package calendar

import (
	"errors"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/calgrid/internal/config"
)

const dateLayout = "2006-01-02"

// ErrInvalidInput marks EventInput values rejected before any API call.
var ErrInvalidInput = errors.New("invalid event input")

// EventInput represents the input for creating or updating a calendar event
type EventInput struct {
	Summary     string    `json:"summary" validate:"required"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start" validate:"required"`
	End         time.Time `json:"end" validate:"required,gtfield=Start"`
	// TimeZone is an IANA name sent with timed events (default: UTC)
	TimeZone  string   `json:"time_zone,omitempty"`
	AllDay    bool     `json:"all_day,omitempty"`
	Attendees []string `json:"attendees,omitempty" validate:"dive,email"`
}

// Validate checks a complete input as used for creation.
func (in EventInput) Validate() error {
	if err := config.GetValidator().Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// validatePatch checks the fields an update sets. Zero fields are kept
// from the stored event, so only attendee addresses and the time order
// of a fully specified range are checked here.
func (in EventInput) validatePatch() error {
	if err := config.GetValidator().StructPartial(in, "Attendees"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !in.Start.IsZero() && !in.End.IsZero() && !in.End.After(in.Start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	return nil
}

// Event is a calendar event flattened for display.
type Event struct {
	ID          string    `json:"id" yaml:"id"`
	Summary     string    `json:"summary" yaml:"summary"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Location    string    `json:"location,omitempty" yaml:"location,omitempty"`
	Start       time.Time `json:"start" yaml:"start"`
	End         time.Time `json:"end" yaml:"end"`
	AllDay      bool      `json:"all_day,omitempty" yaml:"all_day,omitempty"`
	Status      string    `json:"status,omitempty" yaml:"status,omitempty"`
	Link        string    `json:"link,omitempty" yaml:"link,omitempty"`
	Attendees   []string  `json:"attendees,omitempty" yaml:"attendees,omitempty"`
}

// toEvent converts an API event. All-day dates are read in loc.
func toEvent(e *calendar.Event, loc *time.Location) Event {
	if e == nil {
		return Event{}
	}

	ev := Event{
		ID:          e.Id,
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Status:      e.Status,
		Link:        e.HtmlLink,
	}

	var startAllDay bool
	ev.Start, startAllDay = parseEventTime(e.Start, loc)
	ev.End, _ = parseEventTime(e.End, loc)
	ev.AllDay = startAllDay

	for _, a := range e.Attendees {
		ev.Attendees = append(ev.Attendees, a.Email)
	}
	return ev
}

func parseEventTime(dt *calendar.EventDateTime, loc *time.Location) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, false
	}
	if dt.Date != "" {
		t, err := time.ParseInLocation(dateLayout, dt.Date, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

func eventDateTime(t time.Time, allDay bool, tz string) *calendar.EventDateTime {
	if allDay {
		return &calendar.EventDateTime{Date: t.Format(dateLayout)}
	}
	if tz == "" {
		tz = "UTC"
	}
	return &calendar.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: tz,
	}
}

func attendees(emails []string) []*calendar.EventAttendee {
	if len(emails) == 0 {
		return nil
	}
	out := make([]*calendar.EventAttendee, 0, len(emails))
	for _, email := range emails {
		out = append(out, &calendar.EventAttendee{Email: email})
	}
	return out
}

// newAPIEvent builds the API representation of a validated input.
func newAPIEvent(in EventInput) *calendar.Event {
	return &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
		Start:       eventDateTime(in.Start, in.AllDay, in.TimeZone),
		End:         eventDateTime(in.End, in.AllDay, in.TimeZone),
		Attendees:   attendees(in.Attendees),
	}
}

// applyPatch copies the non-zero fields of in onto existing. Moving
// only one end of an event must keep it all-day or timed, since the API
// rejects a date start with a date-time end.
func applyPatch(existing *calendar.Event, in EventInput) error {
	if in.Start.IsZero() != in.End.IsZero() {
		kept := existing.End
		if in.Start.IsZero() {
			kept = existing.Start
		}
		if kept != nil && (kept.Date != "") != in.AllDay {
			return fmt.Errorf("%w: switching between all-day and timed needs both start and end", ErrInvalidInput)
		}
	}
	if in.Summary != "" {
		existing.Summary = in.Summary
	}
	if in.Description != "" {
		existing.Description = in.Description
	}
	if in.Location != "" {
		existing.Location = in.Location
	}
	if !in.Start.IsZero() {
		existing.Start = eventDateTime(in.Start, in.AllDay, in.TimeZone)
	}
	if !in.End.IsZero() {
		existing.End = eventDateTime(in.End, in.AllDay, in.TimeZone)
	}
	if len(in.Attendees) > 0 {
		existing.Attendees = attendees(in.Attendees)
	}
	return nil
}
