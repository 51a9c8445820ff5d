package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/calgrid/internal/google"
	"github.com/teemow/calgrid/internal/instrumentation"
	"github.com/teemow/calgrid/internal/logging"
)

// DefaultCalendarID is the signed-in user's primary calendar.
const DefaultCalendarID = "primary"

// Client wraps the Google Calendar service for a single calendar.
type Client struct {
	svc        *calendar.Service
	calendarID string
	location   *time.Location
	metrics    *instrumentation.Metrics
	logger     logging.Logger
}

// NewClient creates a client for calendarID. Authentication comes from
// opts, typically option.WithTokenSource.
func NewClient(ctx context.Context, calendarID string, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}

	return &Client{
		svc:        svc,
		calendarID: calendarID,
		location:   time.Local,
		logger:     logging.DefaultLogger(),
	}, nil
}

// NewClientForAccount creates a client authenticated with the token that
// provider holds for account.
func NewClientForAccount(ctx context.Context, conf *oauth2.Config, provider google.TokenProvider, account, calendarID string) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	ts, err := google.TokenSource(ctx, conf, provider, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}
	return NewClient(ctx, calendarID, option.WithTokenSource(ts))
}

// CalendarID returns the calendar this client reads and writes.
func (c *Client) CalendarID() string {
	return c.calendarID
}

// SetMetrics sets the recorder for API call metrics.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

func (c *Client) SetLogger(l logging.Logger) {
	if l != nil {
		c.logger = l
	}
}

// SetLocation sets the zone all-day dates are read in (default: time.Local).
func (c *Client) SetLocation(loc *time.Location) {
	if loc != nil {
		c.location = loc
	}
}

// call runs fn inside a client span, records the operation metric and
// converts a failure into *Error.
func (c *Client) call(ctx context.Context, op Op, eventID string, fn func(context.Context) error) error {
	start := time.Now()
	attrs := instrumentation.NewSpanAttributeBuilder().
		WithCalendar(c.calendarID).
		WithEventID(eventID).
		Build()
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, string(op), attrs...)
	defer span.End()

	err := fn(ctx)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		c.logger.Error("google calendar call failed",
			logging.Operation("calendar."+string(op)),
			logging.EventID(eventID),
			logging.Duration(duration),
			logging.Err(err))
		err = &Error{Op: op, EventID: eventID, Err: err}
	} else {
		instrumentation.SetSpanSuccess(span)
		c.logger.Debug("google calendar call",
			logging.Operation("calendar."+string(op)),
			logging.Duration(duration))
	}
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, string(op), status, duration)
	return err
}

// ListEvents lists events starting before timeMax and ending after
// timeMin. Recurring events are expanded and results are ordered by start.
func (c *Client) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error) {
	var events []Event
	err := c.call(ctx, OpList, "", func(ctx context.Context) error {
		return c.svc.Events.List(c.calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			ShowDeleted(false).
			OrderBy("startTime").
			Pages(ctx, func(page *calendar.Events) error {
				for _, item := range page.Items {
					events = append(events, toEvent(item, c.location))
				}
				return nil
			})
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent retrieves a specific event by ID
func (c *Client) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	var ev Event
	err := c.call(ctx, OpGet, eventID, func(ctx context.Context) error {
		got, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()
		if err != nil {
			return err
		}
		ev = toEvent(got, c.location)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// CreateEvent validates in and inserts it.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var ev Event
	err := c.call(ctx, OpCreate, "", func(ctx context.Context) error {
		created, err := c.svc.Events.Insert(c.calendarID, newAPIEvent(in)).Context(ctx).Do()
		if err != nil {
			return err
		}
		ev = toEvent(created, c.location)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// UpdateEvent loads the stored event, overwrites the fields set in in and
// saves the result.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, in EventInput) (*Event, error) {
	if err := in.validatePatch(); err != nil {
		return nil, err
	}

	var ev Event
	err := c.call(ctx, OpUpdate, eventID, func(ctx context.Context) error {
		existing, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to get existing event: %w", err)
		}
		if err := applyPatch(existing, in); err != nil {
			return err
		}

		updated, err := c.svc.Events.Update(c.calendarID, eventID, existing).Context(ctx).Do()
		if err != nil {
			return err
		}
		ev = toEvent(updated, c.location)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// DeleteEvent deletes a calendar event
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	return c.call(ctx, OpDelete, eventID, func(ctx context.Context) error {
		return c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	})
}
