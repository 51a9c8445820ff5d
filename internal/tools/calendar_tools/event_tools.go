package calendar_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calgrid/internal/calendar"
	"github.com/teemow/calgrid/internal/server"
	"github.com/teemow/calgrid/internal/tools/batch"
)

const (
	toolListEvents  = "calendar_list_events"
	toolCreateEvent = "calendar_create_event"
	toolUpdateEvent = "calendar_update_event"
	toolDeleteEvent = "calendar_delete_event"
)

func accountArg() mcp.ToolOption {
	return mcp.WithString("account",
		mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
	)
}

func eventReadTools(sc *server.ServerContext) []mcpserver.ServerTool {
	listEventsTool := mcp.NewTool(toolListEvents,
		mcp.WithDescription("List the calendar events visible in the grid for a date and view"),
		mcp.WithReadOnlyHintAnnotation(true),
		accountArg(),
		mcp.WithString("date",
			mcp.Description("Reference date (YYYY-MM-DD). Defaults to today."),
		),
		mcp.WithString("view",
			mcp.Description("Number of visible days: '1', '3' or '7'. Defaults to the configured view."),
			mcp.Enum("1", "3", "7"),
		),
	)

	return []mcpserver.ServerTool{
		instrumented(listEventsTool, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}),
	}
}

func eventWriteTools(sc *server.ServerContext) []mcpserver.ServerTool {
	createEventTool := mcp.NewTool(toolCreateEvent,
		mcp.WithDescription("Create a new calendar event"),
		mcp.WithReadOnlyHintAnnotation(false),
		accountArg(),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title/summary"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339, e.g. '2025-01-15T14:00:00Z', or YYYY-MM-DD for all-day events)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End time (RFC3339, or YYYY-MM-DD for all-day events; exclusive)"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone (e.g., 'America/New_York'). Defaults to UTC."),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated list of attendee email addresses"),
		),
		mcp.WithBoolean("allDay",
			mcp.Description("Create as all-day event (ignores time portion of start/end)"),
		),
	)

	updateEventTool := mcp.NewTool(toolUpdateEvent,
		mcp.WithDescription("Update an existing calendar event. Only the given fields change."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		accountArg(),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to update"),
		),
		mcp.WithString("summary",
			mcp.Description("New event title/summary"),
		),
		mcp.WithString("start",
			mcp.Description("New start time (RFC3339 or YYYY-MM-DD)"),
		),
		mcp.WithString("end",
			mcp.Description("New end time (RFC3339 or YYYY-MM-DD)"),
		),
		mcp.WithString("description",
			mcp.Description("New event description"),
		),
		mcp.WithString("location",
			mcp.Description("New event location"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone (e.g., 'America/New_York')"),
		),
		mcp.WithString("attendees",
			mcp.Description("New comma-separated list of attendee email addresses"),
		),
		mcp.WithBoolean("allDay",
			mcp.Description("Treat the new start/end as dates"),
		),
	)

	deleteEventTool := mcp.NewTool(toolDeleteEvent,
		mcp.WithDescription("Delete one or more calendar events. Each ID is reported separately; one failure does not stop the others."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		accountArg(),
		mcp.WithString("eventIds",
			mcp.Required(),
			mcp.Description("Event ID (string) or array of event IDs to delete"),
		),
	)

	return []mcpserver.ServerTool{
		instrumented(createEventTool, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}),
		instrumented(updateEventTool, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateEvent(ctx, request, sc)
		}),
		instrumented(deleteEventTool, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		}),
	}
}

type listEventsResult struct {
	Caption string           `json:"caption"`
	Start   time.Time        `json:"start"`
	End     time.Time        `json:"end"`
	Events  []calendar.Event `json:"events"`
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	state, err := viewStateFromArgs(request, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	layout := sc.Renderer().Render(state)

	svc, err := getEventService(request, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := svc.ListEvents(ctx, layout.Start, layout.End)
	if err != nil {
		return calendarError(err), nil
	}
	if events == nil {
		events = []calendar.Event{}
	}

	return jsonResult(listEventsResult{
		Caption: layout.Caption,
		Start:   layout.Start,
		End:     layout.End,
		Events:  events,
	})
}

// eventInputFromArgs reads the event fields of a create or update
// request. Missing fields stay zero.
func eventInputFromArgs(request mcp.CallToolRequest, sc *server.ServerContext) (calendar.EventInput, error) {
	loc := sc.Now().Location()
	in := calendar.EventInput{
		Summary:     request.GetString("summary", ""),
		Description: request.GetString("description", ""),
		Location:    request.GetString("location", ""),
		TimeZone:    request.GetString("timeZone", ""),
		AllDay:      request.GetBool("allDay", false),
		Attendees:   splitAttendees(request.GetString("attendees", "")),
	}

	if v := request.GetString("start", ""); v != "" {
		t, err := parseTime("start", v, loc)
		if err != nil {
			return in, err
		}
		in.Start = t
	}
	if v := request.GetString("end", ""); v != "" {
		t, err := parseTime("end", v, loc)
		if err != nil {
			return in, err
		}
		in.End = t
	}
	return in, nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	in, err := eventInputFromArgs(request, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := in.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := getEventService(request, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	event, err := svc.CreateEvent(ctx, in)
	if err != nil {
		return writeError(err), nil
	}
	return jsonResult(event)
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	eventID, err := request.RequireString("eventId")
	if err != nil || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	in, err := eventInputFromArgs(request, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := getEventService(request, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	event, err := svc.UpdateEvent(ctx, eventID, in)
	if err != nil {
		return writeError(err), nil
	}
	return jsonResult(event)
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	eventIDs, err := batch.ParseStringOrArray(request.GetArguments()["eventIds"], "eventIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := getEventService(request, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := batch.Process(ctx, eventIDs, batch.DefaultLimit, func(ctx context.Context, eventID string) (string, error) {
		if err := svc.DeleteEvent(ctx, eventID); err != nil {
			return "", fmt.Errorf("%s (%w)", calendar.Alert(err), err)
		}
		return fmt.Sprintf("Event %s deleted", eventID), nil
	})

	summary := batch.Summarize(results)
	if summary.Successful == 0 {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultError(string(data)), nil
	}
	return jsonResult(summary)
}

// writeError reports rejected input as is and calendar failures with
// their alert.
func writeError(err error) *mcp.CallToolResult {
	if errors.Is(err, calendar.ErrInvalidInput) {
		return mcp.NewToolResultError(err.Error())
	}
	return calendarError(err)
}
