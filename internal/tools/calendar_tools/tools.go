package calendar_tools

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calgrid/internal/calendar"
	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/server"
	"github.com/teemow/calgrid/internal/tools/common"
)

const dateLayout = "2006-01-02"

// Tools returns the calendar grid tools. The event write tools are left
// out when readOnly is set.
func Tools(sc *server.ServerContext, readOnly bool) []mcpserver.ServerTool {
	tools := append(gridTools(sc), themeTools(sc)...)
	tools = append(tools, eventReadTools(sc)...)
	if !readOnly {
		tools = append(tools, eventWriteTools(sc)...)
	}
	return tools
}

// RegisterCalendarTools registers all calendar grid tools with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if sc == nil {
		return fmt.Errorf("server context is required")
	}
	s.AddTools(Tools(sc, readOnly)...)
	return nil
}

// instrumented builds a ServerTool whose handler is wrapped with metrics
// and tracing.
func instrumented(tool mcp.Tool, sc *server.ServerContext, handler mcpserver.ToolHandlerFunc) mcpserver.ServerTool {
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: common.InstrumentedToolHandler(tool, sc, handler),
	}
}

// getEventService retrieves or creates the event service for the account
// named in the request.
func getEventService(request mcp.CallToolRequest, sc *server.ServerContext) (server.EventService, error) {
	account := common.GetAccountFromArgs(request.GetArguments())
	return sc.EventServiceForAccount(account)
}

// viewStateFromArgs reads the date and view arguments. Missing values
// mean today and the configured default view; malformed values are errors.
func viewStateFromArgs(request mcp.CallToolRequest, sc *server.ServerContext) (grid.ViewState, error) {
	now := sc.Now()
	ref := now
	view := sc.DefaultView()

	if v := request.GetString("date", ""); v != "" {
		d, err := time.ParseInLocation(dateLayout, v, now.Location())
		if err != nil {
			return grid.ViewState{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", v)
		}
		ref = d
	}
	if v := request.GetString("view", ""); v != "" {
		pv, err := grid.ParseView(v)
		if err != nil {
			return grid.ViewState{}, err
		}
		view = pv
	}
	return grid.NewViewState(ref, view), nil
}

// parseTime accepts RFC3339 timestamps and, for all-day events, plain
// dates in the local zone of the server.
func parseTime(name, value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid %s %q: want RFC3339 or YYYY-MM-DD", name, value)
}

func splitAttendees(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// jsonResult renders v as indented JSON text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// calendarError turns a failed calendar call into a tool error carrying
// the user-facing alert.
func calendarError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s (%v)", calendar.Alert(err), err))
}
