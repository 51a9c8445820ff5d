package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/server"
)

const (
	toolGridRender = "grid_render"
	surfaceMCP     = "mcp"
)

func gridTools(sc *server.ServerContext) []mcpserver.ServerTool {
	gridRenderTool := mcp.NewTool(toolGridRender,
		mcp.WithDescription("Render the calendar grid (hour rows by day columns) for a date and view as JSON"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("date",
			mcp.Description("Reference date (YYYY-MM-DD). Defaults to today."),
		),
		mcp.WithString("view",
			mcp.Description("Number of visible days: '1', '3' or '7'. Defaults to the configured view."),
			mcp.Enum("1", "3", "7"),
		),
		mcp.WithString("week_start",
			mcp.Description("First day of a week view (e.g. 'sunday', 'monday'). Defaults to the configured week start."),
		),
	)

	return []mcpserver.ServerTool{
		instrumented(gridRenderTool, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGridRender(ctx, request, sc)
		}),
	}
}

func handleGridRender(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	state, err := viewStateFromArgs(request, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r := sc.Renderer()
	if ws := request.GetString("week_start", ""); ws != "" {
		day, err := grid.ParseWeekday(ws)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		r.WeekStart = day
	}

	return jsonResult(sc.RenderGrid(ctx, r, surfaceMCP, state))
}
