package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calgrid/internal/server"
	"github.com/teemow/calgrid/internal/theme"
)

const (
	toolThemeDerive = "theme_derive"
	toolThemeCSS    = "theme_css"
)

func themeTools(sc *server.ServerContext) []mcpserver.ServerTool {
	colorArg := mcp.WithString("color",
		mcp.Description("Source color as hex (e.g. '#2c83bd'). Defaults to the configured source color."),
	)

	deriveTool := mcp.NewTool(toolThemeDerive,
		mcp.WithDescription("Derive the light and dark color role palettes (HSL) from a source color"),
		mcp.WithReadOnlyHintAnnotation(true),
		colorArg,
	)
	cssTool := mcp.NewTool(toolThemeCSS,
		mcp.WithDescription("Render the derived theme as CSS custom properties (--md-sys-color-*)"),
		mcp.WithReadOnlyHintAnnotation(true),
		colorArg,
	)

	return []mcpserver.ServerTool{
		instrumented(deriveTool, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleThemeDerive(ctx, request, sc)
		}),
		instrumented(cssTool, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleThemeCSS(ctx, request, sc)
		}),
	}
}

// themeFromArgs derives the theme for the color argument. Unlike the
// permissive HexToHSL, a malformed color is reported to the caller.
func themeFromArgs(request mcp.CallToolRequest, sc *server.ServerContext) (theme.Theme, error) {
	color := request.GetString("color", "")
	if color == "" {
		return sc.Theme(), nil
	}
	if _, err := theme.ParseHex(color); err != nil {
		return theme.Theme{}, err
	}
	return theme.Derive(color), nil
}

func handleThemeDerive(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	th, err := themeFromArgs(request, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(th)
}

func handleThemeCSS(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	th, err := themeFromArgs(request, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(theme.Stylesheet(th)), nil
}
