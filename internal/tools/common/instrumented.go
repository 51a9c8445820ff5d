package common

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/codes"

	"github.com/teemow/calgrid/internal/instrumentation"
	"github.com/teemow/calgrid/internal/logging"
	"github.com/teemow/calgrid/internal/server"
)

// InstrumentedToolHandler wraps a tool handler with a span, invocation
// metrics and a debug log line. A tool result with IsError set counts
// as a failed invocation just like a returned error. The span carries
// the tool's read-only hint.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler(myTool, sc, handler))
func InstrumentedToolHandler(
	tool mcp.Tool,
	sc *server.ServerContext,
	handler mcpserver.ToolHandlerFunc,
) mcpserver.ToolHandlerFunc {
	toolName := tool.Name
	spanAttrs := instrumentation.NewSpanAttributeBuilder().
		WithReadOnly(IsReadOnlyTool(tool)).
		Build()

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		account := GetAccountFromArgs(request.GetArguments())
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, spanAttrs...)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			span.SetStatus(codes.Error, "tool returned an error result")
		default:
			instrumentation.SetSpanSuccess(span)
		}

		sc.Metrics().RecordToolInvocation(ctx, toolName, status, duration)
		logging.WithTool(sc.Logger(), toolName).Debug("tool invoked",
			logging.Status(status),
			logging.Duration(duration),
			slog.String("account", account),
			logging.Err(err),
		)

		return result, err
	}
}

// IsReadOnlyTool reports whether the tool is annotated as read-only.
// A tool without the hint is treated as writing.
func IsReadOnlyTool(tool mcp.Tool) bool {
	hint := tool.Annotations.ReadOnlyHint
	return hint != nil && *hint
}
