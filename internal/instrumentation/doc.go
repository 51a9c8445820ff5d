// Package instrumentation provides OpenTelemetry metrics and tracing for
// calgrid.
//
// # Metrics
//
// Web server:
//   - http_requests_total: HTTP requests by method, route and status
//   - http_request_duration_seconds: HTTP request durations
//   - active_sessions: signed-in web sessions
//   - oauth_auth_total: Google sign-in attempts by result
//
// Google API:
//   - google_api_operations_total: calls by service, operation and status
//   - google_api_operation_duration_seconds: call durations
//
// Grid and theme:
//   - grid_renders_total: rendered grids by surface and view
//   - theme_toggles_total: dark mode toggles by resulting mode
//
// MCP tools:
//   - mcp_tool_invocations_total and mcp_tool_duration_seconds
//
// # Tracing
//
// Spans are created for HTTP requests, MCP tool invocations (tool.<name>)
// and Google API calls (google.<service>.<operation>).
//
// # Configuration
//
// DefaultConfig reads:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: calgrid)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordGridRender(ctx, "web", 7)
package instrumentation
