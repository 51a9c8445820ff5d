package common

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/teemow/calgrid/internal/config"
	"github.com/teemow/calgrid/internal/google"
	"github.com/teemow/calgrid/internal/instrumentation"
	"github.com/teemow/calgrid/internal/server"
)

func newServerContext(t *testing.T, opts ...server.Option) *server.ServerContext {
	t.Helper()
	cfg := config.Default()
	opts = append([]server.Option{server.WithTokenProvider(google.NewStaticTokenProvider(nil))}, opts...)
	sc, err := server.NewServerContext(context.Background(), &cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newTestMetrics(t *testing.T) (*instrumentation.Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := instrumentation.NewMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

// invocations returns mcp_tool_invocations_total keyed by "tool status".
func invocations(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "mcp_tool_invocations_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				tool, _ := dp.Attributes.Value(attribute.Key("tool"))
				status, _ := dp.Attributes.Value(attribute.Key("status"))
				counts[tool.AsString()+" "+status.AsString()] += dp.Value
			}
		}
	}
	return counts
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	ctx := context.Background()
	sc := newServerContext(t)

	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	result, err := InstrumentedToolHandler(mcp.NewTool("test_tool"), sc, handler)(ctx, mcp.CallToolRequest{})

	require.NoError(t, err)
	assert.True(t, called)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
}

func TestInstrumentedToolHandler_Error(t *testing.T) {
	sc := newServerContext(t)

	expectedErr := errors.New("test error")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}

	_, err := InstrumentedToolHandler(mcp.NewTool("test_tool"), sc, handler)(context.Background(), mcp.CallToolRequest{})
	assert.ErrorIs(t, err, expectedErr)
}

func TestInstrumentedToolHandler_RecordsMetrics(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	sc := newServerContext(t, server.WithMetrics(metrics))

	ok := InstrumentedToolHandler(mcp.NewTool("grid_render"), sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("{}"), nil
	})
	failing := InstrumentedToolHandler(mcp.NewTool("theme_css"), sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("invalid color"), nil
	})

	ctx := context.Background()
	for range 2 {
		_, err := ok(ctx, mcp.CallToolRequest{})
		require.NoError(t, err)
	}
	result, err := failing(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	require.True(t, result.IsError)

	counts := invocations(t, reader)
	assert.Equal(t, int64(2), counts["grid_render success"])
	assert.Equal(t, int64(1), counts["theme_css error"])
	assert.Zero(t, counts["grid_render error"])
}

func TestInstrumentedToolHandler_Span(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	sc := newServerContext(t)
	handler := InstrumentedToolHandler(mcp.NewTool("calendar_delete_event"), sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("Could not delete the event from Google Calendar."), nil
	})
	_, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "tool.calendar_delete_event", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String(instrumentation.SpanAttrTool, "calendar_delete_event"))
	assert.Contains(t, spans[0].Attributes(), attribute.Bool(instrumentation.SpanAttrReadOnly, false))
}

func TestInstrumentedToolHandler_ReadOnlySpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	tool := mcp.NewTool("grid_render", mcp.WithReadOnlyHintAnnotation(true))
	handler := InstrumentedToolHandler(tool, newServerContext(t), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("{}"), nil
	})
	_, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Bool(instrumentation.SpanAttrReadOnly, true))
}

func TestIsReadOnlyTool(t *testing.T) {
	assert.True(t, IsReadOnlyTool(mcp.NewTool("a", mcp.WithReadOnlyHintAnnotation(true))))
	assert.False(t, IsReadOnlyTool(mcp.NewTool("b", mcp.WithReadOnlyHintAnnotation(false))))
	assert.False(t, IsReadOnlyTool(mcp.Tool{Name: "c"}))
}
