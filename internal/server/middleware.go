package server

import (
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/teemow/calgrid/internal/instrumentation"
	"github.com/teemow/calgrid/internal/logging"
)

// unmatchedRoute labels requests no pattern matched.
const unmatchedRoute = "unmatched"

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// instrument records a server span and the request metrics for every
// request. Metrics are labeled with the matched route pattern.
func (s *WebServer) instrument(next http.Handler) http.Handler {
	metrics := s.sc.Metrics()
	logger := s.sc.Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := instrumentation.StartServerSpan(r.Context(), "HTTP "+r.Method,
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w}
		r = r.WithContext(ctx)
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		duration := time.Since(start)

		span.SetName(route)
		span.SetAttributes(attribute.String("http.route", route), attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		} else {
			instrumentation.SetSpanSuccess(span)
		}

		metrics.RecordHTTPRequest(ctx, r.Method, route, status, duration)
		logger.Debug("http request",
			"method", r.Method,
			"route", route,
			logging.Status(strconv.Itoa(status)),
			logging.Duration(duration))
	})
}
