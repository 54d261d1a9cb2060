package telemetry

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TraceIDHeader is the response header carrying the trace id
	TraceIDHeader = "X-Trace-ID"

	// requestIDKey matches the gin key set by middleware.RequestID
	requestIDKey = "request_id"
)

// MiddlewareOption customizes TracingMiddleware
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	skip map[string]bool
}

// WithSkipPaths disables tracing for health endpoints such as /health
func WithSkipPaths(paths ...string) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		for _, p := range paths {
			cfg.skip[p] = true
		}
	}
}

// TracingMiddleware starts one server span per request, named after the route template
func TracingMiddleware(opts ...MiddlewareOption) gin.HandlerFunc {
	cfg := &middlewareConfig{skip: map[string]bool{}}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		if cfg.skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		carrier := propagation.HeaderCarrier(c.Request.Header)
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), carrier)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx, span := StartSpan(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethod(c.Request.Method),
				semconv.HTTPRoute(route),
				semconv.UserAgentOriginal(c.Request.UserAgent()),
				attribute.String("http.client_ip", c.ClientIP()),
			),
		)
		defer span.End()

		if rid := c.GetString(requestIDKey); rid != "" {
			span.SetAttributes(attribute.String("http.request_id", rid))
		}
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Header(TraceIDHeader, sc.TraceID().String())
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(semconv.HTTPStatusCode(status))
		for _, e := range c.Errors {
			span.RecordError(e.Err)
		}
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, "status "+strconv.Itoa(status))
		}
	}
}
