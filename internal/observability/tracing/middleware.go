package tracing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"nq-browser/internal/handler/http/responsewriter"
)

// TraceIDHeader carries the trace id of the server span back to the client.
const TraceIDHeader = "X-Trace-Id"

// Middleware starts a server span for each request.
//
// Incoming W3C trace context is honored. The span is named after the chi route
// pattern once routing has happened ("GET /data"), so query strings and unknown
// paths do not create new span names. Requests answered with a 5xx status mark
// the span as failed.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		ctx, span := tracer().Start(ctx, r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
		)
		defer span.End()

		w.Header().Set(TraceIDHeader, span.SpanContext().TraceID().String())

		rw := responsewriter.Wrap(w)
		r = r.WithContext(ctx)
		next.ServeHTTP(rw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		span.SetName(r.Method + " " + route)

		attrs := []attribute.KeyValue{
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", rw.StatusCode()),
			attribute.Int("http.response_size", rw.BytesWritten()),
		}
		if id := r.URL.Query().Get("table_name"); id != "" {
			attrs = append(attrs, attribute.String("dataset.id", id))
		}
		span.SetAttributes(attrs...)

		if rw.StatusCode() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rw.StatusCode()))
		}
	})
}
