// Package tracing provides OpenTelemetry tracing integration.
//
// Middleware starts a server span per HTTP request and returns its trace id
// in the X-Trace-Id header. StartSpan and EndSpan wrap internal operations
// such as page loads.
//
// Example usage:
//
//	shutdown := tracing.InitProvider()
//	defer func() { _ = shutdown(context.Background()) }()
//
//	ctx, span := tracing.StartSpan(ctx, "dataset.GetPage",
//	    attribute.String("dataset.id", id))
//	defer func() { tracing.EndSpan(span, err) }()
package tracing
