// Package observability groups the logging, metrics and tracing helpers of
// the dataset browser.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus metrics for the count cache, source reads and normalization
//   - tracing: OpenTelemetry spans for HTTP requests and page loads
//
// Example usage:
//
//	import (
//	    "nq-browser/internal/observability/logging"
//	    "nq-browser/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordCacheMiss()
//	}
package observability
