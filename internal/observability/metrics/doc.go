// Package metrics provides Prometheus metrics for dataset access.
//
// This package centralizes the non-HTTP metrics of the service:
//   - Record-count cache lookups (hit, miss, error) and size
//   - Dataset source read duration and failures
//   - Normalization fallbacks per strategy and field
//
// All metrics are registered with the Prometheus default registry and
// exposed via the /metrics endpoint.
//
// Example usage:
//
//	start := time.Now()
//	recs, err := src.LoadPage(ctx, id, offset, limit)
//	metrics.RecordSourceRead("load_page", time.Since(start), err)
package metrics
