// Package resilience groups the fault tolerance helpers used around dataset stores.
//
// The package supports:
//   - Circuit breakers around relational dataset reads (circuitbreaker)
//   - Retry with exponential backoff and jitter for the startup connection check (retry)
//
// Dataset reads themselves are never retried: a failed read surfaces as a
// SourceReadError to the caller.
//
// Usage Example:
//
//	q := circuitbreaker.NewDBCircuitBreaker(db, "sqlite")
//	src := sqlite.NewDatasetSource(q, tables)
//
//	err := retry.WithBackoff(ctx, retry.ConnectConfig(), func() error {
//	    return db.PingContext(ctx)
//	})
package resilience
