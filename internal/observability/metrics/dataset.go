package metrics

import (
	"errors"
	"time"

	"nq-browser/internal/domain/entity"
)

// RecordCacheHit records a count lookup answered from the cache.
func RecordCacheHit() {
	CountCacheLookupsTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a count lookup that ran the computation.
func RecordCacheMiss() {
	CountCacheLookupsTotal.WithLabelValues("miss").Inc()
}

// RecordCacheError records a failed computation. The failure is not cached.
func RecordCacheError() {
	CountCacheLookupsTotal.WithLabelValues("error").Inc()
}

// SetCacheEntries updates the number of memoized counts.
func SetCacheEntries(n int) {
	CountCacheEntries.Set(float64(n))
}

// RecordSourceRead records the duration and outcome of a dataset source call.
// operation is "total_records" or "load_page".
func RecordSourceRead(operation string, duration time.Duration, err error) {
	SourceReadDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		SourceReadErrorsTotal.WithLabelValues(operation, ErrorKind(err)).Inc()
	}
}

// RecordNormalizationFallback records a field that kept its original value.
func RecordNormalizationFallback(strategy, field string) {
	NormalizationFallbacksTotal.WithLabelValues(strategy, field).Inc()
}

// ErrorKind classifies a dataset error into a low-cardinality label.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, entity.ErrInvalidInput):
		return "validation"
	case errors.Is(err, entity.ErrNotFound):
		return "not_found"
	case errors.Is(err, entity.ErrSourceRead):
		return "source_read"
	case errors.Is(err, entity.ErrNormalization):
		return "normalization"
	default:
		return "internal"
	}
}
