// Package metrics provides centralized Prometheus metrics for dataset access.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Count cache metrics
var (
	// CountCacheLookupsTotal counts record-count lookups by result (hit, miss, error)
	CountCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_count_cache_lookups_total",
			Help: "Total number of record-count cache lookups",
		},
		[]string{"result"},
	)

	// CountCacheEntries tracks how many datasets have a memoized count
	CountCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_count_cache_entries",
			Help: "Number of datasets with a cached record count",
		},
	)
)

// Source metrics track reads against the backing stores
var (
	// SourceReadDuration measures dataset source call duration in seconds
	SourceReadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataset_source_read_duration_seconds",
			Help:    "Dataset source read duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation"},
	)

	// SourceReadErrorsTotal counts failed dataset source calls
	SourceReadErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_source_read_errors_total",
			Help: "Total number of failed dataset source reads",
		},
		[]string{"operation", "kind"},
	)
)

// Normalization metrics
var (
	// NormalizationFallbacksTotal counts fields returned unmodified after a repair failure
	NormalizationFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_normalization_fallbacks_total",
			Help: "Total number of fields returned unmodified after a normalization error",
		},
		[]string{"strategy", "field"},
	)
)
