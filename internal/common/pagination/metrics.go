package pagination

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts the total number of page requests.
	// Labels: status (HTTP status code), page_range (page bucket: 1-10, 11-50, etc.)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_page_requests_total",
			Help: "Total number of dataset page requests",
		},
		[]string{"status", "page_range"},
	)

	// DurationSeconds tracks request duration distribution.
	// Labels: operation (handler, service)
	DurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataset_page_duration_seconds",
			Help:    "Dataset page request duration distribution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
		},
		[]string{"operation"},
	)

	// TotalCount tracks the record count of each dataset as last computed.
	TotalCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_records_total",
			Help: "Number of records per dataset",
		},
		[]string{"dataset"},
	)

	// ErrorsTotal counts page request errors by type.
	// Labels: type (validation, not_found, source_read, internal)
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_page_errors_total",
			Help: "Total number of dataset page errors",
		},
		[]string{"type"},
	)
)

// RecordRequest records a page request metric.
func RecordRequest(statusCode int, page int) {
	RequestsTotal.WithLabelValues(
		fmt.Sprintf("%d", statusCode),
		getPageRangeBucket(page),
	).Inc()
}

// RecordDuration records operation duration in seconds.
func RecordDuration(operation string, duration float64) {
	DurationSeconds.WithLabelValues(operation).Observe(duration)
}

// UpdateTotalCount updates the record count gauge of a dataset.
func UpdateTotalCount(datasetID string, count int64) {
	TotalCount.WithLabelValues(datasetID).Set(float64(count))
}

// RecordError records an error metric.
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// getPageRangeBucket returns the page range bucket for a given page number.
func getPageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
