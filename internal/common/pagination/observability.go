package pagination

import (
	"log/slog"
	"time"
)

// LogRequest logs a page request with structured fields.
func LogRequest(logger *slog.Logger, requestID string, params Params) {
	logger.Info("Paginated request",
		"request_id", requestID,
		"dataset_id", params.DatasetID,
		"page", params.Page,
		"page_size", params.PageSize)
}

// LogResponse logs a page response with duration and status.
func LogResponse(logger *slog.Logger, requestID string, params Params, returnedCount int, duration time.Duration, statusCode int) {
	logger.Info("Paginated response",
		"request_id", requestID,
		"dataset_id", params.DatasetID,
		"page", params.Page,
		"page_size", params.PageSize,
		"returned_count", returnedCount,
		"duration_ms", duration.Milliseconds(),
		"status", statusCode)
}

// LogError logs a page request error with structured fields.
func LogError(logger *slog.Logger, requestID string, params Params, err error, errorType string) {
	logger.Error("Pagination error",
		"request_id", requestID,
		"dataset_id", params.DatasetID,
		"page", params.Page,
		"page_size", params.PageSize,
		"error", err.Error(),
		"error_type", errorType)
}
