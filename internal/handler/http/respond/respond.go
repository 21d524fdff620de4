// Package respond provides utilities for sending HTTP responses in JSON format.
// Errors are mapped to status codes from their domain type, and messages that
// may carry driver or file system details are replaced before leaving the process.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"nq-browser/internal/domain/entity"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// headers are already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Error writes err's message verbatim. Use it only for messages built by the handler itself.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, ErrorBody{Error: err.Error()})
}

// StatusFor maps a domain error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// SafeError writes err with the status StatusFor chooses.
//
// Validation and not-found errors are returned as they are: their messages
// only carry the request's own parameters. Anything else is logged with
// secrets masked and answered with a generic message.
func SafeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if err == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	code := StatusFor(err)

	var ve *entity.ValidationError
	if errors.As(err, &ve) {
		JSON(w, code, ErrorBody{Error: ve.Message, Field: ve.Field})
		return
	}
	if code == http.StatusNotFound {
		JSON(w, code, ErrorBody{Error: err.Error()})
		return
	}

	logger.Error("request failed",
		slog.Int("code", code),
		slog.String("kind", kind(err)),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, ErrorBody{Error: http.StatusText(code)})
}

func kind(err error) string {
	switch {
	case errors.Is(err, entity.ErrSourceRead):
		return "source_read"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}
