package respond

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nq-browser/internal/domain/entity"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		data         any
		expectedBody string
	}{
		{"map", http.StatusOK, map[string]string{"message": "success"}, `{"message":"success"}`},
		{"struct", http.StatusOK, struct {
			Datasets []string `json:"datasets"`
		}{Datasets: []string{"natural_dev"}}, `{"datasets":["natural_dev"]}`},
		{"nil body", http.StatusNoContent, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedBody, strings.TrimSpace(w.Body.String()))
		})
	}
}

func TestJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, make(chan int))

	assert.Equal(t, http.StatusOK, w.Code, "status is sent before encoding")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &entity.ValidationError{Field: "page_size", Message: "must be positive"}, http.StatusBadRequest},
		{"not found", &entity.NotFoundError{DatasetID: "ghost", Op: "load_page"}, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("resolve: %w", &entity.NotFoundError{DatasetID: "ghost"}), http.StatusNotFound},
		{"source read", &entity.SourceReadError{DatasetID: "d", Op: "load_page", Err: errors.New("io")}, http.StatusInternalServerError},
		{"deadline", fmt.Errorf("count: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSafeError_Validation(t *testing.T) {
	w := httptest.NewRecorder()

	SafeError(w, nil, &entity.ValidationError{
		Field:     "page_size",
		Message:   "page_size must be a positive integer",
		DatasetID: "natural_dev",
		Op:        "get_page",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "page_size must be a positive integer", body.Error)
	assert.Equal(t, "page_size", body.Field)
}

func TestSafeError_NotFound(t *testing.T) {
	w := httptest.NewRecorder()

	SafeError(w, nil, &entity.NotFoundError{DatasetID: "ghost", Op: "resolve_page"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeBody(t, w).Error, `"ghost"`)
}

func TestSafeError_SourceReadIsMasked(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	w := httptest.NewRecorder()

	err := &entity.SourceReadError{
		DatasetID: "natural_dev",
		Op:        "total_records",
		Err:       errors.New("dial postgres://app:hunter2@db:5432/nq: connection refused"),
	}
	SafeError(w, logger, err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", decodeBody(t, w).Error)
	assert.NotContains(t, w.Body.String(), "postgres")

	assert.Contains(t, logs.String(), `"kind":"source_read"`)
	assert.Contains(t, logs.String(), "app:****@db")
	assert.NotContains(t, logs.String(), "hunter2")
}

func TestSafeError_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, nil, nil)
	assert.Equal(t, 0, w.Body.Len())
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, errors.New("page must be an integer"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `{"error":"page must be an integer"}`, strings.TrimSpace(w.Body.String()))
}
