package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nq-browser/internal/handler/http/requestid"
	"nq-browser/internal/observability/logging"
)

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		status        int
		expectedLevel string
	}{
		{"page request", "/data?table_name=natural_dev&page=2", http.StatusOK, "INFO"},
		{"validation failure", "/data?page_size=-5", http.StatusBadRequest, "INFO"},
		{"source failure", "/data?table_name=natural_dev", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := requestid.Middleware(Logging(jsonLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("response body"))
			})))

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Header.Set("User-Agent", "test-agent/1.0")
			req.Header.Set(requestid.RequestIDHeader, "req-1")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tt.expectedLevel, entry["level"])
			assert.Equal(t, "req-1", entry["request_id"])
			assert.Equal(t, "/data", entry["path"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, float64(len("response body")), entry["bytes"])
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := requestid.Middleware(RequestLogger(jsonLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Warn("unknown dataset, serving default")
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/data?table_name=ghost", nil)
	req.Header.Set(requestid.RequestIDHeader, "req-ghost")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-ghost", entry["request_id"])
}

func TestRecover(t *testing.T) {
	tests := []struct {
		name       string
		panicValue interface{}
	}{
		{"string", "something went wrong"},
		{"error", fmt.Errorf("nil page")},
		{"number", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := Recover(jsonLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				panic(tt.panicValue)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/data", nil))

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
			assert.Contains(t, buf.String(), "panic recovered")
		})
	}
}

func TestRecover_NoPanic(t *testing.T) {
	handler := Recover(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/data", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRecover_AbortHandler(t *testing.T) {
	handler := Recover(slog.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/data", nil))
	})
}
