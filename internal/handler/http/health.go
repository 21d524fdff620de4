// Package http provides the HTTP middleware, health endpoints and metrics of
// the dataset browser. Dataset routes live in the dataset subpackage.
package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/sony/gobreaker"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // RFC 3339
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string                 `json:"status"` // "healthy", "degraded" or "unhealthy"
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Breaker exposes the state of a circuit breaker guarding the store.
type Breaker interface {
	Name() string
	State() gobreaker.State
}

// DatasetCounter reports how many datasets the catalog serves.
type DatasetCounter interface {
	Len() int
}

// HealthHandler reports on the backing store and the dataset catalog.
// DB is nil for columnar backends, in which case DataDir is checked instead.
type HealthHandler struct {
	DB       *sql.DB
	DataDir  string
	Breaker  Breaker
	Datasets DatasetCounter
	Version  string
}

// ServeHTTP returns 200 when every check is healthy or degraded and 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	switch {
	case h.DB != nil:
		checks["database"] = checkDatabase(ctx, h.DB)
	case h.DataDir != "":
		checks["data_dir"] = checkDataDir(h.DataDir)
	default:
		checks["store"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
	}
	if h.Breaker != nil {
		checks["circuit_breaker"] = checkBreaker(h.Breaker)
	}
	checks["catalog"] = checkCatalog(h.Datasets)

	status := "healthy"
	statusCode := http.StatusOK
	for _, c := range checks {
		if c.Status == "unhealthy" {
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	writeHealth(w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func writeHealth(w http.ResponseWriter, code int, resp HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

// checkDatabase pings the database and reports connection pool statistics.
func checkDatabase(ctx context.Context, db *sql.DB) CheckStatus {
	if err := db.PingContext(ctx); err != nil {
		return CheckStatus{Status: "unhealthy", Message: "ping failed"}
	}

	stats := db.Stats()
	details := map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}

	if stats.MaxOpenConnections == 0 {
		return CheckStatus{
			Status:  "degraded",
			Message: "connection pool max connections not configured",
			Details: details,
		}
	}

	utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
	details["utilization_percent"] = utilization
	if utilization >= 80.0 {
		return CheckStatus{
			Status:  "degraded",
			Message: "connection pool utilization above 80%",
			Details: details,
		}
	}

	return CheckStatus{Status: "healthy", Details: details}
}

func checkDataDir(dir string) CheckStatus {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return CheckStatus{Status: "unhealthy", Message: "data directory not readable"}
	}
	return CheckStatus{Status: "healthy"}
}

// checkBreaker reports an open breaker as unhealthy and a half-open one as degraded.
func checkBreaker(b Breaker) CheckStatus {
	state := b.State()
	details := map[string]interface{}{"name": b.Name(), "state": state.String()}
	switch state {
	case gobreaker.StateOpen:
		return CheckStatus{Status: "unhealthy", Message: "circuit open", Details: details}
	case gobreaker.StateHalfOpen:
		return CheckStatus{Status: "degraded", Message: "circuit half-open", Details: details}
	default:
		return CheckStatus{Status: "healthy", Details: details}
	}
}

func checkCatalog(datasets DatasetCounter) CheckStatus {
	if datasets == nil {
		return CheckStatus{Status: "unhealthy", Message: "not configured"}
	}
	n := datasets.Len()
	if n == 0 {
		return CheckStatus{Status: "unhealthy", Message: "no datasets discovered"}
	}
	return CheckStatus{Status: "healthy", Details: map[string]interface{}{"datasets": n}}
}

// ReadyHandler handles readiness probes. The service is ready once at least
// one dataset is registered and, for relational backends, the database answers.
type ReadyHandler struct {
	DB       *sql.DB
	Datasets DatasetCounter
}

// ServeHTTP returns 200 "ready" or 503 with a short reason.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.Datasets == nil || h.Datasets.Len() == 0 {
		http.Error(w, "no datasets available", http.StatusServiceUnavailable)
		return
	}
	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			http.Error(w, "database not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler handles liveness probes. It always returns 200 while the process can respond.
type LiveHandler struct{}

// ServeHTTP writes "alive".
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
