package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"nq-browser/internal/app"
	hhttp "nq-browser/internal/handler/http"
	hdataset "nq-browser/internal/handler/http/dataset"
	"nq-browser/internal/handler/http/middleware"
	"nq-browser/internal/handler/http/requestid"
	"nq-browser/internal/observability/tracing"
)

// newRouter wires the middleware chain and every route.
//
// Middleware order, outermost first: request id, request logger, access log,
// panic recovery, tracing, metrics, CORS, timeout, input limits.
func newRouter(a *app.App, logger *slog.Logger, version string) (http.Handler, error) {
	origins, err := middleware.ParseOrigins(strings.Join(a.Config.Server.CORSAllowedOrigins, ","))
	if err != nil {
		return nil, err
	}
	logger.Info("CORS enabled", slog.Any("allowed_origins", origins))

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		hhttp.RequestLogger(logger),
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		tracing.Middleware,
		hhttp.MetricsMiddleware,
		middleware.CORS(middleware.CORSConfig{AllowedOrigins: origins, Logger: logger}),
		hhttp.Timeout(a.Config.Server.RequestTimeout),
		hhttp.InputValidation(hhttp.InputLimits{}),
	)

	health := &hhttp.HealthHandler{
		DB:       a.Backend.DB,
		Datasets: a.Backend.Catalog,
		Version:  version,
	}
	if a.Backend.DB == nil {
		health.DataDir = a.Config.Backend.DataDir
	}
	if a.Backend.Breaker != nil {
		health.Breaker = a.Backend.Breaker
	}

	r.Method(http.MethodGet, "/health", health)
	r.Method(http.MethodGet, "/ready", &hhttp.ReadyHandler{DB: a.Backend.DB, Datasets: a.Backend.Catalog})
	r.Method(http.MethodGet, "/live", &hhttp.LiveHandler{})
	r.Method(http.MethodGet, "/metrics", hhttp.MetricsHandler())

	hdataset.Register(r, a.Service, a.Normalizer, a.Config.PaginationConfig(), logger)

	return r, nil
}
