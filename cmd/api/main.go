package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nq-browser/internal/app"
	"nq-browser/internal/config"
	"nq-browser/internal/observability/logging"
	"nq-browser/internal/observability/tracing"
	envconfig "nq-browser/pkg/config"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load(envconfig.GetEnvString("CONFIG_FILE", ""))
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))
	slog.SetDefault(logger)

	if cfg.Tracing.Enabled {
		shutdown := tracing.InitProvider()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Error("failed to shut down tracer provider", slog.Any("error", err))
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize datasets", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close backend", slog.Any("error", err))
		}
	}()

	version := getVersion()
	handler, err := newRouter(a, logger, version)
	if err != nil {
		logger.Error("failed to build router", slog.Any("error", err))
		os.Exit(1)
	}

	runServer(ctx, logger, cfg.Server, handler, version)
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	return envconfig.GetEnvString("VERSION", "dev")
}

// runServer starts the HTTP server and blocks until SIGINT or SIGTERM, then
// drains in-flight requests for at most ShutdownTimeout.
func runServer(ctx context.Context, logger *slog.Logger, cfg config.ServerConfig, handler http.Handler, version string) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
		return
	}
	logger.Info("server stopped")
}
