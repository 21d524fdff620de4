package app

import (
	"context"
	"log/slog"
	"time"

	"nq-browser/internal/config"
	"nq-browser/internal/usecase/dataset"
	"nq-browser/internal/usecase/normalize"
)

// App bundles what the API and the CLI need to serve pages.
type App struct {
	Config     *config.Config
	Backend    *Backend
	Service    *dataset.Service
	Normalizer normalize.Normalizer
}

// New opens the backend and builds the dataset service and normalizer.
// When cache.warm_on_start is set, every dataset count is computed before
// New returns; a failed warm-up is logged and does not fail startup.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	norm, err := normalize.New(cfg.Normalizer.Strategy, cfg.NormalizeOptions())
	if err != nil {
		return nil, err
	}

	backend, err := OpenBackend(ctx, cfg.Backend, logger)
	if err != nil {
		return nil, err
	}

	svc := dataset.NewService(backend.Catalog, cfg.PaginationConfig())

	if cfg.Cache.WarmOnStart {
		start := time.Now()
		if err := svc.WarmCounts(ctx, cfg.Cache.WarmConcurrency); err != nil {
			logger.Warn("count warm-up failed", slog.Any("error", err))
		} else {
			logger.Info("count warm-up finished",
				slog.Int("datasets", backend.Catalog.Len()),
				slog.Duration("duration", time.Since(start)))
		}
	}

	return &App{
		Config:     cfg,
		Backend:    backend,
		Service:    svc,
		Normalizer: norm,
	}, nil
}

// Close releases the backend.
func (a *App) Close() error {
	return a.Backend.Close()
}
