// Package app assembles the dataset catalog, service and normalizer from
// configuration. Both the API server and the CLI start from here.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"nq-browser/internal/config"
	"nq-browser/internal/infra/adapter/columnar"
	"nq-browser/internal/infra/adapter/persistence/postgres"
	"nq-browser/internal/infra/adapter/persistence/sqlite"
	"nq-browser/internal/infra/db"
	"nq-browser/internal/repository"
	"nq-browser/internal/resilience/circuitbreaker"
)

// querier is satisfied by *sql.DB and *circuitbreaker.DBCircuitBreaker.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Backend is an opened dataset store and the catalog built over it.
type Backend struct {
	Catalog *repository.Catalog

	// DB is nil for columnar backends.
	DB *sql.DB
	// Breaker is nil unless backend.circuit_breaker is set on a relational backend.
	Breaker *circuitbreaker.DBCircuitBreaker
}

// Close releases the database pool, if any.
func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	return b.DB.Close()
}

// OpenBackend opens the configured store and registers every discovered dataset.
func OpenBackend(ctx context.Context, cfg config.BackendConfig, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		b   *Backend
		err error
	)
	switch cfg.Kind {
	case config.BackendSQLite, config.BackendPostgres:
		b, err = openRelational(ctx, cfg)
	case config.BackendParquetMaterialized, config.BackendParquetStreaming:
		b, err = openColumnar(cfg)
	default:
		err = fmt.Errorf("unknown backend kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}

	if b.Catalog.Len() == 0 {
		logger.Warn("no datasets discovered",
			slog.String("backend", cfg.Kind),
			slog.String("table_prefix", cfg.TablePrefix))
	}
	logger.Info("dataset catalog ready",
		slog.String("backend", cfg.Kind),
		slog.Int("datasets", b.Catalog.Len()),
		slog.String("default", b.Catalog.Default()),
		slog.Bool("circuit_breaker", b.Breaker != nil))
	return b, nil
}

func openRelational(ctx context.Context, cfg config.BackendConfig) (*Backend, error) {
	driver, err := db.DriverFor(cfg.Kind)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.Open(ctx, driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	b, err := relationalCatalog(ctx, sqlDB, cfg)
	if err != nil {
		return nil, errors.Join(err, sqlDB.Close())
	}
	return b, nil
}

// relationalCatalog discovers the dataset tables of an open pool.
func relationalCatalog(ctx context.Context, sqlDB *sql.DB, cfg config.BackendConfig) (*Backend, error) {
	b := &Backend{Catalog: repository.NewCatalog(), DB: sqlDB}

	var q querier = sqlDB
	if cfg.CircuitBreaker {
		b.Breaker = circuitbreaker.NewDBCircuitBreaker(sqlDB, cfg.Kind)
		q = b.Breaker
	}

	var (
		tables []string
		src    repository.DatasetSource
		err    error
	)
	switch cfg.Kind {
	case config.BackendSQLite:
		tables, err = sqlite.Discover(ctx, q, cfg.TablePrefix)
		if err == nil {
			src = sqlite.NewDatasetSource(q, tables)
		}
	case config.BackendPostgres:
		tables, err = postgres.Discover(ctx, q, cfg.Schema, cfg.TablePrefix)
		if err == nil {
			src = postgres.NewDatasetSource(q, cfg.Schema, tables)
		}
	default:
		err = fmt.Errorf("backend %q is not relational", cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("discover %s datasets: %w", cfg.Kind, err)
	}

	for _, table := range tables {
		if err := b.Catalog.Register(table, src); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func openColumnar(cfg config.BackendConfig) (*Backend, error) {
	files, err := columnar.Discover(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("discover parquet datasets: %w", err)
	}

	var src repository.DatasetSource
	if cfg.Kind == config.BackendParquetStreaming {
		src = columnar.NewStreaming(files)
	} else {
		src = columnar.NewMaterialized(files)
	}

	b := &Backend{Catalog: repository.NewCatalog()}
	for _, f := range files {
		if err := b.Catalog.Register(f.ID, src); err != nil {
			return nil, err
		}
	}
	return b, nil
}
