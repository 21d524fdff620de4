// Package dataset provides the page loading use cases: request validation,
// memoized record counts and offset/limit reads through the dataset catalog.
package dataset

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"nq-browser/internal/common/pagination"
	"nq-browser/internal/domain/entity"
	"nq-browser/internal/observability/logging"
	"nq-browser/internal/observability/metrics"
	"nq-browser/internal/observability/tracing"
	"nq-browser/internal/repository"
)

// Service loads pages of records from the datasets of a catalog.
// Records are returned as stored; normalization is the caller's concern.
type Service struct {
	Catalog *repository.Catalog
	Cache   *CountCache
	Config  pagination.Config
}

// NewService returns a service with an empty count cache.
func NewService(catalog *repository.Catalog, cfg pagination.Config) *Service {
	return &Service{
		Catalog: catalog,
		Cache:   NewCountCache(),
		Config:  cfg,
	}
}

// Listing describes the datasets available for browsing.
type Listing struct {
	IDs     []string
	Default string
}

// Datasets returns the dataset ids in discovery order and the default id.
func (s *Service) Datasets() Listing {
	return Listing{IDs: s.Catalog.IDs(), Default: s.Catalog.Default()}
}

// Count returns the record count of a dataset, computing it at most once per process.
func (s *Service) Count(ctx context.Context, id string) (int64, error) {
	if _, ok := s.Catalog.Lookup(id); !ok {
		return 0, &entity.NotFoundError{DatasetID: id, Op: "total_records"}
	}
	return s.Cache.GetOrCompute(ctx, id, func(ctx context.Context) (int64, error) {
		start := time.Now()
		n, err := s.Catalog.TotalRecords(ctx, id)
		metrics.RecordSourceRead("total_records", time.Since(start), err)
		if err == nil {
			pagination.UpdateTotalCount(id, n)
		}
		return n, err
	})
}

// GetPage returns page number page of dataset id, pageSize records per page.
//
// Errors:
//   - *entity.ValidationError when page < 1, pageSize <= 0 or pageSize is above the configured maximum
//   - *entity.NotFoundError when id is not in the catalog
//   - *entity.SourceReadError when the backing store fails
func (s *Service) GetPage(ctx context.Context, id string, page, pageSize int) (result *entity.Page, err error) {
	ctx, span := tracing.StartSpan(ctx, "dataset.GetPage",
		attribute.String("dataset.id", id),
		attribute.Int("page", page),
		attribute.Int("page_size", pageSize),
	)
	start := time.Now()
	defer func() {
		pagination.RecordDuration("service", time.Since(start).Seconds())
		tracing.EndSpan(span, err)
	}()

	params := pagination.Params{DatasetID: id, Page: page, PageSize: pageSize}
	if err := params.Validate(s.Config); err != nil {
		return nil, err
	}

	total, err := s.Count(ctx, id)
	if err != nil {
		return nil, err
	}

	offset := pagination.CalculateOffset(page, pageSize)
	records := []entity.Record{}
	if offset < total {
		loadStart := time.Now()
		records, err = s.Catalog.LoadPage(ctx, id, int(offset), pageSize)
		metrics.RecordSourceRead("load_page", time.Since(loadStart), err)
		if err != nil {
			return nil, err
		}
	}

	span.SetAttributes(
		attribute.Int64("dataset.total_records", total),
		attribute.Int("records.returned", len(records)),
	)

	return &entity.Page{
		DatasetID:    id,
		Records:      records,
		TotalRecords: total,
		TotalPages:   pagination.CalculateTotalPages(total, pageSize),
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

// ResolvePage is GetPage with dataset resolution: an empty id selects the default
// dataset, and an unknown id selects it too when fallback is enabled.
func (s *Service) ResolvePage(ctx context.Context, id string, page, pageSize int) (*entity.Page, error) {
	resolved, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.GetPage(ctx, resolved, page, pageSize)
}

// Resolve maps a requested dataset id to a catalog id.
func (s *Service) Resolve(ctx context.Context, id string) (string, error) {
	def := s.Catalog.Default()
	if id == "" {
		if def == "" {
			return "", &entity.NotFoundError{DatasetID: id, Op: "resolve_page"}
		}
		return def, nil
	}
	if _, ok := s.Catalog.Lookup(id); ok {
		return id, nil
	}
	if s.Config.FallbackDefault && def != "" {
		logging.FromContext(ctx).Warn("unknown dataset, serving default",
			"dataset_id", id,
			"default", def)
		return def, nil
	}
	return "", &entity.NotFoundError{DatasetID: id, Op: "resolve_page"}
}

// WarmCounts computes the count of every dataset with at most concurrency
// computations in flight. It returns the first error encountered.
func (s *Service) WarmCounts(ctx context.Context, concurrency int) error {
	if concurrency <= 0 {
		concurrency = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, id := range s.Catalog.IDs() {
		g.Go(func() error {
			if _, err := s.Count(ctx, id); err != nil {
				return fmt.Errorf("warm count %q: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}
