package repository

import (
	"context"
	"fmt"

	"nq-browser/internal/domain/entity"
)

// DatasetSource provides offset/limit access to question/answer datasets.
// Implementations must be safe for concurrent use.
type DatasetSource interface {
	// TotalRecords returns the number of records in the dataset.
	// Unknown ids yield *entity.NotFoundError, read failures *entity.SourceReadError.
	TotalRecords(ctx context.Context, datasetID string) (int64, error)

	// LoadPage returns at most limit records starting at offset, in stable order.
	// An offset at or beyond the end of the dataset returns an empty slice.
	LoadPage(ctx context.Context, datasetID string, offset, limit int) ([]entity.Record, error)
}

// Catalog maps discovered dataset ids to the source that serves them.
// It is immutable after construction and dispatches DatasetSource calls by id.
type Catalog struct {
	ids     []string
	sources map[string]DatasetSource
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{sources: make(map[string]DatasetSource)}
}

// Register adds id to the catalog. Ids keep registration order.
// Registering the same id twice is an error.
func (c *Catalog) Register(id string, src DatasetSource) error {
	if id == "" {
		return &entity.ValidationError{Field: "dataset_id", Message: "is required", Op: "register"}
	}
	if src == nil {
		return fmt.Errorf("Register %q: nil source", id)
	}
	if _, ok := c.sources[id]; ok {
		return fmt.Errorf("Register %q: duplicate dataset id", id)
	}
	c.ids = append(c.ids, id)
	c.sources[id] = src
	return nil
}

// IDs returns the dataset ids in discovery order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Default returns the first discovered id, or "" when the catalog is empty.
func (c *Catalog) Default() string {
	if len(c.ids) == 0 {
		return ""
	}
	return c.ids[0]
}

// Len returns the number of registered datasets.
func (c *Catalog) Len() int { return len(c.ids) }

// Lookup returns the source that serves id.
func (c *Catalog) Lookup(id string) (DatasetSource, bool) {
	src, ok := c.sources[id]
	return src, ok
}

func (c *Catalog) TotalRecords(ctx context.Context, datasetID string) (int64, error) {
	src, ok := c.sources[datasetID]
	if !ok {
		return 0, &entity.NotFoundError{DatasetID: datasetID, Op: "total_records"}
	}
	return src.TotalRecords(ctx, datasetID)
}

func (c *Catalog) LoadPage(ctx context.Context, datasetID string, offset, limit int) ([]entity.Record, error) {
	src, ok := c.sources[datasetID]
	if !ok {
		return nil, &entity.NotFoundError{DatasetID: datasetID, Op: "load_page"}
	}
	return src.LoadPage(ctx, datasetID, offset, limit)
}
