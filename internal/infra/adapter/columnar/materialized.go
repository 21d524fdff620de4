package columnar

import (
	"context"
	"fmt"

	"github.com/parquet-go/parquet-go"

	"nq-browser/internal/domain/entity"
)

// Materialized reads the full projected column set of a file on every page
// request. Counts come from the file footer.
type Materialized struct {
	paths map[string]string
}

// NewMaterialized returns a source over the given files.
func NewMaterialized(files []File) *Materialized {
	return &Materialized{paths: index(files)}
}

func (m *Materialized) readAll(ctx context.Context, datasetID, op string) ([]row, error) {
	path, ok := m.paths[datasetID]
	if !ok {
		return nil, &entity.NotFoundError{DatasetID: datasetID, Op: op}
	}
	if err := ctx.Err(); err != nil {
		return nil, entity.NewSourceReadError(datasetID, op, err)
	}
	rows, err := parquet.ReadFile[row](path)
	if err != nil {
		return nil, entity.NewSourceReadError(datasetID, op, fmt.Errorf("ReadFile: %w", err))
	}
	return rows, nil
}

// TotalRecords reads the row count from the file footer without decoding rows.
func (m *Materialized) TotalRecords(ctx context.Context, datasetID string) (int64, error) {
	pf, closeFn, err := openFile(m.paths, datasetID, "total_records")
	if err != nil {
		return 0, err
	}
	defer closeFn()
	if err := ctx.Err(); err != nil {
		return 0, entity.NewSourceReadError(datasetID, "total_records", err)
	}
	return pf.NumRows(), nil
}

func (m *Materialized) LoadPage(ctx context.Context, datasetID string, offset, limit int) ([]entity.Record, error) {
	rows, err := m.readAll(ctx, datasetID, "load_page")
	if err != nil {
		return nil, err
	}
	if offset < 0 || limit <= 0 || offset >= len(rows) {
		return []entity.Record{}, nil
	}
	end := min(offset+limit, len(rows))
	return toRecords(rows[offset:end]), nil
}

func toRecords(rows []row) []entity.Record {
	out := make([]entity.Record, len(rows))
	for i, r := range rows {
		out[i] = entity.Record{
			Question:     r.Question,
			LongAnswers:  r.LongAnswers,
			ShortAnswers: r.ShortAnswers,
		}
	}
	return out
}
