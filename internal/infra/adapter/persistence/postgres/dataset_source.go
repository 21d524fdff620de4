package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"nq-browser/internal/domain/entity"
)

// Querier is the subset of *sql.DB used by the dataset source.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DatasetSource serves datasets stored as PostgreSQL tables inside one schema.
type DatasetSource struct {
	q      Querier
	schema string
	tables map[string]struct{}
}

// NewDatasetSource returns a source over the discovered tables of schema.
func NewDatasetSource(q Querier, schema string, tables []string) *DatasetSource {
	if schema == "" {
		schema = "public"
	}
	set := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		set[t] = struct{}{}
	}
	return &DatasetSource{q: q, schema: schema, tables: set}
}

func (s *DatasetSource) qualified(table string) string {
	return quoteIdent(s.schema) + "." + quoteIdent(table)
}

func (s *DatasetSource) TotalRecords(ctx context.Context, datasetID string) (int64, error) {
	if _, ok := s.tables[datasetID]; !ok {
		return 0, &entity.NotFoundError{DatasetID: datasetID, Op: "total_records"}
	}

	query := `SELECT COUNT(*) FROM ` + s.qualified(datasetID)
	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return 0, entity.NewSourceReadError(datasetID, "total_records", fmt.Errorf("QueryContext: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var total int64
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, entity.NewSourceReadError(datasetID, "total_records", fmt.Errorf("Scan: %w", err))
		}
	}
	if err := rows.Err(); err != nil {
		return 0, entity.NewSourceReadError(datasetID, "total_records", fmt.Errorf("rows.Err: %w", err))
	}
	return total, nil
}

func (s *DatasetSource) LoadPage(ctx context.Context, datasetID string, offset, limit int) ([]entity.Record, error) {
	if _, ok := s.tables[datasetID]; !ok {
		return nil, &entity.NotFoundError{DatasetID: datasetID, Op: "load_page"}
	}
	if limit <= 0 || offset < 0 {
		return []entity.Record{}, nil
	}

	query := `
SELECT question, long_answers, short_answers
FROM ` + s.qualified(datasetID) + `
ORDER BY id
LIMIT $1 OFFSET $2`
	rows, err := s.q.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, entity.NewSourceReadError(datasetID, "load_page", fmt.Errorf("QueryContext: %w", err))
	}
	defer func() { _ = rows.Close() }()

	records := make([]entity.Record, 0, limit)
	for rows.Next() {
		var q, long, short sql.NullString
		if err := rows.Scan(&q, &long, &short); err != nil {
			return nil, entity.NewSourceReadError(datasetID, "load_page", fmt.Errorf("Scan: %w", err))
		}
		records = append(records, entity.Record{
			Question:     q.String,
			LongAnswers:  long.String,
			ShortAnswers: short.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, entity.NewSourceReadError(datasetID, "load_page", fmt.Errorf("rows.Err: %w", err))
	}
	return records, nil
}

// Discover lists base tables of schema whose name starts with prefix (case-insensitive),
// ordered by name.
func Discover(ctx context.Context, q Querier, schema, prefix string) ([]string, error) {
	if schema == "" {
		schema = "public"
	}
	const query = `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = $1 AND table_type = 'BASE TABLE'
ORDER BY table_name`
	rows, err := q.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, fmt.Errorf("Discover: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	lower := strings.ToLower(prefix)
	tables := make([]string, 0, 8)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("Discover: Scan: %w", err)
		}
		if strings.HasPrefix(strings.ToLower(name), lower) {
			tables = append(tables, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Discover: rows.Err: %w", err)
	}
	return tables, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
