package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"nq-browser/internal/domain/entity"
)

// Querier is the subset of *sql.DB used by the dataset source.
// *sql.DB and *circuitbreaker.DBCircuitBreaker both satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DatasetSource serves datasets stored as SQLite tables with an integer id column.
type DatasetSource struct {
	q      Querier
	tables map[string]struct{}
}

// NewDatasetSource returns a source over the given tables.
// Table names must come from Discover; they are the only identifiers interpolated into SQL.
func NewDatasetSource(q Querier, tables []string) *DatasetSource {
	set := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		set[t] = struct{}{}
	}
	return &DatasetSource{q: q, tables: set}
}

func (s *DatasetSource) TotalRecords(ctx context.Context, datasetID string) (int64, error) {
	if _, ok := s.tables[datasetID]; !ok {
		return 0, &entity.NotFoundError{DatasetID: datasetID, Op: "total_records"}
	}

	query := `SELECT COUNT(*) FROM ` + quoteIdent(datasetID)
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
FROM ` + quoteIdent(datasetID) + `
ORDER BY id
LIMIT ? OFFSET ?`
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

// Discover lists tables whose name starts with prefix (case-insensitive), in creation order.
// An empty prefix selects every user table.
func Discover(ctx context.Context, q Querier, prefix string) ([]string, error) {
	const query = `
SELECT name
FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY rowid`
	rows, err := q.QueryContext(ctx, query)
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

// quoteIdent renders name as a double-quoted SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
