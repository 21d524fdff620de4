package columnar

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"nq-browser/internal/domain/entity"
)

// Streaming counts records from row-group metadata and decodes only the row
// groups overlapping the requested window.
type Streaming struct {
	paths map[string]string
}

// NewStreaming returns a source over the given files.
func NewStreaming(files []File) *Streaming {
	return &Streaming{paths: index(files)}
}

func (s *Streaming) TotalRecords(ctx context.Context, datasetID string) (int64, error) {
	pf, closeFn, err := openFile(s.paths, datasetID, "total_records")
	if err != nil {
		return 0, err
	}
	defer closeFn()

	var total int64
	for _, rg := range pf.RowGroups() {
		total += rg.NumRows()
	}
	return total, nil
}

func (s *Streaming) LoadPage(ctx context.Context, datasetID string, offset, limit int) ([]entity.Record, error) {
	pf, closeFn, err := openFile(s.paths, datasetID, "load_page")
	if err != nil {
		return nil, err
	}
	defer closeFn()

	if offset < 0 || limit <= 0 {
		return []entity.Record{}, nil
	}

	lo, hi := int64(offset), int64(offset)+int64(limit)
	out := make([]row, 0, limit)

	var start int64
	for _, rg := range pf.RowGroups() {
		n := rg.NumRows()
		end := start + n
		if end <= lo {
			start = end
			continue
		}
		if start >= hi {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, entity.NewSourceReadError(datasetID, "load_page", err)
		}

		skip := max(lo-start, 0)
		want := min(end, hi) - (start + skip)
		rows, err := readRowGroup(rg, skip, want)
		if err != nil {
			return nil, entity.NewSourceReadError(datasetID, "load_page", err)
		}
		out = append(out, rows...)
		start = end
	}

	return toRecords(out), nil
}

// readRowGroup decodes want rows of rg starting at row index skip.
func readRowGroup(rg parquet.RowGroup, skip, want int64) ([]row, error) {
	r := parquet.NewGenericRowGroupReader[row](rg)
	defer func() { _ = r.Close() }()

	if skip > 0 {
		if err := r.SeekToRow(skip); err != nil {
			return nil, fmt.Errorf("SeekToRow: %w", err)
		}
	}

	buf := make([]row, want)
	var got int
	for got < len(buf) {
		n, err := r.Read(buf[got:])
		got += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Read: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return buf[:got], nil
}
