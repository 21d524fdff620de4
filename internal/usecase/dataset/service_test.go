package dataset_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"nq-browser/internal/common/pagination"
	"nq-browser/internal/domain/entity"
	"nq-browser/internal/repository"
	"nq-browser/internal/usecase/dataset"
)

/* ───────── test source ───────── */

type memSource struct {
	records    []entity.Record
	countErr   error
	loadErr    error
	countCalls atomic.Int32
	loadCalls  atomic.Int32
}

func newMemSource(n int) *memSource {
	recs := make([]entity.Record, n)
	for i := range recs {
		recs[i] = entity.Record{Question: fmt.Sprintf("q%d", i+1)}
	}
	return &memSource{records: recs}
}

func (m *memSource) TotalRecords(_ context.Context, _ string) (int64, error) {
	m.countCalls.Add(1)
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.records)), nil
}

func (m *memSource) LoadPage(_ context.Context, _ string, offset, limit int) ([]entity.Record, error) {
	m.loadCalls.Add(1)
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if offset >= len(m.records) {
		return []entity.Record{}, nil
	}
	end := min(offset+limit, len(m.records))
	return m.records[offset:end], nil
}

func newService(t *testing.T, cfg pagination.Config, sources map[string]*memSource, order ...string) *dataset.Service {
	t.Helper()
	catalog := repository.NewCatalog()
	for _, id := range order {
		require.NoError(t, catalog.Register(id, sources[id]))
	}
	return dataset.NewService(catalog, cfg)
}

/* ───────── GetPage ───────── */

func TestService_GetPage_PartialLastPage(t *testing.T) {
	src := newMemSource(25)
	svc := newService(t, pagination.DefaultConfig(), map[string]*memSource{"natural_questions": src}, "natural_questions")

	page, err := svc.GetPage(context.Background(), "natural_questions", 3, 10)
	require.NoError(t, err)

	assert.Len(t, page.Records, 5)
	assert.Equal(t, "q21", page.Records[0].Question)
	assert.Equal(t, "q25", page.Records[4].Question)
	assert.Equal(t, int64(25), page.TotalRecords)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, "natural_questions", page.DatasetID)
}

func TestService_GetPage_EmptyDataset(t *testing.T) {
	src := newMemSource(0)
	svc := newService(t, pagination.DefaultConfig(), map[string]*memSource{"natural_empty": src}, "natural_empty")

	page, err := svc.GetPage(context.Background(), "natural_empty", 1, 10)
	require.NoError(t, err)

	assert.Empty(t, page.Records)
	assert.NotNil(t, page.Records)
	assert.Equal(t, int64(0), page.TotalRecords)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, int32(0), src.loadCalls.Load())
}

func TestService_GetPage_BeyondLastPage(t *testing.T) {
	src := newMemSource(25)
	svc := newService(t, pagination.DefaultConfig(), map[string]*memSource{"natural_questions": src}, "natural_questions")

	page, err := svc.GetPage(context.Background(), "natural_questions", 9, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.Equal(t, 3, page.TotalPages)
}

func TestService_GetPage_HugePageNumber(t *testing.T) {
	src := newMemSource(25)
	svc := newService(t, pagination.DefaultConfig(), map[string]*memSource{"natural_questions": src}, "natural_questions")

	for _, tc := range []struct{ page, size int }{
		{page: (1 << 62) + 1, size: 4},
		{page: math.MaxInt, size: 100},
		{page: math.MaxInt / 10, size: 10},
	} {
		page, err := svc.GetPage(context.Background(), "natural_questions", tc.page, tc.size)
		require.NoError(t, err, "page=%d size=%d", tc.page, tc.size)
		assert.Empty(t, page.Records, "page=%d size=%d", tc.page, tc.size)
		assert.Equal(t, int64(25), page.TotalRecords)
		assert.Equal(t, tc.page, page.Page)
	}
	assert.Equal(t, int32(0), src.loadCalls.Load())
}

func TestService_GetPage_LengthInvariant(t *testing.T) {
	src := newMemSource(37)
	svc := newService(t, pagination.Config{DefaultPage: 1, DefaultPageSize: 10}, map[string]*memSource{"d": src}, "d")

	for _, size := range []int{1, 3, 10, 37, 50} {
		for page := 1; page <= 40; page++ {
			got, err := svc.GetPage(context.Background(), "d", page, size)
			require.NoError(t, err)
			want := max(0, min(size, 37-(page-1)*size))
			assert.Len(t, got.Records, want, "page=%d size=%d", page, size)
		}
	}
	assert.Equal(t, int32(1), src.countCalls.Load())
}

func TestService_GetPage_Validation(t *testing.T) {
	src := newMemSource(5)
	svc := newService(t, pagination.DefaultConfig(), map[string]*memSource{"natural_questions": src}, "natural_questions")

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantField string
	}{
		{"negative page size", 1, -5, "page_size"},
		{"zero page size", 1, 0, "page_size"},
		{"zero page", 0, 10, "page"},
		{"above max page size", 1, 101, "page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetPage(context.Background(), "natural_questions", tt.page, tt.pageSize)

			var ve *entity.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Equal(t, "natural_questions", ve.DatasetID)
		})
	}
	assert.Equal(t, int32(0), src.countCalls.Load())
	assert.Equal(t, int32(0), src.loadCalls.Load())
}

func TestService_GetPage_UnknownDataset(t *testing.T) {
	svc := newService(t, pagination.DefaultConfig(), map[string]*memSource{"natural_questions": newMemSource(3)}, "natural_questions")

	_, err := svc.GetPage(context.Background(), "ghost", 1, 10)

	var nf *entity.NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, "ghost", nf.DatasetID)
}

func TestService_GetPage_SourceErrors(t *testing.T) {
	readErr := &entity.SourceReadError{DatasetID: "d", Op: "load_page", Err: errors.New("corrupt page")}

	t.Run("count failure", func(t *testing.T) {
		src := newMemSource(3)
		src.countErr = &entity.SourceReadError{DatasetID: "d", Op: "total_records", Err: errors.New("locked")}
		svc := newService(t, pagination.DefaultConfig(), map[string]*memSource{"d": src}, "d")

		_, err := svc.GetPage(context.Background(), "d", 1, 10)
		assert.True(t, errors.Is(err, entity.ErrSourceRead))

		_, ok := svc.Cache.Peek("d")
		assert.False(t, ok)
	})

	t.Run("load failure is not an empty page", func(t *testing.T) {
		src := newMemSource(3)
		src.loadErr = readErr
		svc := newService(t, pagination.DefaultConfig(), map[string]*memSource{"d": src}, "d")

		page, err := svc.GetPage(context.Background(), "d", 1, 10)
		assert.Nil(t, page)
		assert.True(t, errors.Is(err, entity.ErrSourceRead))
	})
}

func TestService_GetPage_ConcurrentRequestsCountOnce(t *testing.T) {
	src := newMemSource(100)
	svc := newService(t, pagination.DefaultConfig(), map[string]*memSource{"d": src}, "d")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			_, err := svc.GetPage(context.Background(), "d", page%10+1, 10)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.countCalls.Load())
}

func TestService_GetPage_Span(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	svc := newService(t, pagination.DefaultConfig(), map[string]*memSource{"d": newMemSource(25)}, "d")

	_, err := svc.GetPage(context.Background(), "d", 3, 10)
	require.NoError(t, err)
	_, err = svc.GetPage(context.Background(), "d", 1, -5)
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "dataset.GetPage", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
}

/* ───────── ResolvePage ───────── */

func TestService_ResolvePage(t *testing.T) {
	sources := map[string]*memSource{
		"natural_dev":   newMemSource(12),
		"natural_train": newMemSource(30),
	}

	t.Run("empty id selects default", func(t *testing.T) {
		svc := newService(t, pagination.DefaultConfig(), sources, "natural_dev", "natural_train")
		page, err := svc.ResolvePage(context.Background(), "", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "natural_dev", page.DatasetID)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("explicit id", func(t *testing.T) {
		svc := newService(t, pagination.DefaultConfig(), sources, "natural_dev", "natural_train")
		page, err := svc.ResolvePage(context.Background(), "natural_train", 2, 10)
		require.NoError(t, err)
		assert.Equal(t, "natural_train", page.DatasetID)
		assert.Equal(t, "q11", page.Records[0].Question)
	})

	t.Run("unknown id without fallback", func(t *testing.T) {
		svc := newService(t, pagination.DefaultConfig(), sources, "natural_dev", "natural_train")
		_, err := svc.ResolvePage(context.Background(), "ghost", 1, 10)
		assert.True(t, errors.Is(err, entity.ErrNotFound))
	})

	t.Run("unknown id with fallback", func(t *testing.T) {
		cfg := pagination.DefaultConfig()
		cfg.FallbackDefault = true
		svc := newService(t, cfg, sources, "natural_dev", "natural_train")
		page, err := svc.ResolvePage(context.Background(), "ghost", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "natural_dev", page.DatasetID)
	})

	t.Run("empty catalog", func(t *testing.T) {
		svc := newService(t, pagination.DefaultConfig(), nil)
		_, err := svc.ResolvePage(context.Background(), "", 1, 10)
		assert.True(t, errors.Is(err, entity.ErrNotFound))
	})
}

/* ───────── Datasets / WarmCounts ───────── */

func TestService_Datasets(t *testing.T) {
	sources := map[string]*memSource{"b": newMemSource(1), "a": newMemSource(1)}
	svc := newService(t, pagination.DefaultConfig(), sources, "b", "a")

	got := svc.Datasets()
	assert.Equal(t, []string{"b", "a"}, got.IDs)
	assert.Equal(t, "b", got.Default)
}

func TestService_WarmCounts(t *testing.T) {
	sources := map[string]*memSource{
		"a": newMemSource(3),
		"b": newMemSource(4),
		"c": newMemSource(5),
	}
	svc := newService(t, pagination.DefaultConfig(), sources, "a", "b", "c")

	require.NoError(t, svc.WarmCounts(context.Background(), 2))
	assert.Equal(t, 3, svc.Cache.Len())

	for id, src := range sources {
		n, ok := svc.Cache.Peek(id)
		assert.True(t, ok, id)
		assert.Equal(t, int64(len(src.records)), n)
		assert.Equal(t, int32(1), src.countCalls.Load())
	}
}

func TestService_WarmCounts_Error(t *testing.T) {
	bad := newMemSource(1)
	bad.countErr = &entity.SourceReadError{DatasetID: "bad", Op: "total_records", Err: errors.New("boom")}
	sources := map[string]*memSource{"ok": newMemSource(2), "bad": bad}
	svc := newService(t, pagination.DefaultConfig(), sources, "ok", "bad")

	err := svc.WarmCounts(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrSourceRead))
	assert.Contains(t, err.Error(), `"bad"`)
}
