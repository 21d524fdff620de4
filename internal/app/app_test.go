package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nq-browser/internal/config"
	"nq-browser/internal/usecase/normalize"
)

type fixtureRow struct {
	Question     string `parquet:"question,optional"`
	LongAnswers  string `parquet:"long_answers,optional"`
	ShortAnswers string `parquet:"short_answers,optional"`
}

func sqliteFixture(t *testing.T, tables map[string]int, order ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nq.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for _, table := range order {
		_, err := db.Exec(fmt.Sprintf(`CREATE TABLE %q (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    question      TEXT,
    long_answers  TEXT,
    short_answers TEXT
)`, table))
		require.NoError(t, err)
		for i := 1; i <= tables[table]; i++ {
			_, err := db.Exec(fmt.Sprintf(`INSERT INTO %q (question, long_answers, short_answers) VALUES (?, ?, ?)`, table),
				fmt.Sprintf("q%d", i), "<p>long</p>", "<tr><td>A</td><td>''</td></tr>")
			require.NoError(t, err)
		}
	}
	return path
}

func writeParquet(t *testing.T, path string, rows []fixtureRow) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := parquet.NewGenericWriter[fixtureRow](f)
	_, err = w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestOpenBackend_SQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.DSN = sqliteFixture(t, map[string]int{"natural_dev": 12, "users": 3, "natural_train": 4},
		"natural_dev", "users", "natural_train")

	b, err := OpenBackend(context.Background(), cfg.Backend, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	assert.Equal(t, []string{"natural_dev", "natural_train"}, b.Catalog.IDs())
	assert.Equal(t, "natural_dev", b.Catalog.Default())
	assert.NotNil(t, b.DB)
	assert.Nil(t, b.Breaker)

	n, err := b.Catalog.TotalRecords(context.Background(), "natural_dev")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestOpenBackend_SQLiteWithCircuitBreaker(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.DSN = sqliteFixture(t, map[string]int{"natural_dev": 2}, "natural_dev")
	cfg.Backend.CircuitBreaker = true

	b, err := OpenBackend(context.Background(), cfg.Backend, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.NotNil(t, b.Breaker)
	assert.Equal(t, "dataset-sqlite", b.Breaker.Name())
	assert.Equal(t, gobreaker.StateClosed, b.Breaker.State())

	recs, err := b.Catalog.LoadPage(context.Background(), "natural_dev", 0, 10)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestOpenBackend_Parquet(t *testing.T) {
	dir := t.TempDir()
	writeParquet(t, filepath.Join(dir, "natural-dev.parquet"), []fixtureRow{
		{Question: "q1"}, {Question: "q2"}, {Question: "q3"},
	})
	writeParquet(t, filepath.Join(dir, "natural-train.parquet"), []fixtureRow{
		{Question: "t1"},
	})

	for _, kind := range []string{config.BackendParquetMaterialized, config.BackendParquetStreaming} {
		t.Run(kind, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Backend.Kind = kind
			cfg.Backend.DataDir = dir

			b, err := OpenBackend(context.Background(), cfg.Backend, nil)
			require.NoError(t, err)

			assert.Equal(t, []string{"natural_dev", "natural_train"}, b.Catalog.IDs())
			assert.Nil(t, b.DB)
			assert.NoError(t, b.Close())

			recs, err := b.Catalog.LoadPage(context.Background(), "natural_dev", 1, 10)
			require.NoError(t, err)
			require.Len(t, recs, 2)
			assert.Equal(t, "q2", recs[0].Question)
		})
	}
}

func TestOpenBackend_Errors(t *testing.T) {
	cfg := testConfig(t)

	cfg.Backend.Kind = "mysql"
	_, err := OpenBackend(context.Background(), cfg.Backend, nil)
	assert.ErrorContains(t, err, "unknown backend kind")

	cfg.Backend.Kind = config.BackendParquetStreaming
	cfg.Backend.DataDir = filepath.Join(t.TempDir(), "missing")
	_, err = OpenBackend(context.Background(), cfg.Backend, nil)
	assert.ErrorContains(t, err, "discover parquet datasets")
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.DSN = sqliteFixture(t, map[string]int{"natural_dev": 25}, "natural_dev")
	cfg.Cache.WarmOnStart = true

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	n, ok := a.Service.Cache.Peek("natural_dev")
	assert.True(t, ok, "count should be warmed")
	assert.Equal(t, int64(25), n)
	assert.Equal(t, normalize.Structural, a.Normalizer.Name())

	page, err := a.Service.ResolvePage(context.Background(), "", 3, 10)
	require.NoError(t, err)
	page = normalize.Page(context.Background(), a.Normalizer, page)
	require.Len(t, page.Records, 5)
	assert.Equal(t, "q21", page.Records[0].Question)
	assert.Equal(t, "<table><tr><td>A</td></tr></table>", page.Records[0].ShortAnswers)
}

func TestNew_UnknownStrategy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Normalizer.Strategy = "bleach"

	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}
