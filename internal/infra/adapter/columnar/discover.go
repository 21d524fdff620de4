// Package columnar serves datasets stored as Parquet files.
//
// Two sources are provided. Both answer counts from file metadata. Materialized
// decodes the projected columns of the whole file for every page and slices
// the result. Streaming decodes only the row groups that overlap the requested
// window.
package columnar

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"

	"nq-browser/internal/domain/entity"
)

// row is the projection read from every dataset file. Other columns are ignored.
type row struct {
	Question     string `parquet:"question,optional"`
	LongAnswers  string `parquet:"long_answers,optional"`
	ShortAnswers string `parquet:"short_answers,optional"`
}

// File is one discovered dataset file.
type File struct {
	ID   string
	Path string
}

// DatasetID derives the dataset id from a file name: the base name without
// extension, with '-' replaced by '_'.
func DatasetID(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, "-", "_")
}

// Discover lists the *.parquet files of dir in name order.
// Two files mapping to the same id is an error.
func Discover(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("Discover: ReadDir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".parquet") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	files := make([]File, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		id := DatasetID(name)
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("Discover: %s and %s both map to dataset %q", prev, name, id)
		}
		seen[id] = name
		files = append(files, File{ID: id, Path: filepath.Join(dir, name)})
	}
	return files, nil
}

func index(files []File) map[string]string {
	m := make(map[string]string, len(files))
	for _, f := range files {
		m[f.ID] = f.Path
	}
	return m
}

// openFile returns the parsed footer of the file backing datasetID and a
// closer for the underlying handle.
func openFile(paths map[string]string, datasetID, op string) (*parquet.File, func(), error) {
	path, ok := paths[datasetID]
	if !ok {
		return nil, nil, &entity.NotFoundError{DatasetID: datasetID, Op: op}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, entity.NewSourceReadError(datasetID, op, fmt.Errorf("Open: %w", err))
	}
	closeFn := func() { _ = f.Close() }

	info, err := f.Stat()
	if err != nil {
		closeFn()
		return nil, nil, entity.NewSourceReadError(datasetID, op, fmt.Errorf("Stat: %w", err))
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		closeFn()
		return nil, nil, entity.NewSourceReadError(datasetID, op, fmt.Errorf("OpenFile: %w", err))
	}
	return pf, closeFn, nil
}
