// Package entity defines the core domain types of the dataset browser:
// question/answer records, pages of records, and the error kinds surfaced
// by the dataset access layer.
package entity

import "math"

// Record is a single question/answer row read from a dataset.
// Missing or NULL values are represented as empty strings.
type Record struct {
	Question     string
	LongAnswers  string
	ShortAnswers string
}

// Page is one slice of a dataset together with its pagination metadata.
type Page struct {
	DatasetID    string
	Records      []Record
	TotalRecords int64
	TotalPages   int
	Page         int
	PageSize     int
}

// Offset returns the zero-based index of the first record of the page.
// It saturates at math.MaxInt64 instead of overflowing.
func (p *Page) Offset() int64 {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	page, size := int64(p.Page-1), int64(p.PageSize)
	if page > math.MaxInt64/size {
		return math.MaxInt64
	}
	return page * size
}
