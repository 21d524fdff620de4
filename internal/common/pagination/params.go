package pagination

import (
	"net/http"
	"strconv"

	"nq-browser/internal/domain/entity"
)

// Params represents a page request parsed from an HTTP query string.
type Params struct {
	DatasetID string // Empty selects the default dataset
	Page      int    // 1-based page number
	PageSize  int    // Records per page
}

// ParseQueryParams parses dataset and pagination parameters from the query string.
// Missing values take the configured defaults.
//
// Query parameters:
//   - table_name (alias dataset_id): dataset to read
//   - page: page number
//   - page_size: records per page
//
// Only syntactically invalid numbers are rejected here; range checks belong
// to Params.Validate so that every caller gets the same rules.
func ParseQueryParams(r *http.Request, cfg Config) (Params, error) {
	q := r.URL.Query()
	params := Params{
		DatasetID: q.Get("table_name"),
		Page:      cfg.DefaultPage,
		PageSize:  cfg.DefaultPageSize,
	}
	if params.DatasetID == "" {
		params.DatasetID = q.Get("dataset_id")
	}

	if s := q.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil {
			return params, &entity.ValidationError{
				Field: "page", Message: "must be an integer",
				DatasetID: params.DatasetID, Op: "get_page",
			}
		}
		params.Page = page
	}

	if s := q.Get("page_size"); s != "" {
		size, err := strconv.Atoi(s)
		if err != nil {
			return params, &entity.ValidationError{
				Field: "page_size", Message: "must be an integer",
				DatasetID: params.DatasetID, Op: "get_page",
			}
		}
		params.PageSize = size
	}

	return params, nil
}
