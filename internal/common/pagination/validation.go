package pagination

import (
	"fmt"

	"nq-browser/internal/domain/entity"
)

// Validate checks the page request against the configuration.
// Returns *entity.ValidationError if:
//   - page is less than 1
//   - page_size is not positive
//   - page_size exceeds cfg.MaxPageSize (when MaxPageSize > 0)
func (p Params) Validate(cfg Config) error {
	if p.Page < 1 {
		return &entity.ValidationError{
			Field: "page", Message: "must be a positive integer",
			DatasetID: p.DatasetID, Op: "get_page",
		}
	}
	if p.PageSize <= 0 {
		return &entity.ValidationError{
			Field: "page_size", Message: "must be a positive integer",
			DatasetID: p.DatasetID, Op: "get_page",
		}
	}
	if cfg.MaxPageSize > 0 && p.PageSize > cfg.MaxPageSize {
		return &entity.ValidationError{
			Field: "page_size", Message: fmt.Sprintf("must not exceed %d", cfg.MaxPageSize),
			DatasetID: p.DatasetID, Op: "get_page",
		}
	}
	return nil
}
