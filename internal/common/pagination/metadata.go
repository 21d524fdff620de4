package pagination

// Metadata contains pagination metadata included in API responses.
type Metadata struct {
	TotalRecords int64 `json:"totalRecords"` // Total number of records in the dataset
	PageSize     int   `json:"pageSize"`     // Records per page
	TotalPages   int   `json:"totalPages"`   // ceil(totalRecords / pageSize), 0 when empty
	CurrentPage  int   `json:"currentPage"`  // Current page number (1-based)
}

// NewMetadata builds metadata for the given page request and total.
func NewMetadata(total int64, page, pageSize int) Metadata {
	return Metadata{
		TotalRecords: total,
		PageSize:     pageSize,
		TotalPages:   CalculateTotalPages(total, pageSize),
		CurrentPage:  page,
	}
}
