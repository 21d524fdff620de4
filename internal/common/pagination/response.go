package pagination

// Response is a generic paginated response wrapper.
// Metadata fields are flattened next to data:
//
//	{"data": [...], "totalRecords": 25, "pageSize": 10, "totalPages": 3, "currentPage": 3}
type Response[T any] struct {
	Data []T `json:"data"`
	Metadata
}

// NewResponse creates a new paginated response with data and metadata.
// A nil data slice is encoded as an empty array.
func NewResponse[T any](data []T, metadata Metadata) Response[T] {
	if data == nil {
		data = []T{}
	}
	return Response[T]{
		Data:     data,
		Metadata: metadata,
	}
}
