package pagination

import "math"

// CalculateOffset calculates the zero-based index of the first record of a page.
// Page numbers are 1-based, so page 1 has offset 0. An offset that does not fit
// in an int64 saturates at math.MaxInt64, which lies past the end of any dataset.
//
// Examples:
//   - Page 1, Size 10 -> Offset 0
//   - Page 3, Size 10 -> Offset 20
func CalculateOffset(page, pageSize int) int64 {
	if page <= 1 || pageSize <= 0 {
		return 0
	}
	p, size := int64(page-1), int64(pageSize)
	if p > math.MaxInt64/size {
		return math.MaxInt64
	}
	return p * size
}

// CalculateTotalPages returns ceil(total / pageSize).
// An empty dataset has zero pages.
//
// Examples:
//   - Total 0, Size 10 -> 0 pages
//   - Total 10, Size 10 -> 1 page
//   - Total 25, Size 10 -> 3 pages
func CalculateTotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// PageWindow returns up to width consecutive page numbers around current,
// clamped to [1, totalPages]. The home view uses width 5, which on page 1
// yields 1..min(5, totalPages).
func PageWindow(current, totalPages, width int) []int {
	if totalPages <= 0 || width <= 0 {
		return []int{}
	}
	current = max(1, min(current, totalPages))

	start := max(1, current-width/2)
	end := min(totalPages, start+width-1)
	start = max(1, end-width+1)

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
