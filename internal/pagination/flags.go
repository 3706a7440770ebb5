package pagination

import (
	"errors"
	"fmt"
)

// Pagination defaults and validation limits.
const (
	DefaultPageSize = 20
	MinPageSize     = 1
	DefaultPage     = 1
	MinPage         = 1
)

// ErrInvalidPageSize is returned for page sizes below MinPageSize.
var ErrInvalidPageSize = errors.New("page-size must be >= 1")

// ValidatePageSize checks that size is a usable page size.
func ValidatePageSize(size int) error {
	if size < MinPageSize {
		return fmt.Errorf("%w, got %d", ErrInvalidPageSize, size)
	}
	return nil
}

// NormalizePageSize returns size, or DefaultPageSize when size is invalid.
func NormalizePageSize(size int) int {
	if size < MinPageSize {
		return DefaultPageSize
	}
	return size
}

// TotalPages returns ceil(totalItems / pageSize). It returns 0 for an empty
// list or a non-positive page size.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	pages := totalItems / pageSize
	if totalItems%pageSize > 0 {
		pages++
	}
	return pages
}

// Bounds returns the half-open, 0-based index range [start, end) covered by
// the 1-based page. Pages past the end yield an empty range at totalItems.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func Bounds(page, pageSize, totalItems int) (start, end int) {
	if page < MinPage || pageSize <= 0 || totalItems <= 0 {
		return 0, 0
	}
	start = (page - 1) * pageSize
	if start >= totalItems {
		return totalItems, totalItems
	}
	end = start + pageSize
	if end > totalItems {
		end = totalItems
	}
	return start, end
}

// Slice returns the items on the 1-based page. The result shares storage
// with items.
func Slice[T any](items []T, page, pageSize int) []T {
	start, end := Bounds(page, pageSize, len(items))
	return items[start:end]
}
