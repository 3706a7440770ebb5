// Package pagination provides the page arithmetic shared by interactive
// list views.
//
// This package contains:
//   - Page-size validation and defaults
//   - TotalPages and Bounds: ceil-based page counting and 1-based page slicing
//   - Meta: a snapshot of the current page with has-next/has-previous flags
//
// Pages are 1-indexed. Callers own the current page number; the helpers here
// never mutate state.
package pagination
