package pagination

// Meta describes one page of a paginated list. FirstIndex and LastIndex are
// the 1-based, inclusive global indexes of the items on the page (both 0
// when the list is empty).
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	FirstIndex  int  `json:"first_index"  yaml:"first_index"`
	LastIndex   int  `json:"last_index"   yaml:"last_index"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewMeta builds page metadata for the given 1-based page.
func NewMeta(page, pageSize, totalItems int) Meta {
	pageSize = NormalizePageSize(pageSize)
	if page < MinPage {
		page = DefaultPage
	}

	totalPages := TotalPages(totalItems, pageSize)
	start, end := Bounds(page, pageSize, totalItems)

	first := 0
	if end > start {
		first = start + 1
	}

	return Meta{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		FirstIndex:  first,
		LastIndex:   end,
		HasPrevious: page > MinPage,
		HasNext:     page < totalPages,
	}
}
