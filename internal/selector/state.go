package selector

import (
	"github.com/rshade/azimage/internal/pagination"
)

// State is the cursor of one selection session: the 1-based page, the page
// size, the number of items after filtering, and the active filter. It is
// owned by a single Run call and discarded when Run returns.
type State struct {
	Page     int
	PageSize int
	Total    int
	Filter   string
}

func newState(pageSize int, filter string) *State {
	return &State{
		Page:     pagination.DefaultPage,
		PageSize: pagination.NormalizePageSize(pageSize),
		Filter:   filter,
	}
}

// reset moves back to the first page for a list of total items.
func (s *State) reset(total int) {
	s.Page = pagination.DefaultPage
	s.Total = total
}

// next advances one page. It reports false, leaving the page unchanged,
// when already on the last page.
func (s *State) next() bool {
	if !s.Meta().HasNext {
		return false
	}
	s.Page++
	return true
}

// prev goes back one page. It reports false on the first page.
func (s *State) prev() bool {
	if !s.Meta().HasPrevious {
		return false
	}
	s.Page--
	return true
}

// Meta returns the pagination metadata for the current page.
func (s *State) Meta() pagination.Meta {
	return pagination.NewMeta(s.Page, s.PageSize, s.Total)
}
