package listutil

import (
	"net/url"
	"strconv"
)

// DashboardPerPage is the number of appointments shown per dashboard page.
const DashboardPerPage = 10

// Sort orders accepted by the dashboard.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage), at least 1
}

// ParsePage extracts the page number from URL query values.
// PRE: none
// POST: returns page >= 1; missing or malformed values give 1
func ParsePage(q url.Values) int {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	return page
}

// ParseSortOrder extracts the sort order from URL query values.
// PRE: none
// POST: returns "asc" only when asked for explicitly; anything else is "desc"
func ParseSortOrder(q url.Values) string {
	if q.Get("sort") == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: returns PageInfo with TotalPages computed; Page clamped to valid range
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DashboardPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the SQL OFFSET for the current page.
// PRE: PageInfo is valid
// POST: Returns (Page-1) * PerPage
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage returns the previous page number, or 1.
func (p PageInfo) PrevPage() int {
	if p.HasPrev() {
		return p.Page - 1
	}
	return 1
}

// NextPage returns the next page number, or the last page.
func (p PageInfo) NextPage() int {
	if p.HasNext() {
		return p.Page + 1
	}
	return p.TotalPages
}

// PageNumbers returns the page numbers to display in pagination controls.
// Shows at most 5 pages centered around the current page.
// PRE: PageInfo is valid
// POST: Returns slice of at most 5 page numbers centered on current page
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	start := p.Page - maxButtons/2
	if start < 1 {
		start = 1
	}
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - maxButtons + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination returns true if pagination controls should be displayed.
// PRE: PageInfo is valid
// POST: Returns true if there is more than one page
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}
