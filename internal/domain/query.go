package domain

import "strings"

// Pagination bounds for task listing.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortField names a sortable task attribute. Only the constants below are
// ever used to choose an ORDER BY column.
type SortField string

// Sortable task fields.
const (
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
	SortByTitle     SortField = "title"
	SortByCompleted SortField = "completed"
)

// ParseSortField maps a request value to a SortField. Unrecognized values
// fall back to SortByCreatedAt.
func ParseSortField(s string) SortField {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case SortByTitle:
		return SortByTitle
	case SortByCompleted:
		return SortByCompleted
	case SortByUpdatedAt:
		return SortByUpdatedAt
	default:
		return SortByCreatedAt
	}
}

// SortOrder is the direction of a listing.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps a request value to a SortOrder, defaulting to SortDesc.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// StatusFilter restricts a listing by completion state.
type StatusFilter string

// Status filters. StatusAll applies no restriction.
const (
	StatusAll       StatusFilter = "all"
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// ParseStatusFilter maps a request value to a StatusFilter. Anything other
// than completed or pending means StatusAll.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case StatusCompleted:
		return StatusCompleted
	case StatusPending:
		return StatusPending
	default:
		return StatusAll
	}
}

// Completed returns the completion value to filter on, or nil for StatusAll.
func (f StatusFilter) Completed() *bool {
	var v bool
	switch f {
	case StatusCompleted:
		v = true
	case StatusPending:
		v = false
	default:
		return nil
	}
	return &v
}

// TaskFilter is the predicate shared by a listing's count and fetch.
type TaskFilter struct {
	// Search is matched as a substring of the title. Empty means no match filter.
	Search string
	Status StatusFilter
}

// TaskQuery describes one page of a filtered, sorted task listing.
type TaskQuery struct {
	Page      int
	PageSize  int
	SortBy    SortField
	SortOrder SortOrder
	Filter    TaskFilter
}

// Normalize applies defaults and clamps. Page 0 (or negative) becomes 1.
// A page size of 0 or above MaxPageSize becomes DefaultPageSize, not
// MaxPageSize.
func (q TaskQuery) Normalize() TaskQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		q.PageSize = DefaultPageSize
	}
	q.SortBy = ParseSortField(string(q.SortBy))
	q.SortOrder = ParseSortOrder(string(q.SortOrder))
	q.Filter.Search = strings.TrimSpace(q.Filter.Search)
	q.Filter.Status = ParseStatusFilter(string(q.Filter.Status))
	return q
}

// Offset returns the number of rows skipped before this page.
func (q TaskQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Pagination is the metadata returned alongside a page of results.
type Pagination struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int64 `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewPagination computes page metadata. TotalPages is at least 1 even when
// there are no items.
func NewPagination(page, pageSize int, totalItems int64) Pagination {
	totalPages := int64(1)
	if pageSize > 0 && totalItems > 0 {
		totalPages = (totalItems + int64(pageSize) - 1) / int64(pageSize)
	}
	return Pagination{
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNext:     int64(page) < totalPages,
		HasPrevious: page > 1,
	}
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Data       []Task     `json:"data"`
	Pagination Pagination `json:"pagination"`
}
