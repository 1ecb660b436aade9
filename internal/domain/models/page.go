package models

import (
	"net/url"
	"strconv"

	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/validator"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filters holds free-form list criteria keyed by the upstream query parameter
// name (search, status, min_rating, date). Sentinel values ("all", "any",
// empty) are kept in the map so a view can show them, but never sent.
type Filters map[string]string

// With returns a copy of f with key set to value.
func (f Filters) With(key, value string) Filters {
	out := make(Filters, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[key] = value
	return out
}

// Encode adds every non-sentinel filter to q.
func (f Filters) Encode(q url.Values) {
	for k, v := range f {
		if types.IsSentinel(v) {
			continue
		}
		q.Set(k, v)
	}
}

// Pagination is the page a caller asks for.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func NewPagination(page, pageSize int) Pagination {
	p := Pagination{Page: page, PageSize: pageSize}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

func (p Pagination) Validate(v *validator.Validator) {
	// Check that the page and page_size parameters contain sensible values.
	v.Check(p.Page > 0, "page", "must be greater than zero")
	v.Check(p.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(p.PageSize > 0, "page_size", "must be greater than zero")
	v.Check(p.PageSize <= MaxPageSize, "page_size", "must be a maximum of 100")
}

// Encode writes the paging parameters under the names an endpoint expects.
// Paging is always sent, even for page 1.
func (p Pagination) Encode(q url.Values, pageKey, sizeKey string) {
	q.Set(pageKey, strconv.Itoa(p.Page))
	q.Set(sizeKey, strconv.Itoa(p.PageSize))
}

// PageState describes where a fetched page sits in the full result set.
type PageState struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// ComputePageState fills whatever the server left out. totalPages <= 0 means
// the server did not send it and it is derived by rounding up, so 45 records
// with a page size of 20 gives 3 pages. The requested page is kept as is:
// clamping belongs to navigation.
func ComputePageState(p Pagination, totalCount, totalPages int) PageState {
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if totalCount < 0 {
		totalCount = 0
	}
	if totalPages <= 0 {
		totalPages = totalCount / p.PageSize
		if totalCount%p.PageSize != 0 {
			totalPages++
		}
	}
	return PageState{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// Clamp bounds a requested page to [1, TotalPages]. An empty result set has
// a single (empty) page.
func (s PageState) Clamp(page int) int {
	last := max(s.TotalPages, 1)
	return min(max(page, 1), last)
}

func (s PageState) HasNext() bool { return s.Page < s.TotalPages }
func (s PageState) HasPrev() bool { return s.Page > 1 }

// ListResult is one normalized page of records.
type ListResult[T any] struct {
	Items []T       `json:"items"`
	Page  PageState `json:"page"`
}
