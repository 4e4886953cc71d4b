// Package query holds the filter, sort and paging machinery shared by the
// booking, hotel and country listings. A Spec is built once per request and
// can be rendered as a SQL WHERE/ORDER BY pair or evaluated in memory.
package query

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageParams selects a 1-based page.
type PageParams struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// Normalize clamps the page to sane bounds: page >= 1, 1 <= size <= MaxPageSize.
func (p PageParams) Normalize() PageParams {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset is the number of rows to skip. It saturates at math.MaxInt so a
// huge page number reads past the end instead of wrapping negative.
func (p PageParams) Offset() int {
	p = p.Normalize()
	if p.PageNumber-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.PageNumber - 1) * p.PageSize
}

// Metadata describes where a page sits in the filtered set.
type Metadata struct {
	CurrentPage int  `json:"currentPage"`
	PageSize    int  `json:"pageSize"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// NewMetadata computes paging metadata for total matching rows.
func NewMetadata(p PageParams, total int) Metadata {
	p = p.Normalize()
	pages := (total + p.PageSize - 1) / p.PageSize
	return Metadata{
		CurrentPage: p.PageNumber,
		PageSize:    p.PageSize,
		TotalCount:  total,
		TotalPages:  pages,
		HasNext:     p.PageNumber < pages,
		HasPrevious: p.PageNumber > 1,
	}
}

// Paged is one page of items with its metadata.
type Paged[T any] struct {
	Data     []T      `json:"data"`
	Metadata Metadata `json:"metadata"`
}

// NewPaged wraps items fetched for p out of total matches.
func NewPaged[T any](items []T, p PageParams, total int) Paged[T] {
	if items == nil {
		items = []T{}
	}
	return Paged[T]{Data: items, Metadata: NewMetadata(p, total)}
}

// MapPaged projects every item, keeping the metadata.
func MapPaged[T, K any](p Paged[T], f func(T) K) Paged[K] {
	out := make([]K, 0, len(p.Data))
	for _, it := range p.Data {
		out = append(out, f(it))
	}
	return Paged[K]{Data: out, Metadata: p.Metadata}
}
