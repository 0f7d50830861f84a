// Package paging implements offset pagination for browse and admin lists.
// Callers pass a human-friendly 1-based page number; anything missing,
// malformed, or non-positive is treated as page 1.
package paging

import (
	"net/http"
	"strconv"
)

// PageSize is the fixed number of rows shown per page.
const PageSize = 20

// Limit returns PageSize as int64 for Mongo Find().SetLimit().
func Limit() int64 { return int64(PageSize) }

// ParsePage extracts the "page" query parameter. Returns 1 if absent or
// invalid.
func ParsePage(r *http.Request) int {
	return Clamp(r.URL.Query().Get("page"))
}

// Clamp parses a page string and clamps it to >= 1.
func Clamp(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Skip returns the number of documents to skip for the given 1-based page.
func Skip(page int) int64 {
	if page < 1 {
		page = 1
	}
	return int64(page-1) * int64(PageSize)
}

// Pages returns the total page count for the given document count. A count
// of zero still yields one (empty) page so templates always have a page to
// render.
func Pages(total int64) int {
	if total <= 0 {
		return 1
	}
	p := int((total + PageSize - 1) / PageSize)
	return p
}

// Nav holds the values a template needs to render pagination controls.
type Nav struct {
	Page    int
	Pages   int
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
}

// NewNav computes pagination controls for the given page and total count.
// The page is clamped into [1, Pages(total)].
func NewNav(page int, total int64) Nav {
	pages := Pages(total)
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	return Nav{
		Page:    page,
		Pages:   pages,
		HasPrev: page > 1,
		HasNext: page < pages,
		Prev:    page - 1,
		Next:    page + 1,
	}
}
