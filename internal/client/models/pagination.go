package models

import "fmt"

// Pagination is the page descriptor attached to list responses.
//
// The client treats these values as authoritative. NewPagination is the one
// place where they are computed, for the mock backend.
type Pagination struct {
	Page       int  `json:"page" validate:"gte=1"`
	Limit      int  `json:"limit" validate:"gte=1"`
	Total      int  `json:"total" validate:"gte=0"`
	TotalPages int  `json:"totalPages" validate:"gte=0"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination builds a descriptor for page of size limit over total items.
// A non-positive page is treated as 1 and a non-positive limit as 1.
func NewPagination(page, limit, total int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if total < 0 {
		total = 0
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Offset is the zero-based index of the first item on the page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Range returns the one-based indexes of the first and last items shown.
// Both are zero when the page holds nothing.
func (p Pagination) Range() (first, last int) {
	if p.Total <= 0 || p.Limit <= 0 || p.Page > p.Total/p.Limit+1 {
		return 0, 0
	}
	first = p.Offset() + 1
	if first > p.Total {
		return 0, 0
	}
	last = p.Page * p.Limit
	if last > p.Total {
		last = p.Total
	}
	return first, last
}

// RangeText renders the "Showing A to B of N results" caption.
func (p Pagination) RangeText() string {
	first, last := p.Range()
	return fmt.Sprintf("Showing %d to %d of %d results", first, last, p.Total)
}
