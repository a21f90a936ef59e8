package domain

import (
	"fmt"
	"math"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
	// MaxPage keeps OFFSET inside a Postgres int4 for any page size
	MaxPage = math.MaxInt32 / MaxPageSize
)

// SearchFilters - all filters are optional and conjunctive.
type SearchFilters struct {
	Type     string
	Country  string
	City     string
	District string
	MinPrice *float64
	MaxPrice *float64
	Search   string
}

// Validate rejects non-finite, negative or inverted price bounds.
func (f SearchFilters) Validate() error {
	if f.MinPrice != nil && !isFinite(*f.MinPrice) {
		return fmt.Errorf("%w: minPrice must be a finite number", ErrInvalidFilter)
	}
	if f.MaxPrice != nil && !isFinite(*f.MaxPrice) {
		return fmt.Errorf("%w: maxPrice must be a finite number", ErrInvalidFilter)
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return fmt.Errorf("%w: minPrice must not be negative", ErrInvalidFilter)
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return fmt.Errorf("%w: maxPrice must not be negative", ErrInvalidFilter)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf("%w: minPrice is greater than maxPrice", ErrInvalidFilter)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type PageRequest struct {
	Page     int
	PageSize int
}

// Normalized clamps page to [1, MaxPage] and page size to (0, MaxPageSize].
func (r PageRequest) Normalized() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Page > MaxPage {
		r.Page = MaxPage
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	return r
}

func (r PageRequest) Limit() int {
	return r.Normalized().PageSize
}

// Offset is computed on the normalized request and never overflows.
func (r PageRequest) Offset() int {
	n := r.Normalized()
	return (n.Page - 1) * n.PageSize
}

type Pagination struct {
	Page        int
	PageSize    int
	Total       int
	TotalPages  int
	HasNextPage bool
	HasPrevPage bool
}

// NewPagination expects an already normalized request.
func NewPagination(req PageRequest, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + req.PageSize - 1) / req.PageSize
	}
	return Pagination{
		Page:        req.Page,
		PageSize:    req.PageSize,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: req.Page < totalPages,
		HasPrevPage: req.Page > 1,
	}
}

type SearchResult struct {
	Items      []Property
	Pagination Pagination
}
