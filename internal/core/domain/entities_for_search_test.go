package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"defaults", PageRequest{}, PageRequest{Page: 1, PageSize: DefaultPageSize}},
		{"negative page", PageRequest{Page: -3, PageSize: 5}, PageRequest{Page: 1, PageSize: 5}},
		{"page size capped", PageRequest{Page: 2, PageSize: 1000}, PageRequest{Page: 2, PageSize: MaxPageSize}},
		{"kept as is", PageRequest{Page: 4, PageSize: 20}, PageRequest{Page: 4, PageSize: 20}},
		{"huge page clamped", PageRequest{Page: 1e17, PageSize: 100}, PageRequest{Page: MaxPage, PageSize: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalized())
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	req := PageRequest{Page: 2, PageSize: 12}
	assert.Equal(t, 12, req.Offset())
	assert.Equal(t, 12, req.Limit())
	assert.Equal(t, 0, PageRequest{Page: 1, PageSize: 12}.Offset())
}

func TestPageRequest_OffsetNeverOverflows(t *testing.T) {
	for _, page := range []int{1e17, math.MaxInt, MaxPage + 1} {
		offset := PageRequest{Page: page, PageSize: MaxPageSize}.Offset()
		assert.GreaterOrEqual(t, offset, 0, "page=%d", page)
		assert.LessOrEqual(t, offset, math.MaxInt32, "page=%d", page)
	}
	assert.Equal(t, 0, PageRequest{Page: 0, PageSize: 0}.Offset())
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total, page, size int
		totalPages        int
		next, prev        bool
	}{
		{total: 0, page: 1, size: 12, totalPages: 0, next: false, prev: false},
		{total: 12, page: 1, size: 12, totalPages: 1, next: false, prev: false},
		{total: 13, page: 1, size: 12, totalPages: 2, next: true, prev: false},
		{total: 13, page: 2, size: 12, totalPages: 2, next: false, prev: true},
		{total: 100, page: 5, size: 12, totalPages: 9, next: true, prev: true},
		{total: 5, page: 3, size: 12, totalPages: 1, next: false, prev: true},
	}
	for _, tt := range tests {
		p := NewPagination(PageRequest{Page: tt.page, PageSize: tt.size}, tt.total)
		assert.Equal(t, tt.totalPages, p.TotalPages, "total=%d size=%d", tt.total, tt.size)
		assert.Equal(t, tt.next, p.HasNextPage)
		assert.Equal(t, tt.prev, p.HasPrevPage)
		assert.Equal(t, tt.total, p.Total)
	}
}

func TestProperty_Normalize(t *testing.T) {
	lat, lng := 41.0082, 28.9784
	p := Property{Location: Location{Lat: &lat, Lng: &lng}}
	p.Normalize()

	assert.NotNil(t, p.Images)
	assert.NotNil(t, p.PanoramicImages)
	assert.Equal(t, StatusActive, p.Status)
	assert.Len(t, p.Location.Geohash, 7)
	assert.Equal(t, "sxk9", p.Location.Geohash[:4])

	noCoords := Property{Status: StatusSold}
	noCoords.Normalize()
	assert.Empty(t, noCoords.Location.Geohash)
	assert.Equal(t, StatusSold, noCoords.Status)
}

func TestSearchFilters_Validate(t *testing.T) {
	price := func(v float64) *float64 { return &v }

	assert.NoError(t, SearchFilters{}.Validate())
	assert.NoError(t, SearchFilters{MinPrice: price(100), MaxPrice: price(100)}.Validate())
	assert.ErrorIs(t, SearchFilters{MinPrice: price(-1)}.Validate(), ErrInvalidFilter)
	assert.ErrorIs(t, SearchFilters{MaxPrice: price(-1)}.Validate(), ErrInvalidFilter)
	assert.ErrorIs(t, SearchFilters{MinPrice: price(200), MaxPrice: price(100)}.Validate(), ErrInvalidFilter)
}

func TestSearchFilters_ValidateRejectsNonFinite(t *testing.T) {
	price := func(v float64) *float64 { return &v }

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.ErrorIs(t, SearchFilters{MinPrice: price(v)}.Validate(), ErrInvalidFilter, "min=%v", v)
		assert.ErrorIs(t, SearchFilters{MaxPrice: price(v)}.Validate(), ErrInvalidFilter, "max=%v", v)
	}
	assert.ErrorIs(t, SearchFilters{MinPrice: price(10), MaxPrice: price(math.NaN())}.Validate(), ErrInvalidFilter)
}
