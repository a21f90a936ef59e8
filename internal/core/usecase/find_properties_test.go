package usecase

import (
	"context"
	"errors"
	"fmt"
	"property-service/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listings(n int) []domain.Property {
	properties := make([]domain.Property, 0, n)
	for i := 1; i <= n; i++ {
		status := domain.StatusActive
		if i%5 == 0 {
			status = domain.StatusSold
		}
		propertyType := domain.TypeRent
		if i%3 == 0 {
			propertyType = domain.TypeSale
		}
		properties = append(properties, domain.Property{
			ID:       fmt.Sprint(i),
			Type:     propertyType,
			Status:   status,
			Price:    float64(i * 1000),
			Location: domain.Location{City: "İstanbul"},
		})
	}
	return properties
}

func TestFindProperties_PagesCoverActiveSetExactlyOnce(t *testing.T) {
	storage := &fakeSearch{properties: listings(53)}
	uc := NewFindPropertiesUseCase(storage)

	seen := make(map[string]int)
	first, err := uc.Execute(context.Background(), domain.SearchFilters{}, domain.PageRequest{Page: 1, PageSize: 7})
	require.NoError(t, err)

	total := 0
	for page := 1; page <= first.Pagination.TotalPages; page++ {
		result, err := uc.Execute(context.Background(), domain.SearchFilters{}, domain.PageRequest{Page: page, PageSize: 7})
		require.NoError(t, err)

		assert.Equal(t, page < result.Pagination.TotalPages, result.Pagination.HasNextPage)
		assert.Equal(t, page > 1, result.Pagination.HasPrevPage)

		for _, p := range result.Items {
			assert.Equal(t, domain.StatusActive, p.Status)
			assert.NotNil(t, p.Images)
			seen[p.ID]++
		}
		total += len(result.Items)
	}

	assert.Equal(t, first.Pagination.Total, total)
	for id, count := range seen {
		assert.Equal(t, 1, count, "property %s appeared on more than one page", id)
	}
}

func TestFindProperties_SecondPageOfFilteredSet(t *testing.T) {
	storage := &fakeSearch{properties: listings(80)}
	uc := NewFindPropertiesUseCase(storage)

	filters := domain.SearchFilters{Type: domain.TypeRent, City: "İstanbul", MinPrice: floatPtr(10000)}
	result, err := uc.Execute(context.Background(), filters, domain.PageRequest{Page: 2, PageSize: 12})
	require.NoError(t, err)

	require.Len(t, result.Items, 12)
	for _, p := range result.Items {
		assert.Equal(t, domain.TypeRent, p.Type)
		assert.Equal(t, "İstanbul", p.Location.City)
		assert.GreaterOrEqual(t, p.Price, 10000.0)
		assert.Equal(t, domain.StatusActive, p.Status)
	}
	assert.True(t, result.Pagination.HasPrevPage)
}

func TestFindProperties_NormalizesPageRequest(t *testing.T) {
	storage := &fakeSearch{properties: listings(3)}
	uc := NewFindPropertiesUseCase(storage)

	result, err := uc.Execute(context.Background(), domain.SearchFilters{}, domain.PageRequest{Page: 0, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, domain.DefaultPageSize, result.Pagination.PageSize)
}

func TestFindProperties_PropagatesErrors(t *testing.T) {
	uc := NewFindPropertiesUseCase(&fakeSearch{err: domain.ErrDataSourceUnavailable})

	result, err := uc.Execute(context.Background(), domain.SearchFilters{}, domain.PageRequest{})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrDataSourceUnavailable)
}

func TestFindProperties_RejectsInvertedPriceRange(t *testing.T) {
	uc := NewFindPropertiesUseCase(&fakeSearch{err: errors.New("storage must not be called")})

	filters := domain.SearchFilters{MinPrice: floatPtr(500), MaxPrice: floatPtr(100)}
	result, err := uc.Execute(context.Background(), filters, domain.PageRequest{})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}
