package usecase

import (
	"context"
	"errors"
	"property-service/internal/core/domain"
	"property-service/internal/core/slug"
)

var errStoreDown = errors.New("connection refused")

type fakeLookup struct {
	name   string
	result func(key slug.Key, hint domain.ResolveHint) (*domain.Property, error)
	calls  int
}

func (f *fakeLookup) Name() string { return f.name }

func (f *fakeLookup) Lookup(_ context.Context, key slug.Key, hint domain.ResolveHint) (*domain.Property, error) {
	f.calls++
	return f.result(key, hint)
}

type fakeViewCounter struct {
	err   error
	views map[string]int
}

func (f *fakeViewCounter) RecordView(_ context.Context, propertyID string) error {
	if f.err != nil {
		return f.err
	}
	if f.views == nil {
		f.views = make(map[string]int)
	}
	f.views[propertyID]++
	return nil
}

type fakeStoreDirectory struct {
	store *domain.Store
	err   error
	seen  []domain.AgentIdentity
}

func (f *fakeStoreDirectory) FindStoreByAgent(_ context.Context, identity domain.AgentIdentity) (*domain.Store, error) {
	f.seen = append(f.seen, identity)
	return f.store, f.err
}

type fakeLocations struct {
	rows     []domain.LocationRow
	err      error
	lastType string
}

func (f *fakeLocations) GetActiveLocations(_ context.Context, propertyType string) ([]domain.LocationRow, error) {
	f.lastType = propertyType
	return f.rows, f.err
}

// fakeSearch filters an in-memory list the same way the SQL predicate does.
type fakeSearch struct {
	properties []domain.Property
	err        error
}

func (f *fakeSearch) FindWithFilters(_ context.Context, filters domain.SearchFilters, page domain.PageRequest) (*domain.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	var matched []domain.Property
	for _, p := range f.properties {
		if p.Status != domain.StatusActive {
			continue
		}
		if filters.Type != "" && p.Type != filters.Type {
			continue
		}
		if filters.City != "" && p.Location.City != filters.City {
			continue
		}
		if filters.MinPrice != nil && p.Price < *filters.MinPrice {
			continue
		}
		if filters.MaxPrice != nil && p.Price > *filters.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}

	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit()
	if end > len(matched) {
		end = len(matched)
	}

	return &domain.SearchResult{
		Items:      append([]domain.Property{}, matched[start:end]...),
		Pagination: domain.NewPagination(page, len(matched)),
	}, nil
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
