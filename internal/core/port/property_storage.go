package port

import (
	"context"
	"property-service/internal/core/domain"
)

type PropertySearchPort interface {
	FindWithFilters(ctx context.Context, filters domain.SearchFilters, page domain.PageRequest) (*domain.SearchResult, error)
}

type LocationRepositoryPort interface {
	GetActiveLocations(ctx context.Context, propertyType string) ([]domain.LocationRow, error)
}

// ViewCounterPort increments the view counter of a relational property by one.
type ViewCounterPort interface {
	RecordView(ctx context.Context, propertyID string) error
}

// StoreDirectoryPort returns (nil, nil) when no store matches.
type StoreDirectoryPort interface {
	FindStoreByAgent(ctx context.Context, identity domain.AgentIdentity) (*domain.Store, error)
}
