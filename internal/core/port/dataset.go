package port

import (
	"context"
	"property-service/internal/core/domain"
)

// CountryDatasetPort reads one per-country shard. A missing shard is an empty list.
type CountryDatasetPort interface {
	LoadShard(ctx context.Context, countryCode string) ([]domain.Property, error)
}

type LegacyDatasetPort interface {
	LoadLegacy(ctx context.Context) ([]domain.Property, error)
}
