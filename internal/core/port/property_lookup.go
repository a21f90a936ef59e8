package port

import (
	"context"
	"property-service/internal/core/domain"
	"property-service/internal/core/slug"
)

// PropertyLookupPort - one tier of the resolution chain.
// A miss is (nil, nil); an error means the tier could not be consulted.
type PropertyLookupPort interface {
	Name() string
	Lookup(ctx context.Context, key slug.Key, hint domain.ResolveHint) (*domain.Property, error)
}
