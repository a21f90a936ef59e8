package usecases_port

import (
	"context"
	"property-service/internal/core/domain"
)

type GetLocationFacetsUseCase interface {
	Execute(ctx context.Context, propertyType string) (*domain.LocationFacets, error)
}
