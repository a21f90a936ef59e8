package usecases_port

import (
	"context"
	"property-service/internal/core/domain"
)

type FindPropertiesUseCase interface {
	Execute(ctx context.Context, filters domain.SearchFilters, page domain.PageRequest) (*domain.SearchResult, error)
}
