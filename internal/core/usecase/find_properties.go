package usecase

import (
	"context"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
)

type FindPropertiesUseCase struct {
	storage port.PropertySearchPort
}

func NewFindPropertiesUseCase(storage port.PropertySearchPort) *FindPropertiesUseCase {
	return &FindPropertiesUseCase{storage: storage}
}

func (uc *FindPropertiesUseCase) Execute(ctx context.Context, filters domain.SearchFilters, page domain.PageRequest) (*domain.SearchResult, error) {
	page = page.Normalized()

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "FindProperties",
		"filters":   filters,
		"page":      page.Page,
		"page_size": page.PageSize,
	})

	ucLogger.Info("Use case started", nil)

	if err := filters.Validate(); err != nil {
		ucLogger.Warn("Rejected search filters", port.Fields{"error": err.Error()})
		return nil, err
	}

	result, err := uc.storage.FindWithFilters(ctx, filters, page)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	for i := range result.Items {
		result.Items[i].Normalize()
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.Pagination.Total,
		"items_on_page": len(result.Items),
	})

	return result, nil
}
