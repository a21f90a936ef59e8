package usecase

import (
	"context"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"property-service/internal/core/slug"
)

// ResolvePropertyUseCase walks the lookup tiers in priority order and returns the first hit.
type ResolvePropertyUseCase struct {
	lookups     []port.PropertyLookupPort
	viewCounter port.ViewCounterPort
	stores      port.StoreDirectoryPort
}

// NewResolvePropertyUseCase - viewCounter and stores may be nil.
func NewResolvePropertyUseCase(lookups []port.PropertyLookupPort, viewCounter port.ViewCounterPort, stores port.StoreDirectoryPort) *ResolvePropertyUseCase {
	return &ResolvePropertyUseCase{
		lookups:     lookups,
		viewCounter: viewCounter,
		stores:      stores,
	}
}

func (uc *ResolvePropertyUseCase) Execute(ctx context.Context, slugOrID string, hint domain.ResolveHint) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ResolveProperty",
		"slug":     slugOrID,
	})

	key, err := slug.Normalize(slugOrID)
	if err != nil {
		ucLogger.Warn("Slug could not be decoded, comparing raw value", port.Fields{"error": err.Error()})
	}

	ucLogger.Debug("Use case started", port.Fields{
		"decoded":    key.Decoded,
		"numeric_id": key.NumericID,
		"countries":  hint.Countries,
	})

	for _, lookup := range uc.lookups {
		tierLogger := ucLogger.WithFields(port.Fields{"tier": lookup.Name()})

		property, err := lookup.Lookup(ctx, key, hint)
		if err != nil {
			// a failing tier is a miss, the next one still gets a chance
			tierLogger.Error("Lookup tier failed, falling through", err, nil)
			continue
		}
		if property == nil {
			tierLogger.Debug("No match in tier", nil)
			continue
		}

		property.Normalize()

		if property.Source == domain.SourceRelational {
			uc.recordView(ctx, tierLogger, property)
		}
		uc.enrichStore(ctx, tierLogger, property)

		tierLogger.Info("Property resolved", port.Fields{"property_id": property.ID})
		return property, nil
	}

	ucLogger.Info("Property not found in any tier", nil)
	return nil, domain.ErrPropertyNotFound
}

func (uc *ResolvePropertyUseCase) recordView(ctx context.Context, logger port.LoggerPort, property *domain.Property) {
	if uc.viewCounter == nil {
		return
	}
	if err := uc.viewCounter.RecordView(ctx, property.ID); err != nil {
		logger.Warn("Failed to record property view", port.Fields{
			"property_id": property.ID,
			"error":       err.Error(),
		})
		return
	}
	property.ViewCount++
}

func (uc *ResolvePropertyUseCase) enrichStore(ctx context.Context, logger port.LoggerPort, property *domain.Property) {
	if uc.stores == nil {
		return
	}
	identity := property.Agent.Identity()
	if identity.IsEmpty() {
		return
	}

	store, err := uc.stores.FindStoreByAgent(ctx, identity)
	if err != nil {
		logger.Warn("Store lookup failed, leaving storeId empty", port.Fields{"error": err.Error()})
		return
	}
	if store != nil {
		property.StoreID = store.ID
	}
}
