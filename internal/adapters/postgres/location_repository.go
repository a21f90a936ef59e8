package postgres

import (
	"context"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationRepository struct {
	pool *pgxpool.Pool
}

func NewLocationRepository(pool *pgxpool.Pool) (*LocationRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &LocationRepository{pool: pool}, nil
}

// GetActiveLocations returns distinct (country, city, district) triples of active listings.
func (a *LocationRepository) GetActiveLocations(ctx context.Context, propertyType string) ([]domain.LocationRow, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "LocationRepository",
		"method":    "GetActiveLocations",
	})

	query, args := buildLocationsQuery(propertyType)

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to query active locations", err, port.Fields{"query": query})
		return nil, unavailable("failed to query active locations", err)
	}
	defer rows.Close()

	result := make([]domain.LocationRow, 0)
	for rows.Next() {
		var row domain.LocationRow
		if err := rows.Scan(&row.Country, &row.City, &row.District); err != nil {
			return nil, unavailable("failed to scan location", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("failed to iterate locations", err)
	}

	repoLogger.Debug("Active locations loaded", port.Fields{"rows": len(result)})
	return result, nil
}
