package postgres

import (
	"context"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PropertySearchAdapter implements PropertySearchPort on top of the properties table.
type PropertySearchAdapter struct {
	pool *pgxpool.Pool
}

func NewPropertySearchAdapter(pool *pgxpool.Pool) (*PropertySearchAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PropertySearchAdapter{pool: pool}, nil
}

// FindWithFilters runs the count and the page query inside one read-only
// snapshot so the total always describes the rows that were paged.
func (a *PropertySearchAdapter) FindWithFilters(ctx context.Context, filters domain.SearchFilters, page domain.PageRequest) (*domain.SearchResult, error) {
	page = page.Normalized()

	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PropertySearchAdapter",
		"method":    "FindWithFilters",
		"page":      page.Page,
		"page_size": page.PageSize,
	})

	queries := buildSearchQueries(filters, page)

	tx, err := a.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, unavailable("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var total int64
	if err := tx.QueryRow(ctx, queries.countQuery, queries.countArgs...).Scan(&total); err != nil {
		repoLogger.Error("Failed to count properties with filters", err, port.Fields{"query": queries.countQuery})
		return nil, unavailable("failed to count properties", err)
	}

	items := make([]domain.Property, 0, page.PageSize)
	if total > 0 {
		rows, err := tx.Query(ctx, queries.pageQuery, queries.pageArgs...)
		if err != nil {
			repoLogger.Error("Failed to query properties page", err, port.Fields{"query": queries.pageQuery})
			return nil, unavailable("failed to query properties page", err)
		}
		defer rows.Close()

		for rows.Next() {
			row, err := scanPropertyRow(rows)
			if err != nil {
				return nil, unavailable("failed to scan property", err)
			}
			items = append(items, row.toDomain(repoLogger))
		}
		if err := rows.Err(); err != nil {
			return nil, unavailable("failed to iterate properties", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, unavailable("failed to commit transaction", err)
	}

	repoLogger.Debug("Properties page loaded", port.Fields{"total": total, "count": len(items)})

	return &domain.SearchResult{
		Items:      items,
		Pagination: domain.NewPagination(page, int(total)),
	}, nil
}

func unavailable(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, domain.ErrDataSourceUnavailable, err)
}
