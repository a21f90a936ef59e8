package postgres

import (
	"context"
	"errors"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"property-service/internal/core/slug"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PropertyRepository reads single properties and maintains their view counters.
type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) (*PropertyRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PropertyRepository{pool: pool}, nil
}

// FindBySlug compares slugs case-insensitively. Returns (nil, nil) on a miss.
func (r *PropertyRepository) FindBySlug(ctx context.Context, decodedSlug string) (*domain.Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE LOWER(slug) = LOWER($1) LIMIT 1", propertyColumns)
	return r.findOne(ctx, "FindBySlug", query, decodedSlug)
}

// FindByID matches the textual form of the primary key. Returns (nil, nil) on a miss.
func (r *PropertyRepository) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id::text = $1 LIMIT 1", propertyColumns)
	return r.findOne(ctx, "FindByID", query, id)
}

func (r *PropertyRepository) findOne(ctx context.Context, method, query string, arg interface{}) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PropertyRepository",
		"method":    method,
	})

	row, err := scanPropertyRow(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		repoLogger.Error("Failed to query property", err, nil)
		return nil, unavailable("failed to query property", err)
	}

	property := row.toDomain(repoLogger)
	return &property, nil
}

// RecordView increments view_count atomically in the database, concurrent views never lose increments.
func (r *PropertyRepository) RecordView(ctx context.Context, propertyID string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE properties SET view_count = COALESCE(view_count, 0) + 1 WHERE id::text = $1", propertyID)
	if err != nil {
		return unavailable("failed to increment view count", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("view count not updated for property %s: %w", propertyID, domain.ErrPropertyNotFound)
	}
	return nil
}

type propertyFinder interface {
	FindBySlug(ctx context.Context, decodedSlug string) (*domain.Property, error)
	FindByID(ctx context.Context, id string) (*domain.Property, error)
}

// SlugLookup - relational tier keyed by the decoded slug.
type SlugLookup struct {
	finder propertyFinder
}

func NewSlugLookup(finder propertyFinder) *SlugLookup {
	return &SlugLookup{finder: finder}
}

func (l *SlugLookup) Name() string { return "relational_slug" }

func (l *SlugLookup) Lookup(ctx context.Context, key slug.Key, _ domain.ResolveHint) (*domain.Property, error) {
	if key.Decoded == "" {
		return nil, nil
	}
	return l.finder.FindBySlug(ctx, key.Decoded)
}

// IDLookup - relational tier keyed by the trailing numeric segment of the slug.
// The segment may belong to an unrelated record, e.g. "garden-flat-42" can resolve id 42.
type IDLookup struct {
	finder propertyFinder
}

func NewIDLookup(finder propertyFinder) *IDLookup {
	return &IDLookup{finder: finder}
}

func (l *IDLookup) Name() string { return "relational_id" }

func (l *IDLookup) Lookup(ctx context.Context, key slug.Key, _ domain.ResolveHint) (*domain.Property, error) {
	if !key.HasNumericID() {
		return nil, nil
	}
	return l.finder.FindByID(ctx, key.NumericID)
}
