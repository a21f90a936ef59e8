package postgres

import (
	"context"
	"errors"
	"fmt"
	"property-service/internal/core/domain"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const minPhoneDigits = 7

// Matches are ranked: email, phone, exact company, exact agent name, partial company.
const findStoreQuery = `
	SELECT id::text, COALESCE(name, ''), COALESCE(slug, '')
	FROM stores
	WHERE ($1 <> '' AND LOWER(email) = LOWER($1))
	   OR ($2 <> '' AND regexp_replace(COALESCE(phone, ''), '\D', '', 'g') = $2)
	   OR ($3 <> '' AND (LOWER(name) = LOWER($3) OR name ILIKE '%' || $4 || '%'))
	   OR ($5 <> '' AND LOWER(name) = LOWER($5))
	ORDER BY
		CASE
			WHEN $1 <> '' AND LOWER(email) = LOWER($1) THEN 0
			WHEN $2 <> '' AND regexp_replace(COALESCE(phone, ''), '\D', '', 'g') = $2 THEN 1
			WHEN $3 <> '' AND LOWER(name) = LOWER($3) THEN 2
			WHEN $5 <> '' AND LOWER(name) = LOWER($5) THEN 3
			ELSE 4
		END,
		id ASC
	LIMIT 1`

// StoreDirectory looks up the store an agent belongs to.
type StoreDirectory struct {
	pool *pgxpool.Pool
}

func NewStoreDirectory(pool *pgxpool.Pool) (*StoreDirectory, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &StoreDirectory{pool: pool}, nil
}

func (d *StoreDirectory) FindStoreByAgent(ctx context.Context, identity domain.AgentIdentity) (*domain.Store, error) {
	if identity.IsEmpty() {
		return nil, nil
	}

	args := storeMatchArgs(identity)

	var store domain.Store
	err := d.pool.QueryRow(ctx, findStoreQuery, args...).Scan(&store.ID, &store.Name, &store.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("failed to find store by agent", err)
	}
	return &store, nil
}

func storeMatchArgs(identity domain.AgentIdentity) []interface{} {
	phone := digitsOnly(identity.Phone)
	if len(phone) < minPhoneDigits {
		phone = ""
	}
	company := strings.TrimSpace(identity.Company)

	return []interface{}{
		strings.TrimSpace(identity.Email),
		phone,
		company,
		escapeLike(company),
		strings.TrimSpace(identity.Name),
	}
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
