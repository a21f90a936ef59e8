package dataset

import (
	"context"
	"errors"
	"fmt"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"property-service/internal/core/slug"
	"strings"
)

// CountryLookup - tier over per-country shards. Without a hint it scans the default countries.
type CountryLookup struct {
	reader           port.CountryDatasetPort
	defaultCountries []string
}

func NewCountryLookup(reader port.CountryDatasetPort, defaultCountries []string) *CountryLookup {
	return &CountryLookup{
		reader:           reader,
		defaultCountries: defaultCountries,
	}
}

func (l *CountryLookup) Name() string { return "country_shard" }

// Lookup keeps scanning when a shard fails; the errors surface only if nothing matched.
func (l *CountryLookup) Lookup(ctx context.Context, key slug.Key, hint domain.ResolveHint) (*domain.Property, error) {
	countries := hint.Countries
	if len(countries) == 0 {
		countries = l.defaultCountries
	}

	var errs []error
	seen := make(map[string]struct{}, len(countries))
	for _, code := range countries {
		code = strings.ToUpper(strings.TrimSpace(code))
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}

		shard, err := l.reader.LoadShard(ctx, code)
		if err != nil {
			errs = append(errs, fmt.Errorf("shard %s: %w", code, err))
			continue
		}

		if p := findBySlug(shard, key); p != nil {
			return p, nil
		}
		if p := findByID(shard, key); p != nil {
			return p, nil
		}
	}

	return nil, errors.Join(errs...)
}

// LegacyLookup - last tier over the legacy archive.
type LegacyLookup struct {
	reader port.LegacyDatasetPort
}

func NewLegacyLookup(reader port.LegacyDatasetPort) *LegacyLookup {
	return &LegacyLookup{reader: reader}
}

func (l *LegacyLookup) Name() string { return "legacy_archive" }

// Lookup precedence: decoded slug, raw slug, then the trailing numeric ID.
func (l *LegacyLookup) Lookup(ctx context.Context, key slug.Key, _ domain.ResolveHint) (*domain.Property, error) {
	archive, err := l.reader.LoadLegacy(ctx)
	if err != nil {
		return nil, err
	}

	if p := findBySlug(archive, key); p != nil {
		return p, nil
	}
	for i := range archive {
		if key.Raw != "" && archive[i].Slug == key.Raw {
			return &archive[i], nil
		}
	}
	return findByID(archive, key), nil
}

func findBySlug(properties []domain.Property, key slug.Key) *domain.Property {
	if key.Decoded == "" {
		return nil
	}
	for i := range properties {
		if properties[i].Slug != "" && strings.ToLower(slug.Decode(properties[i].Slug)) == key.Lower {
			return &properties[i]
		}
	}
	return nil
}

func findByID(properties []domain.Property, key slug.Key) *domain.Property {
	if !key.HasNumericID() {
		return nil
	}
	for i := range properties {
		if properties[i].ID == key.NumericID {
			return &properties[i]
		}
	}
	return nil
}
