package usecase

import (
	"context"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var countryLabels = map[string]string{
	"TR": "Türkiye",
	"DE": "Almanya",
	"GB": "Birleşik Krallık",
	"US": "Amerika Birleşik Devletleri",
	"AE": "Birleşik Arap Emirlikleri",
	"CY": "Kıbrıs",
	"GR": "Yunanistan",
	"ES": "İspanya",
	"NL": "Hollanda",
	"FR": "Fransa",
}

type GetLocationFacetsUseCase struct {
	storage port.LocationRepositoryPort
	locale  language.Tag
}

func NewGetLocationFacetsUseCase(storage port.LocationRepositoryPort, locale string) (*GetLocationFacetsUseCase, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid facets locale %q: %w", locale, err)
	}
	return &GetLocationFacetsUseCase{storage: storage, locale: tag}, nil
}

func (uc *GetLocationFacetsUseCase) Execute(ctx context.Context, propertyType string) (*domain.LocationFacets, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetLocationFacets",
		"type":     propertyType,
	})

	rows, err := uc.storage.GetActiveLocations(ctx, propertyType)
	if err != nil {
		ucLogger.Error("Failed to load active locations", err, nil)
		return nil, err
	}

	facets := uc.build(rows)

	ucLogger.Info("Location facets built", port.Fields{
		"rows":      len(rows),
		"countries": len(facets.Countries),
		"cities":    len(facets.Cities),
	})
	return facets, nil
}

func (uc *GetLocationFacetsUseCase) build(rows []domain.LocationRow) *domain.LocationFacets {
	countries := make(map[string]struct{})
	cities := make(map[string]map[string]struct{})
	districts := make(map[string]map[string]struct{})

	for _, row := range rows {
		country := clean(row.Country)
		city := clean(row.City)
		district := clean(row.District)

		if country == "" {
			continue
		}
		countries[country] = struct{}{}

		if city == "" {
			continue
		}
		addTo(cities, country, city)

		if district == "" {
			continue
		}
		addTo(districts, city, district)
	}

	// collator is not safe for concurrent use, one per build
	collator := collate.New(uc.locale, collate.IgnoreCase)

	result := &domain.LocationFacets{
		Countries: make([]domain.CountryOption, 0, len(countries)),
		Cities:    make(map[string][]string, len(cities)),
		Districts: make(map[string][]string, len(districts)),
	}

	for country := range countries {
		result.Countries = append(result.Countries, domain.CountryOption{
			Value: country,
			Label: countryLabel(country),
		})
	}
	sortCountries(collator, result.Countries)

	for country, set := range cities {
		result.Cities[country] = sortedValues(collator, set)
	}
	for city, set := range districts {
		result.Districts[city] = sortedValues(collator, set)
	}

	return result
}

func clean(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func addTo(index map[string]map[string]struct{}, key, value string) {
	set, ok := index[key]
	if !ok {
		set = make(map[string]struct{})
		index[key] = set
	}
	set[value] = struct{}{}
}

func sortedValues(collator *collate.Collator, set map[string]struct{}) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	collator.SortStrings(values)
	return values
}

func sortCountries(collator *collate.Collator, countries []domain.CountryOption) {
	sort.SliceStable(countries, func(i, j int) bool {
		return collator.CompareString(countries[i].Label, countries[j].Label) < 0
	})
}

func countryLabel(value string) string {
	if label, ok := countryLabels[strings.ToUpper(value)]; ok {
		return label
	}
	return value
}
