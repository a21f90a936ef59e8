package domain

// LocationRow - one distinct (country, city, district) combination; any part may be nil.
type LocationRow struct {
	Country  *string
	City     *string
	District *string
}

type CountryOption struct {
	Value string
	Label string
}

// LocationFacets - country -> city -> district tree for search filters
type LocationFacets struct {
	Countries []CountryOption
	Cities    map[string][]string // keyed by country
	Districts map[string][]string // keyed by city
}
