package rest

import (
	"property-service/internal/core/domain"
	"time"
)

// PropertyResponse - camelCase representation shared by list and detail endpoints.
type PropertyResponse struct {
	ID              string           `json:"id"`
	Slug            string           `json:"slug"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Price           float64          `json:"price"`
	Type            string           `json:"type"`
	Category        CategoryResponse `json:"category"`
	Location        LocationResponse `json:"location"`
	Specs           SpecsResponse    `json:"specs"`
	Images          []string         `json:"images"`
	PanoramicImages []string         `json:"panoramicImages"`
	Agent           AgentResponse    `json:"agent"`
	CreatedAt       *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time       `json:"updatedAt,omitempty"`
	Status          string           `json:"status"`
	ViewCount       int64            `json:"viewCount"`
	StoreID         string           `json:"storeId,omitempty"`
	Source          string           `json:"source"`
}

type CategoryResponse struct {
	Main string `json:"main"`
	Sub  string `json:"sub,omitempty"`
}

type LocationResponse struct {
	Country      string   `json:"country"`
	City         string   `json:"city"`
	District     string   `json:"district,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Address      string   `json:"address,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
	Geohash      string   `json:"geohash,omitempty"`
}

type SpecsResponse struct {
	NetSize    *float64 `json:"netSize,omitempty"`
	GrossSize  *float64 `json:"grossSize,omitempty"`
	Rooms      string   `json:"rooms,omitempty"`
	Bathrooms  *int     `json:"bathrooms,omitempty"`
	Age        *int     `json:"age,omitempty"`
	Floor      string   `json:"floor,omitempty"`
	Heating    string   `json:"heating,omitempty"`
	Furnishing string   `json:"furnishing,omitempty"`
}

type AgentResponse struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Photo   string `json:"photo,omitempty"`
	Company string `json:"company,omitempty"`
}

type PaginationResponse struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type SearchResponse struct {
	Items      []PropertyResponse `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
}

type CountryOptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type LocationsResponse struct {
	Countries []CountryOptionResponse `json:"countries"`
	Cities    map[string][]string     `json:"cities"`
	Districts map[string][]string     `json:"districts"`
}

func toPropertyResponse(p domain.Property) PropertyResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	panoramic := p.PanoramicImages
	if panoramic == nil {
		panoramic = []string{}
	}

	return PropertyResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Type:        p.Type,
		Category:    CategoryResponse{Main: p.Category.Main, Sub: p.Category.Sub},
		Location: LocationResponse{
			Country:      p.Location.Country,
			City:         p.Location.City,
			District:     p.Location.District,
			Neighborhood: p.Location.Neighborhood,
			Address:      p.Location.Address,
			Lat:          p.Location.Lat,
			Lng:          p.Location.Lng,
			Geohash:      p.Location.Geohash,
		},
		Specs: SpecsResponse{
			NetSize:    p.Specs.NetSize,
			GrossSize:  p.Specs.GrossSize,
			Rooms:      p.Specs.Rooms,
			Bathrooms:  p.Specs.Bathrooms,
			Age:        p.Specs.Age,
			Floor:      p.Specs.Floor,
			Heating:    p.Specs.Heating,
			Furnishing: p.Specs.Furnishing,
		},
		Images:          images,
		PanoramicImages: panoramic,
		Agent: AgentResponse{
			Name:    p.Agent.Name,
			Phone:   p.Agent.Phone,
			Email:   p.Agent.Email,
			Photo:   p.Agent.Photo,
			Company: p.Agent.Company,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Status:    p.Status,
		ViewCount: p.ViewCount,
		StoreID:   p.StoreID,
		Source:    string(p.Source),
	}
}

func toSearchResponse(result *domain.SearchResult) SearchResponse {
	items := make([]PropertyResponse, len(result.Items))
	for i, p := range result.Items {
		items[i] = toPropertyResponse(p)
	}
	pg := result.Pagination
	return SearchResponse{
		Items: items,
		Pagination: PaginationResponse{
			Page:        pg.Page,
			PageSize:    pg.PageSize,
			Total:       pg.Total,
			TotalPages:  pg.TotalPages,
			HasNextPage: pg.HasNextPage,
			HasPrevPage: pg.HasPrevPage,
		},
	}
}

func toLocationsResponse(facets *domain.LocationFacets) LocationsResponse {
	countries := make([]CountryOptionResponse, len(facets.Countries))
	for i, c := range facets.Countries {
		countries[i] = CountryOptionResponse{Value: c.Value, Label: c.Label}
	}
	cities := facets.Cities
	if cities == nil {
		cities = map[string][]string{}
	}
	districts := facets.Districts
	if districts == nil {
		districts = map[string][]string{}
	}
	return LocationsResponse{
		Countries: countries,
		Cities:    cities,
		Districts: districts,
	}
}
