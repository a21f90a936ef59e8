package postgres

import (
	"encoding/json"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const propertyColumns = `id::text, slug, title, description, price::float8, type, category, sub_category,
	country, city, district, neighborhood, address, lat::float8, lng::float8,
	net_size::float8, gross_size::float8, rooms, bathrooms, building_age, floor, heating, furnishing,
	images::text, panoramic_images::text,
	agent_name, agent_phone, agent_email, agent_photo, agent_company,
	status, view_count, created_at, updated_at`

// propertyRow mirrors the snake_case columns of the properties table; every column is nullable.
type propertyRow struct {
	ID          string
	Slug        *string
	Title       *string
	Description *string
	Price       *float64
	Type        *string
	Category    *string
	SubCategory *string

	Country      *string
	City         *string
	District     *string
	Neighborhood *string
	Address      *string
	Lat          *float64
	Lng          *float64

	NetSize     *float64
	GrossSize   *float64
	Rooms       *string
	Bathrooms   *int
	BuildingAge *int
	Floor       *string
	Heating     *string
	Furnishing  *string

	Images          *string
	PanoramicImages *string

	AgentName    *string
	AgentPhone   *string
	AgentEmail   *string
	AgentPhoto   *string
	AgentCompany *string

	Status    *string
	ViewCount *int64
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

func scanPropertyRow(row pgx.Row) (*propertyRow, error) {
	var r propertyRow
	err := row.Scan(
		&r.ID, &r.Slug, &r.Title, &r.Description, &r.Price, &r.Type, &r.Category, &r.SubCategory,
		&r.Country, &r.City, &r.District, &r.Neighborhood, &r.Address, &r.Lat, &r.Lng,
		&r.NetSize, &r.GrossSize, &r.Rooms, &r.Bathrooms, &r.BuildingAge, &r.Floor, &r.Heating, &r.Furnishing,
		&r.Images, &r.PanoramicImages,
		&r.AgentName, &r.AgentPhone, &r.AgentEmail, &r.AgentPhoto, &r.AgentCompany,
		&r.Status, &r.ViewCount, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// toDomain maps a relational row into the canonical property.
func (r *propertyRow) toDomain(logger port.LoggerPort) domain.Property {
	p := domain.Property{
		ID:          r.ID,
		Slug:        deref(r.Slug),
		Title:       deref(r.Title),
		Description: deref(r.Description),
		Type:        deref(r.Type),
		Category: domain.Category{
			Main: deref(r.Category),
			Sub:  deref(r.SubCategory),
		},
		Location: domain.Location{
			Country:      deref(r.Country),
			City:         deref(r.City),
			District:     deref(r.District),
			Neighborhood: deref(r.Neighborhood),
			Address:      deref(r.Address),
			Lat:          r.Lat,
			Lng:          r.Lng,
		},
		Specs: domain.Specs{
			NetSize:    r.NetSize,
			GrossSize:  r.GrossSize,
			Rooms:      deref(r.Rooms),
			Bathrooms:  r.Bathrooms,
			Age:        r.BuildingAge,
			Floor:      deref(r.Floor),
			Heating:    deref(r.Heating),
			Furnishing: deref(r.Furnishing),
		},
		Agent: domain.Agent{
			Name:    deref(r.AgentName),
			Phone:   deref(r.AgentPhone),
			Email:   deref(r.AgentEmail),
			Photo:   deref(r.AgentPhoto),
			Company: deref(r.AgentCompany),
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Status:    deref(r.Status),
		Source:    domain.SourceRelational,
	}

	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.ViewCount != nil {
		p.ViewCount = *r.ViewCount
	}

	p.Images = parseJSONList(r.Images, logger.WithFields(port.Fields{"column": "images", "property_id": r.ID}))
	p.PanoramicImages = parseJSONList(r.PanoramicImages, logger.WithFields(port.Fields{"column": "panoramic_images", "property_id": r.ID}))

	p.Normalize()
	return p
}

// parseJSONList decodes a JSON-encoded text column; anything unparsable becomes an empty list.
func parseJSONList(raw *string, logger port.LoggerPort) []string {
	if raw == nil {
		return []string{}
	}
	value := strings.TrimSpace(*raw)
	if value == "" || value == "null" {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		logger.Warn("Failed to parse JSON list column, using empty list", port.Fields{"error": err.Error()})
		return []string{}
	}
	if list == nil {
		return []string{}
	}
	return list
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
