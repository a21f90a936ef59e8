package dataset

import (
	"bytes"
	"encoding/json"
	"math"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"sort"
	"strconv"
	"strings"
	"time"
)

// fixtureRecord - camelCase record shape shared by country shards and the legacy archive.
// Every field decodes leniently: a value of the wrong shape becomes empty and is reported by malformedFields.
type fixtureRecord struct {
	ID              flexString                  `json:"id"`
	Slug            flexString                  `json:"slug"`
	Title           flexString                  `json:"title"`
	Description     flexString                  `json:"description"`
	Price           flexFloat                   `json:"price"`
	Type            flexString                  `json:"type"`
	Category        fixtureCategory             `json:"category"`
	Location        flexObject[fixtureLocation] `json:"location"`
	Specs           flexObject[fixtureSpecs]    `json:"specs"`
	Images          flexList                    `json:"images"`
	PanoramicImages flexList                    `json:"panoramicImages"`
	Agent           flexObject[fixtureAgent]    `json:"agent"`
	CreatedAt       flexString                  `json:"createdAt"`
	UpdatedAt       flexString                  `json:"updatedAt"`
	Status          flexString                  `json:"status"`
	ViewCount       flexInt                     `json:"viewCount"`
}

type fixtureCoordinates struct {
	Lat flexFloat `json:"lat"`
	Lng flexFloat `json:"lng"`
}

type fixtureLocation struct {
	Country      flexString                     `json:"country"`
	City         flexString                     `json:"city"`
	District     flexString                     `json:"district"`
	Neighborhood flexString                     `json:"neighborhood"`
	Address      flexString                     `json:"address"`
	Lat          flexFloat                      `json:"lat"`
	Lng          flexFloat                      `json:"lng"`
	Coordinates  flexObject[fixtureCoordinates] `json:"coordinates"`
}

type fixtureSpecs struct {
	NetSize    flexFloat  `json:"netSize"`
	GrossSize  flexFloat  `json:"grossSize"`
	Rooms      flexString `json:"rooms"`
	Bathrooms  flexInt    `json:"bathrooms"`
	Age        flexInt    `json:"age"`
	Floor      flexString `json:"floor"`
	Heating    flexString `json:"heating"`
	Furnishing flexString `json:"furnishing"`
}

type fixtureAgent struct {
	Name    flexString `json:"name"`
	Phone   flexString `json:"phone"`
	Email   flexString `json:"email"`
	Photo   flexString `json:"photo"`
	Company flexString `json:"company"`
}

func isNull(data []byte) bool {
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

// fixtureCategory accepts {"main": ..., "sub": ...} or a bare string naming the main category.
type fixtureCategory struct {
	Main      flexString `json:"main"`
	Sub       flexString `json:"sub"`
	malformed bool
}

func (c *fixtureCategory) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &c.Main)
	case '{':
		type plain fixtureCategory
		return json.Unmarshal(data, (*plain)(c))
	}
	c.malformed = true
	return nil
}

// flexString accepts a JSON string or number, anything else leaves it empty.
type flexString struct {
	value     string
	malformed bool
}

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &s.value)
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		s.malformed = true
		return nil
	}
	s.value = num.String()
	return nil
}

func (s flexString) String() string {
	return s.value
}

// flexFloat accepts a finite JSON number or a numeric string.
type flexFloat struct {
	value     *float64
	malformed bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			f.malformed = true
			return nil
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		f.malformed = true
		return nil
	}
	f.value = &v
	return nil
}

// flexInt accepts a whole JSON number or a string holding one, e.g. 2, 2.0 or "2".
type flexInt struct {
	flexFloat
}

func (i *flexInt) UnmarshalJSON(data []byte) error {
	if err := i.flexFloat.UnmarshalJSON(data); err != nil {
		return err
	}
	if v := i.flexFloat.value; v != nil && (*v != math.Trunc(*v) || math.Abs(*v) > math.MaxInt32) {
		i.flexFloat = flexFloat{malformed: true}
	}
	return nil
}

func (i flexInt) intValue() *int {
	if i.value == nil {
		return nil
	}
	v := int(*i.value)
	return &v
}

// flexObject decodes T from a JSON object, anything else leaves it unset.
type flexObject[T any] struct {
	value     *T
	malformed bool
}

func (o *flexObject[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return nil
	}
	if data[0] != '{' {
		o.malformed = true
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		o.malformed = true
		return nil
	}
	o.value = &v
	return nil
}

// flexList accepts a JSON array of strings or a string holding a JSON-encoded array.
// Anything else decodes to an empty list with malformed set.
type flexList struct {
	values    []string
	malformed bool
}

func (l *flexList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return nil
	}

	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			l.malformed = true
			return nil
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			return nil
		}
		data = []byte(encoded)
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		l.malformed = true
		return nil
	}
	l.values = values
	return nil
}

func (l flexList) list() []string {
	if l.values == nil {
		return []string{}
	}
	return l.values
}

var fixtureTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func parseFixtureTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range fixtureTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// malformedFields names every field that was present but could not be used.
func (r *fixtureRecord) malformedFields() []string {
	flags := map[string]bool{
		"id":              r.ID.malformed,
		"slug":            r.Slug.malformed,
		"title":           r.Title.malformed,
		"description":     r.Description.malformed,
		"price":           r.Price.malformed || (r.Price.value != nil && *r.Price.value < 0),
		"type":            r.Type.malformed,
		"category":        r.Category.malformed || r.Category.Main.malformed || r.Category.Sub.malformed,
		"location":        r.Location.malformed,
		"specs":           r.Specs.malformed,
		"images":          r.Images.malformed,
		"panoramicImages": r.PanoramicImages.malformed,
		"agent":           r.Agent.malformed,
		"status":          r.Status.malformed,
		"viewCount":       r.ViewCount.malformed || (r.ViewCount.value != nil && *r.ViewCount.value < 0),
	}
	flags["createdAt"] = r.CreatedAt.malformed || (r.CreatedAt.value != "" && parseFixtureTime(r.CreatedAt.value) == nil)
	flags["updatedAt"] = r.UpdatedAt.malformed || (r.UpdatedAt.value != "" && parseFixtureTime(r.UpdatedAt.value) == nil)
	if loc := r.Location.value; loc != nil {
		flags["location.lat"] = loc.Lat.malformed
		flags["location.lng"] = loc.Lng.malformed
		flags["location.coordinates"] = loc.Coordinates.malformed
	}
	if specs := r.Specs.value; specs != nil {
		flags["specs.netSize"] = specs.NetSize.malformed
		flags["specs.grossSize"] = specs.GrossSize.malformed
		flags["specs.bathrooms"] = specs.Bathrooms.malformed
		flags["specs.age"] = specs.Age.malformed
		flags["specs.rooms"] = specs.Rooms.malformed
		flags["specs.floor"] = specs.Floor.malformed
	}

	var fields []string
	for name, bad := range flags {
		if bad {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}

// toDomain maps a fixture record into the canonical property for the given source.
func (r *fixtureRecord) toDomain(source domain.Source, logger port.LoggerPort) domain.Property {
	p := domain.Property{
		ID:          r.ID.String(),
		Slug:        r.Slug.String(),
		Title:       r.Title.String(),
		Description: r.Description.String(),
		Type:        r.Type.String(),
		Category:    domain.Category{Main: r.Category.Main.String(), Sub: r.Category.Sub.String()},
		Images:      r.Images.list(),
		CreatedAt:   parseFixtureTime(r.CreatedAt.String()),
		UpdatedAt:   parseFixtureTime(r.UpdatedAt.String()),
		Status:      r.Status.String(),
		Source:      source,
	}
	p.PanoramicImages = r.PanoramicImages.list()

	if v := r.Price.value; v != nil && *v >= 0 {
		p.Price = *v
	}
	if v := r.ViewCount.intValue(); v != nil && *v >= 0 {
		p.ViewCount = int64(*v)
	}

	if loc := r.Location.value; loc != nil {
		p.Location = domain.Location{
			Country:      loc.Country.String(),
			City:         loc.City.String(),
			District:     loc.District.String(),
			Neighborhood: loc.Neighborhood.String(),
			Address:      loc.Address.String(),
			Lat:          loc.Lat.value,
			Lng:          loc.Lng.value,
		}
		if coords := loc.Coordinates.value; coords != nil && (p.Location.Lat == nil || p.Location.Lng == nil) {
			p.Location.Lat = coords.Lat.value
			p.Location.Lng = coords.Lng.value
		}
	}

	if specs := r.Specs.value; specs != nil {
		p.Specs = domain.Specs{
			NetSize:    specs.NetSize.value,
			GrossSize:  specs.GrossSize.value,
			Rooms:      specs.Rooms.String(),
			Bathrooms:  specs.Bathrooms.intValue(),
			Age:        specs.Age.intValue(),
			Floor:      specs.Floor.String(),
			Heating:    specs.Heating.String(),
			Furnishing: specs.Furnishing.String(),
		}
	}

	if agent := r.Agent.value; agent != nil {
		p.Agent = domain.Agent{
			Name:    agent.Name.String(),
			Phone:   agent.Phone.String(),
			Email:   agent.Email.String(),
			Photo:   agent.Photo.String(),
			Company: agent.Company.String(),
		}
	}

	if fields := r.malformedFields(); len(fields) > 0 {
		logger.Warn("Fixture record has malformed fields, using empty values", port.Fields{
			"property_id": p.ID,
			"slug":        p.Slug,
			"fields":      fields,
		})
	}

	p.Normalize()
	return p
}
