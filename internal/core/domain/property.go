package domain

import (
	"time"

	"github.com/mmcloughlin/geohash"
)

// Source - tier that produced a property
type Source string

const (
	SourceRelational   Source = "relational"
	SourceCountryShard Source = "country_shard"
	SourceLegacy       Source = "legacy"
)

const (
	TypeSale = "sale"
	TypeRent = "rent"
)

const (
	StatusActive  = "active"
	StatusPassive = "passive"
	StatusSold    = "sold"
	StatusRented  = "rented"
)

// geohash precision of ~150m cells, enough for neighbourhood grouping
const geohashPrecision = 7

// Property - canonical shape returned by every tier after mapping.
type Property struct {
	ID          string
	Slug        string
	Title       string
	Description string
	Price       float64
	Type        string
	Category    Category
	Location    Location
	Specs       Specs

	Images          []string // never nil
	PanoramicImages []string // never nil

	Agent Agent

	CreatedAt *time.Time
	UpdatedAt *time.Time

	Status    string
	ViewCount int64

	// StoreID is derived at read time from Agent and never persisted.
	StoreID string
	Source  Source
}

type Category struct {
	Main string
	Sub  string
}

type Location struct {
	Country      string
	City         string
	District     string
	Neighborhood string
	Address      string
	Lat          *float64
	Lng          *float64
	Geohash      string
}

// FillGeohash sets Geohash when both coordinates are present and valid.
func (l *Location) FillGeohash() {
	if l.Lat == nil || l.Lng == nil {
		l.Geohash = ""
		return
	}
	if *l.Lat < -90 || *l.Lat > 90 || *l.Lng < -180 || *l.Lng > 180 {
		l.Geohash = ""
		return
	}
	l.Geohash = geohash.EncodeWithPrecision(*l.Lat, *l.Lng, geohashPrecision)
}

type Specs struct {
	NetSize    *float64
	GrossSize  *float64
	Rooms      string
	Bathrooms  *int
	Age        *int
	Floor      string
	Heating    string
	Furnishing string
}

// Agent is denormalized on the listing, not a foreign key.
type Agent struct {
	Name    string
	Phone   string
	Email   string
	Photo   string
	Company string
}

func (a Agent) Identity() AgentIdentity {
	return AgentIdentity{
		Name:    a.Name,
		Company: a.Company,
		Email:   a.Email,
		Phone:   a.Phone,
	}
}

// Normalize enforces shape invariants shared by all tiers.
func (p *Property) Normalize() {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.PanoramicImages == nil {
		p.PanoramicImages = []string{}
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	p.Location.FillGeohash()
}

// ResolveHint - context supplied by the caller of resolution.
type ResolveHint struct {
	Countries []string
}
