// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package property manages rental listings.

Listings are publicly searchable while available; landlords, agents and
admins publish them, and only the owner or an admin may change one.

# Search

Radius search is two-phase: the store narrows candidates with a latitude /
longitude bounding box, then the service drops anything outside the true
great-circle radius.
*/
package property

import (
	"context"
	"time"

	"github.com/xcalibur215/mmhub/pkg/geo"
	"github.com/xcalibur215/mmhub/pkg/pagination"
)

// # Enumerations

// Type classifies a listing.
type Type string

const (
	TypeApartment  Type = "apartment"
	TypeHouse      Type = "house"
	TypeCondo      Type = "condo"
	TypeTownhouse  Type = "townhouse"
	TypeStudio     Type = "studio"
	TypeRoom       Type = "room"
	TypeCommercial Type = "commercial"
)

// Types lists every valid [Type].
var Types = []Type{TypeApartment, TypeHouse, TypeCondo, TypeTownhouse, TypeStudio, TypeRoom, TypeCommercial}

// Status is the availability of a listing.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusRented      Status = "rented"
	StatusPending     Status = "pending"
	StatusMaintenance Status = "maintenance"
	StatusInactive    Status = "inactive"
)

// Statuses lists every valid [Status].
var Statuses = []Status{StatusAvailable, StatusRented, StatusPending, StatusMaintenance, StatusInactive}

// TypeStrings returns [Types] as plain strings for validators.
func TypeStrings() []string {
	out := make([]string, len(Types))
	for i, t := range Types {
		out[i] = string(t)
	}
	return out
}

// StatusStrings returns [Statuses] as plain strings for validators.
func StatusStrings() []string {
	out := make([]string, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}

// # Domain Entities

// Property is one rental listing.
type Property struct {
	ID               string     `json:"id"`
	OwnerID          string     `json:"owner_id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	PropertyType     Type       `json:"property_type"`
	Status           Status     `json:"status"`
	Address          string     `json:"address"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	PostalCode       string     `json:"postal_code"`
	Country          string     `json:"country"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	Bedrooms         int        `json:"bedrooms"`
	Bathrooms        float64    `json:"bathrooms"`
	SquareFeet       *int       `json:"square_feet"`
	RentPrice        float64    `json:"rent_price"`
	SecurityDeposit  *float64   `json:"security_deposit"`
	IsFurnished      bool       `json:"is_furnished"`
	PetsAllowed      bool       `json:"pets_allowed"`
	ParkingAvailable bool       `json:"parking_available"`
	AvailableFrom    *time.Time `json:"available_from"`
	ViewsCount       int        `json:"views_count"`
	IsFeatured       bool       `json:"is_featured"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// DistanceKm is set only on radius searches.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// Point returns the listing's coordinate, or false when it has none.
func (p *Property) Point() (geo.Point, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *p.Latitude, Lng: *p.Longitude}, true
}

// # Search

// Radius restricts a search to a circle around Center.
type Radius struct {
	Center geo.Point
	Km     float64
}

// Filter holds the optional search criteria. Nil or empty means unfiltered.
type Filter struct {
	Location     string
	MinPrice     *float64
	MaxPrice     *float64
	Bedrooms     *int
	Bathrooms    *float64
	PropertyType Type
	Radius       *Radius

	// Box is derived from Radius by the service before the store is queried.
	Box *geo.Box
}

// # Change Sets

// Changes holds every owner-editable field. Nil means unchanged.
type Changes struct {
	Title            *string
	Description      *string
	PropertyType     *Type
	Status           *Status
	Address          *string
	City             *string
	State            *string
	PostalCode       *string
	Country          *string
	Latitude         *float64
	Longitude        *float64
	Bedrooms         *int
	Bathrooms        *float64
	SquareFeet       *int
	RentPrice        *float64
	SecurityDeposit  *float64
	IsFurnished      *bool
	PetsAllowed      *bool
	ParkingAvailable *bool
	AvailableFrom    *time.Time
}

// # Repository Contracts

// Repository defines the persistence contract for listings.
type Repository interface {
	/*
		Search returns available listings matching filter, newest first.

		Description: Only filter.Box is applied for radius searches; the
		caller refines by distance.

		Returns:
		  - []*Property: The matches
		  - int: Total matches before paging
		  - error: Storage failures
	*/
	Search(context context.Context, filter Filter, page pagination.Params) ([]*Property, int, error)

	// FindByID returns one listing or dberr.ErrNotFound.
	FindByID(context context.Context, id string) (*Property, error)

	// ListByOwner returns every listing owned by ownerID, newest first.
	ListByOwner(context context.Context, ownerID string) ([]*Property, error)

	// Create persists a new listing.
	Create(context context.Context, property *Property) error

	// Update applies changes and returns the stored result.
	Update(context context.Context, id string, changes Changes) (*Property, error)

	// Delete removes one listing.
	Delete(context context.Context, id string) error
}
