// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "strings"

// ListingPropertyTable represents the 'listing.property' table
type ListingPropertyTable struct {
	Table            string
	ID               string
	OwnerID          string
	Title            string
	Description      string
	PropertyType     string
	Status           string
	Address          string
	City             string
	State            string
	PostalCode       string
	Country          string
	Latitude         string
	Longitude        string
	Bedrooms         string
	Bathrooms        string
	SquareFeet       string
	RentPrice        string
	SecurityDeposit  string
	IsFurnished      string
	PetsAllowed      string
	ParkingAvailable string
	AvailableFrom    string
	ViewsCount       string
	IsFeatured       string
	CreatedAt        string
	UpdatedAt        string
}

// ListingProperty is the schema definition for listing.property
var ListingProperty = ListingPropertyTable{
	Table:            "listing.property",
	ID:               "id",
	OwnerID:          "ownerid",
	Title:            "title",
	Description:      "description",
	PropertyType:     "propertytype",
	Status:           "status",
	Address:          "address",
	City:             "city",
	State:            "state",
	PostalCode:       "postalcode",
	Country:          "country",
	Latitude:         "latitude",
	Longitude:        "longitude",
	Bedrooms:         "bedrooms",
	Bathrooms:        "bathrooms",
	SquareFeet:       "squarefeet",
	RentPrice:        "rentprice",
	SecurityDeposit:  "securitydeposit",
	IsFurnished:      "isfurnished",
	PetsAllowed:      "petsallowed",
	ParkingAvailable: "parkingavailable",
	AvailableFrom:    "availablefrom",
	ViewsCount:       "viewscount",
	IsFeatured:       "isfeatured",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
}

// Columns returns all standard column names
func (t ListingPropertyTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Title, t.Description, t.PropertyType, t.Status,
		t.Address, t.City, t.State, t.PostalCode, t.Country, t.Latitude,
		t.Longitude, t.Bedrooms, t.Bathrooms, t.SquareFeet, t.RentPrice,
		t.SecurityDeposit, t.IsFurnished, t.PetsAllowed, t.ParkingAvailable,
		t.AvailableFrom, t.ViewsCount, t.IsFeatured, t.CreatedAt, t.UpdatedAt,
	}
}

// Select returns the column list joined for a SELECT clause.
func (t ListingPropertyTable) Select() string {
	return strings.Join(t.Columns(), ", ")
}
