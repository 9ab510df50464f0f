// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package geo provides great-circle distance and bounding-box helpers for
// radius searches over latitude/longitude pairs.
package geo

import (
	"errors"
	"math"
)

const (
	// EarthRadiusKm is the mean Earth radius used by [Distance].
	EarthRadiusKm = 6371.0

	// kmPerDegree is the approximate length of one degree of latitude.
	kmPerDegree = 111.0
)

// Point is a coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Box is an axis-aligned latitude/longitude rectangle.
type Box struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
}

var (
	// ErrLatitudeRange is returned for latitudes outside [-90, 90].
	ErrLatitudeRange = errors.New("geo: latitude must be between -90 and 90 degrees")

	// ErrLongitudeRange is returned for longitudes outside [-180, 180].
	ErrLongitudeRange = errors.New("geo: longitude must be between -180 and 180 degrees")
)

// Validate reports whether p is a valid coordinate. NaN fails both checks.
func (p Point) Validate() error {
	if !(p.Lat >= -90 && p.Lat <= 90) {
		return ErrLatitudeRange
	}
	if !(p.Lng >= -180 && p.Lng <= 180) {
		return ErrLongitudeRange
	}
	return nil
}

// Distance returns the haversine distance between a and b in kilometres.
func Distance(a, b Point) float64 {
	lat1, lat2 := toRadians(a.Lat), toRadians(b.Lat)
	dLat := lat2 - lat1
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// BoundingBox returns a rectangle enclosing every point within radiusKm of
// center, clamped to valid coordinate ranges. It is a coarse pre-filter;
// callers refine with [Distance].
func BoundingBox(center Point, radiusKm float64) Box {
	latDelta := radiusKm / kmPerDegree

	// Longitude degrees shrink towards the poles.
	lngDelta := 180.0
	if cosLat := math.Cos(toRadians(center.Lat)); cosLat > 1e-9 {
		lngDelta = radiusKm / (kmPerDegree * cosLat)
	}

	return Box{
		MinLat: math.Max(-90, center.Lat-latDelta),
		MaxLat: math.Min(90, center.Lat+latDelta),
		MinLng: math.Max(-180, center.Lng-lngDelta),
		MaxLng: math.Min(180, center.Lng+lngDelta),
	}
}

// Contains reports whether p lies inside the box (inclusive).
func (b Box) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
