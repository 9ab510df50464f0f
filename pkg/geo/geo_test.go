// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xcalibur215/mmhub/pkg/geo"
)

var (
	bangkok    = geo.Point{Lat: 13.7563, Lng: 100.5018}
	chiangMai  = geo.Point{Lat: 18.7883, Lng: 98.9853}
	nonthaburi = geo.Point{Lat: 13.8621, Lng: 100.5144}
)

/*
TestDistance checks known city-to-city distances.
*/
func TestDistance(t *testing.T) {
	assert.InDelta(t, 0, geo.Distance(bangkok, bangkok), 1e-9)
	assert.InDelta(t, 580, geo.Distance(bangkok, chiangMai), 10)
	assert.InDelta(t, geo.Distance(bangkok, chiangMai), geo.Distance(chiangMai, bangkok), 1e-9)
}

/*
TestBoundingBox verifies the box encloses nearby points and excludes far ones.
*/
func TestBoundingBox(t *testing.T) {
	box := geo.BoundingBox(bangkok, 20)

	assert.True(t, box.Contains(bangkok))
	assert.True(t, box.Contains(nonthaburi))
	assert.False(t, box.Contains(chiangMai))
}

/*
TestBoundingBox_Clamps verifies clamping at the poles and the antimeridian.
*/
func TestBoundingBox_Clamps(t *testing.T) {
	box := geo.BoundingBox(geo.Point{Lat: 89.9, Lng: 179.9}, 100)

	assert.Equal(t, 90.0, box.MaxLat)
	assert.Equal(t, 180.0, box.MaxLng)
}

/*
TestPoint_Validate covers coordinate range checks.
*/
func TestPoint_Validate(t *testing.T) {
	assert.NoError(t, bangkok.Validate())
	assert.ErrorIs(t, geo.Point{Lat: 91}.Validate(), geo.ErrLatitudeRange)
	assert.ErrorIs(t, geo.Point{Lng: -181}.Validate(), geo.ErrLongitudeRange)
	assert.ErrorIs(t, geo.Point{Lat: math.NaN()}.Validate(), geo.ErrLatitudeRange)
	assert.ErrorIs(t, geo.Point{Lng: math.Inf(1)}.Validate(), geo.ErrLongitudeRange)
}
