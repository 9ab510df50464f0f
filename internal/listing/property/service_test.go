// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package property_test

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcalibur215/mmhub/internal/listing/property"
	"github.com/xcalibur215/mmhub/internal/platform/apperr"
	"github.com/xcalibur215/mmhub/internal/platform/dberr"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/pkg/geo"
	"github.com/xcalibur215/mmhub/pkg/pagination"
)

// memoryProperties is an in-memory [property.Repository].
type memoryProperties struct {
	mu         sync.Mutex
	properties map[string]*property.Property
	sequence   int
}

func newMemoryProperties() *memoryProperties {
	return &memoryProperties{properties: make(map[string]*property.Property)}
}

func (m *memoryProperties) Search(_ context.Context, filter property.Filter, page pagination.Params) ([]*property.Property, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []*property.Property
	for _, p := range m.properties {
		if p.Status != property.StatusAvailable {
			continue
		}
		if filter.Location != "" &&
			!strings.Contains(strings.ToLower(p.City), strings.ToLower(filter.Location)) &&
			!strings.Contains(strings.ToLower(p.State), strings.ToLower(filter.Location)) {
			continue
		}
		if filter.MinPrice != nil && p.RentPrice < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.RentPrice > *filter.MaxPrice {
			continue
		}
		if filter.Bedrooms != nil && p.Bedrooms < *filter.Bedrooms {
			continue
		}
		if filter.PropertyType != "" && p.PropertyType != filter.PropertyType {
			continue
		}
		if filter.Box != nil {
			point, ok := p.Point()
			if !ok || !filter.Box.Contains(point) {
				continue
			}
		}
		copied := *p
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })

	start, end := page.Window(len(matches))
	return matches[start:end], len(matches), nil
}

func (m *memoryProperties) FindByID(_ context.Context, id string) (*property.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.properties[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memoryProperties) ListByOwner(_ context.Context, ownerID string) ([]*property.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var owned []*property.Property
	for _, p := range m.properties {
		if p.OwnerID == ownerID {
			copied := *p
			owned = append(owned, &copied)
		}
	}
	return owned, nil
}

func (m *memoryProperties) Create(_ context.Context, p *property.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sequence++
	p.CreatedAt = time.Unix(int64(m.sequence), 0)
	copied := *p
	m.properties[p.ID] = &copied
	return nil
}

func (m *memoryProperties) Update(_ context.Context, id string, changes property.Changes) (*property.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.properties[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	if changes.Title != nil {
		p.Title = *changes.Title
	}
	if changes.Status != nil {
		p.Status = *changes.Status
	}
	if changes.RentPrice != nil {
		p.RentPrice = *changes.RentPrice
	}
	copied := *p
	return &copied, nil
}

func (m *memoryProperties) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.properties[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(m.properties, id)
	return nil
}

func ptr[T any](v T) *T { return &v }

var (
	landlord = &sec.Identity{ID: "0190b6d2-0000-7000-8000-00000000000a", Role: sec.RoleLandlord, Active: true}
	other    = &sec.Identity{ID: "0190b6d2-0000-7000-8000-00000000000b", Role: sec.RoleLandlord, Active: true}
	admin    = &sec.Identity{ID: "0190b6d2-0000-7000-8000-00000000000c", Role: sec.RoleAdmin, Active: true}
	tenant   = &sec.Identity{ID: "0190b6d2-0000-7000-8000-00000000000d", Role: sec.RoleUser, Active: true}
)

func listing(title, city string, rent float64, lat, lng float64) *property.Property {
	return &property.Property{
		Title:        title,
		PropertyType: property.TypeCondo,
		Address:      "1 Main Road",
		City:         city,
		State:        "Bangkok",
		PostalCode:   "10110",
		RentPrice:    rent,
		Bedrooms:     1,
		Latitude:     &lat,
		Longitude:    &lng,
	}
}

/*
TestService_Create verifies ownership, defaults and the publisher gate.
*/
func TestService_Create(t *testing.T) {
	service := property.NewService(newMemoryProperties())

	created, err := service.Create(context.Background(), landlord, listing(" Sukhumvit Condo ", "Bangkok", 15000, 13.73, 100.56))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, landlord.ID, created.OwnerID)
	assert.Equal(t, "Sukhumvit Condo", created.Title)
	assert.Equal(t, property.StatusAvailable, created.Status)
	assert.Equal(t, property.DefaultCountry, created.Country)

	_, err = service.Create(context.Background(), tenant, listing("Nope", "Bangkok", 1, 0, 0))
	assert.ErrorIs(t, err, sec.ErrForbidden)
}

/*
TestService_OwnerOrAdmin verifies that only the owner or an admin can edit or delete.
*/
func TestService_OwnerOrAdmin(t *testing.T) {
	service := property.NewService(newMemoryProperties())
	ctx := context.Background()

	created, err := service.Create(ctx, landlord, listing("Loft", "Bangkok", 20000, 13.7, 100.5))
	require.NoError(t, err)

	_, err = service.Update(ctx, other, created.ID, property.Changes{Title: ptr("Stolen")})
	assert.ErrorIs(t, err, sec.ErrForbidden)

	updated, err := service.Update(ctx, landlord, created.ID, property.Changes{RentPrice: ptr(18000.0)})
	require.NoError(t, err)
	assert.Equal(t, 18000.0, updated.RentPrice)

	updated, err = service.Update(ctx, admin, created.ID, property.Changes{Title: ptr("Admin Loft")})
	require.NoError(t, err)
	assert.Equal(t, "Admin Loft", updated.Title)

	assert.ErrorIs(t, service.Delete(ctx, other, created.ID), sec.ErrForbidden)
	require.NoError(t, service.Delete(ctx, landlord, created.ID))

	_, err = service.Get(ctx, created.ID)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

/*
TestService_RadiusSearch verifies that bounding-box corners outside the true
radius are dropped and results are ordered nearest first.
*/
func TestService_RadiusSearch(t *testing.T) {
	store := newMemoryProperties()
	service := property.NewService(store)
	ctx := context.Background()

	center := geo.Point{Lat: 13.7563, Lng: 100.5018}

	// About 1 km north, about 5 km east, and a box corner roughly 14 km away.
	_, err := service.Create(ctx, landlord, listing("Near", "Bangkok", 10000, 13.7653, 100.5018))
	require.NoError(t, err)
	_, err = service.Create(ctx, landlord, listing("Mid", "Bangkok", 12000, 13.7563, 100.5480))
	require.NoError(t, err)
	_, err = service.Create(ctx, landlord, listing("Corner", "Bangkok", 9000, 13.8463, 100.5944))
	require.NoError(t, err)

	results, meta, err := service.Search(ctx, property.Filter{
		Radius: &property.Radius{Center: center, Km: 10},
	}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Near", results[0].Title)
	assert.Equal(t, "Mid", results[1].Title)
	assert.Equal(t, 2, meta.Total)
	require.NotNil(t, results[0].DistanceKm)
	assert.InDelta(t, 1.0, *results[0].DistanceKm, 0.1)
}

/*
TestService_RadiusSearch_ManyCandidates verifies that every bounding-box
candidate is refined, not just the first store page.
*/
func TestService_RadiusSearch_ManyCandidates(t *testing.T) {
	store := newMemoryProperties()
	service := property.NewService(store)
	ctx := context.Background()

	const inside = 1203
	for i := range inside {
		p := listing(fmt.Sprintf("Unit %d", i), "Bangkok", 8000, 13.7563, 100.5018+float64(i%50)*0.0001)
		p.ID = fmt.Sprintf("inside-%04d", i)
		p.Status = property.StatusAvailable
		require.NoError(t, store.Create(ctx, p))
	}
	// Inside the box but about 14 km out, and created last.
	corner := listing("Corner", "Bangkok", 9000, 13.8463, 100.5944)
	corner.ID = "corner"
	corner.Status = property.StatusAvailable
	require.NoError(t, store.Create(ctx, corner))

	filter := property.Filter{Radius: &property.Radius{Center: geo.Point{Lat: 13.7563, Lng: 100.5018}, Km: 10}}

	results, meta, err := service.Search(ctx, filter, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, results, 20)
	assert.Equal(t, inside, meta.Total)

	last, _, err := service.Search(ctx, filter, pagination.Params{Page: 61, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, last, inside-60*20)
}

/*
TestService_SearchFilters verifies that unavailable listings are hidden.
*/
func TestService_SearchFilters(t *testing.T) {
	service := property.NewService(newMemoryProperties())
	ctx := context.Background()

	cheap, err := service.Create(ctx, landlord, listing("Cheap", "Chiang Mai", 5000, 18.79, 98.98))
	require.NoError(t, err)
	_, err = service.Create(ctx, landlord, listing("Pricey", "Bangkok", 50000, 13.7, 100.5))
	require.NoError(t, err)

	results, _, err := service.Search(ctx, property.Filter{MaxPrice: ptr(10000.0)}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, cheap.ID, results[0].ID)

	_, err = service.ChangeStatus(ctx, cheap.ID, property.StatusRented)
	require.NoError(t, err)

	results, meta, err := service.Search(ctx, property.Filter{Location: "chiang"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, meta.Total)

	mine, err := service.Mine(ctx, landlord)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
