// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package property

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
	"github.com/xcalibur215/mmhub/internal/platform/ctxutil"
	"github.com/xcalibur215/mmhub/internal/platform/dberr"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/pkg/geo"
	"github.com/xcalibur215/mmhub/pkg/normalize"
	"github.com/xcalibur215/mmhub/pkg/pagination"
	"github.com/xcalibur215/mmhub/pkg/uuid"
)

const (
	// DefaultCountry is stored when a listing omits its country.
	DefaultCountry = "Thailand"

	// MaxRadiusKm bounds radius searches.
	MaxRadiusKm = 100.0

	// radiusBatch is how many bounding-box rows are read per store call.
	radiusBatch = 500
)

// Service implements listing use cases.
type Service struct {
	properties Repository
}

// NewService constructs a new [Service].
func NewService(properties Repository) *Service {
	return &Service{properties: properties}
}

/*
Search lists available properties.

Description: Without a radius the store pages directly. With one, every
bounding-box candidate is read in batches, refined by haversine distance,
ordered nearest first and paged here, so Meta.Total counts all matches.

Returns:
  - []*Property: One page
  - pagination.Meta: Paging metadata
  - error: Storage failures
*/
func (service *Service) Search(context context.Context, filter Filter, page pagination.Params) ([]*Property, pagination.Meta, error) {
	if filter.Radius == nil {
		properties, total, err := service.properties.Search(context, filter, page)
		if err != nil {
			return nil, pagination.Meta{}, fmt.Errorf("property_service_search_failed: %w", err)
		}
		return properties, pagination.NewMeta(page.Page, page.Limit, total), nil
	}

	box := geo.BoundingBox(filter.Radius.Center, filter.Radius.Km)
	filter.Box = &box

	candidates, err := service.boxCandidates(context, filter)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("property_service_radius_search_failed: %w", err)
	}

	within := make([]*Property, 0, len(candidates))
	for _, candidate := range candidates {
		point, ok := candidate.Point()
		if !ok {
			continue
		}
		distance := geo.Distance(filter.Radius.Center, point)
		if distance <= filter.Radius.Km {
			candidate.DistanceKm = &distance
			within = append(within, candidate)
		}
	}
	sort.SliceStable(within, func(i, j int) bool { return *within[i].DistanceKm < *within[j].DistanceKm })

	start, end := page.Window(len(within))
	return within[start:end], pagination.NewMeta(page.Page, page.Limit, len(within)), nil
}

// boxCandidates reads every listing inside filter.Box, one batch at a time.
func (service *Service) boxCandidates(context context.Context, filter Filter) ([]*Property, error) {
	var candidates []*Property
	for batch := 1; ; batch++ {
		rows, total, err := service.properties.Search(context, filter, pagination.Params{Page: batch, Limit: radiusBatch})
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, rows...)
		if len(rows) < radiusBatch || len(candidates) >= total {
			return candidates, nil
		}
	}
}

/*
Get returns one listing by ID.
*/
func (service *Service) Get(context context.Context, id string) (*Property, error) {
	property, err := service.properties.FindByID(context, id)
	if err != nil {
		return nil, translate(err)
	}
	return property, nil
}

/*
Mine returns every listing owned by the caller, in any status.
*/
func (service *Service) Mine(context context.Context, caller *sec.Identity) ([]*Property, error) {
	properties, err := service.properties.ListByOwner(context, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("property_service_list_mine_failed: %w", err)
	}
	if properties == nil {
		properties = []*Property{}
	}
	return properties, nil
}

/*
Create publishes a new listing owned by the caller.

Parameters:
  - context: context.Context
  - caller: *sec.Identity (must be a landlord, agent or admin)
  - draft: *Property (validated fields; ID, owner and counters are assigned here)

Returns:
  - *Property: The stored listing
  - error: sec.ErrForbidden for other roles
*/
func (service *Service) Create(context context.Context, caller *sec.Identity, draft *Property) (*Property, error) {
	if _, err := sec.Authorize(caller, sec.ListingManagers...); err != nil {
		return nil, err
	}

	draft.ID = uuid.New()
	draft.OwnerID = caller.ID
	draft.Title = normalize.Text(draft.Title)
	draft.ViewsCount = 0
	draft.IsFeatured = false
	if draft.Status == "" {
		draft.Status = StatusAvailable
	}
	if draft.Country == "" {
		draft.Country = DefaultCountry
	}

	if err := service.properties.Create(context, draft); err != nil {
		return nil, fmt.Errorf("property_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "property_created",
		slog.String("property_id", draft.ID),
		slog.String("owner_id", caller.ID),
	)
	return draft, nil
}

/*
Update changes a listing owned by the caller, or any listing for an admin.

Returns:
  - *Property: The updated listing
  - error: sec.ErrForbidden, 404
*/
func (service *Service) Update(context context.Context, caller *sec.Identity, id string, changes Changes) (*Property, error) {
	if err := service.authorizeOwner(context, caller, id); err != nil {
		return nil, err
	}

	if changes.Title != nil {
		title := normalize.Text(*changes.Title)
		changes.Title = &title
	}

	property, err := service.properties.Update(context, id, changes)
	if err != nil {
		return nil, translate(err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "property_updated", slog.String("property_id", id))
	return property, nil
}

/*
Delete removes a listing owned by the caller, or any listing for an admin.
*/
func (service *Service) Delete(context context.Context, caller *sec.Identity, id string) error {
	if err := service.authorizeOwner(context, caller, id); err != nil {
		return err
	}

	if err := service.properties.Delete(context, id); err != nil {
		return translate(err)
	}

	ctxutil.GetLogger(context).WarnContext(context, "property_deleted",
		slog.String("property_id", id),
		slog.String("actor_id", caller.ID),
	)
	return nil
}

/*
ChangeStatus sets a listing's availability. Callers gate it to admins.
*/
func (service *Service) ChangeStatus(context context.Context, id string, status Status) (*Property, error) {
	property, err := service.properties.Update(context, id, Changes{Status: &status})
	if err != nil {
		return nil, translate(err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "property_status_changed",
		slog.String("property_id", id),
		slog.String("status", string(status)),
	)
	return property, nil
}

func (service *Service) authorizeOwner(context context.Context, caller *sec.Identity, id string) error {
	property, err := service.properties.FindByID(context, id)
	if err != nil {
		return translate(err)
	}

	if property.OwnerID != caller.ID && !caller.HasRole(sec.AdminOnly...) {
		return sec.ErrForbidden
	}
	return nil
}

func translate(err error) error {
	if dberr.IsNotFound(err) {
		return apperr.NotFound("Property")
	}
	return fmt.Errorf("property_service_store_failed: %w", err)
}
