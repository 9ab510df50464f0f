// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package property

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
	"github.com/xcalibur215/mmhub/internal/platform/middleware"
	requestutil "github.com/xcalibur215/mmhub/internal/platform/request"
	"github.com/xcalibur215/mmhub/internal/platform/respond"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/platform/validate"
	"github.com/xcalibur215/mmhub/pkg/convert"
	"github.com/xcalibur215/mmhub/pkg/geo"
	"github.com/xcalibur215/mmhub/pkg/pagination"
)

const (
	paramPropertyID = "id"
	maxTitleLength  = 200
)

// Handler implements the /properties endpoints.
type Handler struct {
	propertyService *Service
}

// NewHandler constructs a new property [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{propertyService: service}
}

// Routes returns a [chi.Router] configured with listing routes.
//
// # Endpoints
//   - GET    /               : Public search.
//   - GET    /{id}           : Public detail.
//   - GET    /my/properties  : Caller's listings.
//   - POST   /               : Publish (landlord, agent, admin).
//   - PUT    /{id}           : Edit (owner or admin).
//   - DELETE /{id}           : Remove (owner or admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/", handler.search)
	router.Get("/{id}", handler.get)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/my/properties", handler.mine)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.remove)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(sec.ListingManagers...))
		r.Post("/", handler.create)
	})

	return router
}

// # Payloads

type propertyRequest struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	PropertyType     *string    `json:"property_type"`
	Status           *string    `json:"status"`
	Address          *string    `json:"address"`
	City             *string    `json:"city"`
	State            *string    `json:"state"`
	PostalCode       *string    `json:"postal_code"`
	Country          *string    `json:"country"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	Bedrooms         *int       `json:"bedrooms"`
	Bathrooms        *float64   `json:"bathrooms"`
	SquareFeet       *int       `json:"square_feet"`
	RentPrice        *float64   `json:"rent_price"`
	SecurityDeposit  *float64   `json:"security_deposit"`
	IsFurnished      *bool      `json:"is_furnished"`
	PetsAllowed      *bool      `json:"pets_allowed"`
	ParkingAvailable *bool      `json:"parking_available"`
	AvailableFrom    *time.Time `json:"available_from"`
}

// validate checks the provided fields; with creating set, the fields a
// listing cannot exist without are also required.
func (input propertyRequest) validate(creating bool) error {
	validator := &validate.Validator{}

	required := []struct {
		field string
		value *string
	}{
		{"title", input.Title},
		{"property_type", input.PropertyType},
		{"address", input.Address},
		{"city", input.City},
		{"state", input.State},
		{"postal_code", input.PostalCode},
	}
	for _, entry := range required {
		switch {
		case entry.value != nil:
			validator.Required(entry.field, *entry.value)
		case creating:
			validator.Required(entry.field, "")
		}
	}

	if creating && input.RentPrice == nil {
		validator.Custom("rent_price", true, "Is required")
	}

	if input.Title != nil {
		validator.MaxLen("title", *input.Title, maxTitleLength)
	}
	if input.PropertyType != nil {
		validator.OneOf("property_type", *input.PropertyType, TypeStrings()...)
	}
	if input.Status != nil {
		validator.OneOf("status", *input.Status, StatusStrings()...)
	}
	if input.RentPrice != nil {
		validator.Positive("rent_price", *input.RentPrice)
	}
	if input.Bedrooms != nil {
		validator.Custom("bedrooms", *input.Bedrooms < 0, "Must not be negative")
	}
	if input.Bathrooms != nil {
		validator.Custom("bathrooms", *input.Bathrooms < 0, "Must not be negative")
	}
	if input.SquareFeet != nil {
		validator.Custom("square_feet", *input.SquareFeet < 0, "Must not be negative")
	}
	if input.SecurityDeposit != nil {
		validator.Custom("security_deposit", *input.SecurityDeposit < 0, "Must not be negative")
	}
	if input.Latitude != nil {
		validator.FloatRange("latitude", *input.Latitude, -90, 90)
	}
	if input.Longitude != nil {
		validator.FloatRange("longitude", *input.Longitude, -180, 180)
	}

	return validator.Err()
}

func (input propertyRequest) changes() Changes {
	changes := Changes{
		Title:            input.Title,
		Description:      input.Description,
		Address:          input.Address,
		City:             input.City,
		State:            input.State,
		PostalCode:       input.PostalCode,
		Country:          input.Country,
		Latitude:         input.Latitude,
		Longitude:        input.Longitude,
		Bedrooms:         input.Bedrooms,
		Bathrooms:        input.Bathrooms,
		SquareFeet:       input.SquareFeet,
		RentPrice:        input.RentPrice,
		SecurityDeposit:  input.SecurityDeposit,
		IsFurnished:      input.IsFurnished,
		PetsAllowed:      input.PetsAllowed,
		ParkingAvailable: input.ParkingAvailable,
		AvailableFrom:    input.AvailableFrom,
	}
	if input.PropertyType != nil {
		propertyType := Type(*input.PropertyType)
		changes.PropertyType = &propertyType
	}
	if input.Status != nil {
		status := Status(*input.Status)
		changes.Status = &status
	}
	return changes
}

func (input propertyRequest) draft() *Property {
	value := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	flag := func(b *bool) bool { return b != nil && *b }

	draft := &Property{
		Title:            value(input.Title),
		Description:      input.Description,
		PropertyType:     Type(value(input.PropertyType)),
		Status:           Status(value(input.Status)),
		Address:          value(input.Address),
		City:             value(input.City),
		State:            value(input.State),
		PostalCode:       value(input.PostalCode),
		Country:          value(input.Country),
		Latitude:         input.Latitude,
		Longitude:        input.Longitude,
		SquareFeet:       input.SquareFeet,
		SecurityDeposit:  input.SecurityDeposit,
		IsFurnished:      flag(input.IsFurnished),
		PetsAllowed:      flag(input.PetsAllowed),
		ParkingAvailable: flag(input.ParkingAvailable),
		AvailableFrom:    input.AvailableFrom,
	}
	if input.Bedrooms != nil {
		draft.Bedrooms = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		draft.Bathrooms = *input.Bathrooms
	}
	if input.RentPrice != nil {
		draft.RentPrice = *input.RentPrice
	}
	return draft
}

// # Query Parsing

// parseFilter reads the search criteria from the query string.
func parseFilter(request *http.Request) (Filter, error) {
	query := request.URL.Query()
	filter := Filter{Location: strings.TrimSpace(query.Get("location"))}
	var details []apperr.FieldError

	floatParam := func(name string) *float64 {
		value, err := convert.OptFloat64(query.Get(name))
		if err != nil {
			details = append(details, apperr.FieldError{Field: name, Message: "Must be a finite number"})
		}
		return value
	}

	filter.MinPrice = floatParam("min_price")
	filter.MaxPrice = floatParam("max_price")
	filter.Bathrooms = floatParam("bathrooms")

	bedrooms, err := convert.OptInt(query.Get("bedrooms"))
	if err != nil {
		details = append(details, apperr.FieldError{Field: "bedrooms", Message: "Must be an integer"})
	}
	filter.Bedrooms = bedrooms

	if propertyType := query.Get("property_type"); propertyType != "" {
		validator := &validate.Validator{}
		if err := validator.OneOf("property_type", propertyType, TypeStrings()...).Err(); err != nil {
			return filter, err
		}
		filter.PropertyType = Type(propertyType)
	}

	lat, lng, radius := floatParam("lat"), floatParam("lng"), floatParam("radius_km")
	if len(details) > 0 {
		return filter, apperr.ValidationError("Invalid search parameters", details...)
	}

	if lat != nil || lng != nil || radius != nil {
		if lat == nil || lng == nil || radius == nil {
			return filter, validate.RequiredError("radius_km", "lat, lng and radius_km must be given together")
		}

		center := geo.Point{Lat: *lat, Lng: *lng}
		if err := center.Validate(); err != nil {
			return filter, validate.RequiredError("lat", err.Error())
		}

		validator := &validate.Validator{}
		validator.Custom("radius_km", *radius <= 0 || *radius > MaxRadiusKm, "Must be greater than 0 and at most 100")
		if err := validator.Err(); err != nil {
			return filter, err
		}

		filter.Radius = &Radius{Center: center, Km: *radius}
	}

	return filter, nil
}

// # Public Endpoints

/*
GET /api/v1/properties.

Request:
  - query: location, min_price, max_price, bedrooms, bathrooms, property_type,
    lat, lng, radius_km, page, limit

Response:
  - 200: []Property with pagination meta
  - 400: Malformed filter
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	properties, meta, err := handler.propertyService.Search(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, properties, meta)
}

/*
GET /api/v1/properties/{id}.
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, paramPropertyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	property, err := handler.propertyService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, property)
}

// # Protected Endpoints

/*
GET /api/v1/properties/my/properties.
*/
func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	properties, err := handler.propertyService.Mine(request.Context(), caller)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, properties)
}

/*
POST /api/v1/properties.

Response:
  - 201: Property
  - 400: Validation failure
  - 403: Caller is not a landlord, agent or admin
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input propertyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := input.validate(true); err != nil {
		respond.Error(writer, request, err)
		return
	}

	property, err := handler.propertyService.Create(request.Context(), caller, input.draft())
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.Created(writer, property)
}

/*
PUT /api/v1/properties/{id}.

Response:
  - 200: Property
  - 403: Not the owner or an admin
  - 404: Unknown listing
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.UUIDParam(request, paramPropertyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input propertyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := input.validate(false); err != nil {
		respond.Error(writer, request, err)
		return
	}

	property, err := handler.propertyService.Update(request.Context(), caller, id, input.changes())
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.OK(writer, property)
}

/*
DELETE /api/v1/properties/{id}.

Response:
  - 204: Deleted
  - 403: Not the owner or an admin
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.UUIDParam(request, paramPropertyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.propertyService.Delete(request.Context(), caller, id); err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.NoContent(writer)
}
