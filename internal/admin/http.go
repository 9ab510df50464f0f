// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xcalibur215/mmhub/internal/listing/property"
	"github.com/xcalibur215/mmhub/internal/platform/middleware"
	requestutil "github.com/xcalibur215/mmhub/internal/platform/request"
	"github.com/xcalibur215/mmhub/internal/platform/respond"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/platform/validate"
	"github.com/xcalibur215/mmhub/internal/users/auth"
)

const (
	fieldRole   = "role"
	fieldStatus = "status"
	paramID     = "id"
)

// AccountAdministrator changes another member's role or status.
type AccountAdministrator interface {
	ChangeRole(context context.Context, caller *sec.Identity, id string, role sec.Role) (*auth.User, error)
	ChangeStatus(context context.Context, caller *sec.Identity, id string, status auth.Status) (*auth.User, error)
}

// ListingAdministrator changes a listing's availability.
type ListingAdministrator interface {
	ChangeStatus(context context.Context, id string, status property.Status) (*property.Property, error)
}

// Handler implements the /admin endpoints.
type Handler struct {
	stats      StatsReader
	accounts   AccountAdministrator
	properties ListingAdministrator
}

// NewHandler constructs a new admin [Handler].
func NewHandler(stats StatsReader, accounts AccountAdministrator, properties ListingAdministrator) *Handler {
	return &Handler{stats: stats, accounts: accounts, properties: properties}
}

// Routes returns a [chi.Router] configured with the admin console.
//
// # Endpoints
//   - GET /dashboard              : Platform statistics.
//   - PUT /users/{id}/role        : Change a member's role.
//   - PUT /users/{id}/status      : Change a member's status.
//   - PUT /properties/{id}/status : Change a listing's status.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRoles(sec.AdminOnly...))

	router.Get("/dashboard", handler.dashboard)
	router.Put("/users/{id}/role", handler.updateUserRole)
	router.Put("/users/{id}/status", handler.updateUserStatus)
	router.Put("/properties/{id}/status", handler.updatePropertyStatus)

	return router
}

// # Payloads

type roleRequest struct {
	Role string `json:"role"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type userChangeResponse struct {
	Message string     `json:"message"`
	User    *auth.User `json:"user"`
}

type propertyChangeResponse struct {
	Message  string             `json:"message"`
	Property *property.Property `json:"property"`
}

// # Endpoints

/*
GET /api/v1/admin/dashboard.
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	dashboard, err := handler.stats.Dashboard(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, dashboard)
}

/*
PUT /api/v1/admin/users/{id}/role.

Response:
  - 200: Message and updated user
  - 400: Unknown role
  - 403: Targeting oneself
  - 409: Demoting the last active admin
*/
func (handler *Handler) updateUserRole(writer http.ResponseWriter, request *http.Request) {
	caller, id, ok := handler.target(writer, request)
	if !ok {
		return
	}

	var input roleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	role, err := sec.ParseRole(input.Role)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(fieldRole, "Must be one of: "+strings.Join(sec.RoleStrings(), ", ")))
		return
	}

	user, err := handler.accounts.ChangeRole(request.Context(), caller, id, role)
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.OK(writer, userChangeResponse{Message: fmt.Sprintf("User role updated to %s", role), User: user})
}

/*
PUT /api/v1/admin/users/{id}/status.

Response:
  - 200: Message and updated user
  - 400: Unknown status
  - 403: Targeting oneself
  - 409: Deactivating the last active admin
*/
func (handler *Handler) updateUserStatus(writer http.ResponseWriter, request *http.Request) {
	caller, id, ok := handler.target(writer, request)
	if !ok {
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, valid := auth.ParseStatus(input.Status)
	if !valid {
		respond.Error(writer, request, validate.RequiredError(fieldStatus, "Must be one of: "+strings.Join(auth.StatusStrings(), ", ")))
		return
	}

	user, err := handler.accounts.ChangeStatus(request.Context(), caller, id, status)
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.OK(writer, userChangeResponse{Message: fmt.Sprintf("User status updated to %s", status), User: user})
}

/*
PUT /api/v1/admin/properties/{id}/status.

Response:
  - 200: Message and updated listing
  - 400: Unknown status
  - 404: Unknown listing
*/
func (handler *Handler) updatePropertyStatus(writer http.ResponseWriter, request *http.Request) {
	_, id, ok := handler.target(writer, request)
	if !ok {
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.OneOf(fieldStatus, input.Status, property.StatusStrings()...).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status := property.Status(input.Status)
	listing, err := handler.properties.ChangeStatus(request.Context(), id, status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, propertyChangeResponse{Message: fmt.Sprintf("Property status updated to %s", status), Property: listing})
}

// target resolves the caller and the {id} path parameter, writing the error
// response itself when either is missing.
func (handler *Handler) target(writer http.ResponseWriter, request *http.Request) (*sec.Identity, string, bool) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return nil, "", false
	}

	id, err := requestutil.UUIDParam(request, paramID)
	if err != nil {
		respond.Error(writer, request, err)
		return nil, "", false
	}
	return caller, id, true
}
