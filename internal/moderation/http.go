// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xcalibur215/mmhub/internal/platform/middleware"
	requestutil "github.com/xcalibur215/mmhub/internal/platform/request"
	"github.com/xcalibur215/mmhub/internal/platform/respond"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/platform/validate"
)

const (
	paramFlagID     = "id"
	maxReasonLength = 1000
	maxNotesLength  = 2000
	maxTargetLength = 64
)

// Handler implements the HTTP layer for content flags.
type Handler struct {
	moderationService *Service
}

// NewHandler constructs a new moderation [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{moderationService: service}
}

// FlagRoutes returns the member-facing /flags router.
//
// # Endpoints
//   - POST / : Report content.
func (handler *Handler) FlagRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)
	router.Post("/", handler.createFlag)
	return router
}

// ReviewRoutes returns the /moderation router for moderators and admins.
//
// # Endpoints
//   - GET  /flags              : List flags, optionally by ?status=.
//   - POST /flags/{id}/resolve : Resolve or dismiss a flag.
func (handler *Handler) ReviewRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRoles(sec.ModeratorOrAdmin...))
	router.Get("/flags", handler.listFlags)
	router.Post("/flags/{id}/resolve", handler.resolveFlag)
	return router
}

// # Payloads

type flagRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Reason     string `json:"reason"`
}

func (input flagRequest) validate() error {
	validator := &validate.Validator{}
	validator.Required("target_type", input.TargetType).
		OneOf("target_type", input.TargetType, TargetTypes...).
		Required("target_id", input.TargetID).
		MaxLen("target_id", input.TargetID, maxTargetLength).
		Required("reason", input.Reason).
		MaxLen("reason", input.Reason, maxReasonLength)
	return validator.Err()
}

type resolveRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

func (input resolveRequest) validate() error {
	validator := &validate.Validator{}
	validator.Required("status", input.Status).
		OneOf("status", input.Status, ClosingStatuses...)
	if input.Notes != nil {
		validator.MaxLen("notes", *input.Notes, maxNotesLength)
	}
	return validator.Err()
}

// # Endpoints

/*
POST /api/v1/flags.

Response:
  - 201: Flag
  - 400: Validation failure
  - 401: Authentication required
*/
func (handler *Handler) createFlag(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input flagRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	flag, err := handler.moderationService.Flag(request.Context(), caller, Report{
		TargetType: TargetType(input.TargetType),
		TargetID:   input.TargetID,
		Reason:     input.Reason,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, flag)
}

/*
GET /api/v1/moderation/flags.

Request:
  - status: string (optional: open, resolved, dismissed)

Response:
  - 200: []Flag
  - 403: Caller is not a moderator or admin
*/
func (handler *Handler) listFlags(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var status *Status
	if raw := request.URL.Query().Get("status"); raw != "" {
		validator := &validate.Validator{}
		if err := validator.OneOf("status", raw, Statuses...).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
		parsed := Status(raw)
		status = &parsed
	}

	flags, err := handler.moderationService.List(request.Context(), caller, status)
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.OK(writer, flags)
}

/*
POST /api/v1/moderation/flags/{id}/resolve.

Response:
  - 200: Flag
  - 400: Status is not resolved or dismissed
  - 404: Unknown flag
  - 409: Flag already closed
*/
func (handler *Handler) resolveFlag(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.UUIDParam(request, paramFlagID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input resolveRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	flag, err := handler.moderationService.Resolve(request.Context(), caller, id, Status(input.Status), input.Notes)
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.OK(writer, flag)
}
