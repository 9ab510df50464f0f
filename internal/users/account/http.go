// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xcalibur215/mmhub/internal/platform/middleware"
	requestutil "github.com/xcalibur215/mmhub/internal/platform/request"
	"github.com/xcalibur215/mmhub/internal/platform/respond"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/platform/validate"
	"github.com/xcalibur215/mmhub/internal/users/auth"
	"github.com/xcalibur215/mmhub/pkg/pagination"
)

const (
	fieldAvatarURL = "avatar_url"
	fieldBio       = "bio"
	maxBioLength   = 1000
	paramUserID    = "id"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the /users endpoints.
//
// # Endpoints
//   - GET    /      : Paginated account list (admin).
//   - GET    /me    : Caller's account.
//   - PUT    /me    : Update caller's profile.
//   - GET    /{id}  : One account (self or admin).
//   - PUT    /{id}  : Update any account (admin).
//   - DELETE /{id}  : Delete any other account (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	// Self-service
	router.Get("/me", handler.getMe)
	router.Put("/me", handler.updateMe)
	router.Get("/{id}", handler.getUser)

	// Administration
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(sec.AdminOnly...))
		r.Get("/", handler.listUsers)
		r.Put("/{id}", handler.updateUser)
		r.Delete("/{id}", handler.deleteUser)
	})

	return router
}

// # Payloads

type profileRequest struct {
	Email     *string `json:"email"`
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
}

func (input profileRequest) validate(validator *validate.Validator) {
	if input.Email != nil {
		validator.Email(auth.FieldEmail, *input.Email)
	}
	if input.Username != nil {
		validator.MinLen(auth.FieldUsername, *input.Username, auth.MinUsernameLength).
			MaxLen(auth.FieldUsername, *input.Username, auth.MaxUsernameLength).
			Username(auth.FieldUsername, *input.Username)
	}
	if input.FirstName != nil {
		validator.MaxLen(auth.FieldFirstName, *input.FirstName, auth.MaxNameLength)
	}
	if input.LastName != nil {
		validator.MaxLen(auth.FieldLastName, *input.LastName, auth.MaxNameLength)
	}
	if input.AvatarURL != nil && *input.AvatarURL != "" {
		validator.URL(fieldAvatarURL, *input.AvatarURL)
	}
	if input.Bio != nil {
		validator.MaxLen(fieldBio, *input.Bio, maxBioLength)
	}
}

func (input profileRequest) changes() ProfileChanges {
	return ProfileChanges{
		Email:     input.Email,
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		AvatarURL: input.AvatarURL,
		Bio:       input.Bio,
	}
}

type adminUpdateRequest struct {
	profileRequest
	IsActive *bool `json:"is_active"`
}

// # Self-service Endpoints

/*
GET /api/v1/users/me.

Response:
  - 200: User
  - 401: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Get(request.Context(), caller, caller.ID)
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.OK(writer, user)
}

/*
PUT /api/v1/users/me.

Request:
  - body: profileRequest (any subset)

Response:
  - 200: User
  - 400: Validation failure
  - 409: Email or username already taken
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input profileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	input.validate(validator)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), caller.ID, input.changes())
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.OK(writer, user)
}

/*
GET /api/v1/users/{id}.

Response:
  - 200: User
  - 403: Another member's account
  - 404: Unknown account
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.UUIDParam(request, paramUserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Get(request.Context(), caller, id)
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.OK(writer, user)
}

// # Administration Endpoints

/*
GET /api/v1/users.

Request:
  - query: page, limit

Response:
  - 200: []Summary with pagination meta
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	users, meta, err := handler.accountService.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summaries := make([]auth.Summary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, user.Summary())
	}

	respond.Paginated(writer, summaries, meta)
}

/*
PUT /api/v1/users/{id}.

Request:
  - body: adminUpdateRequest (profile fields plus is_active)

Response:
  - 200: User
  - 403: Deactivating one's own account
  - 409: Last active admin, or duplicate email/username
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.UUIDParam(request, paramUserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input adminUpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	input.validate(validator)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.AdminUpdate(request.Context(), caller, id, Update{
		Profile:  input.changes(),
		IsActive: input.IsActive,
	})
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{id}.

Response:
  - 204: Deleted
  - 403: Deleting one's own account
  - 409: Last active admin
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.UUIDParam(request, paramUserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.Delete(request.Context(), caller, id); err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.NoContent(writer)
}
