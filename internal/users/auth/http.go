// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xcalibur215/mmhub/internal/platform/constants"
	"github.com/xcalibur215/mmhub/internal/platform/middleware"
	requestutil "github.com/xcalibur215/mmhub/internal/platform/request"
	"github.com/xcalibur215/mmhub/internal/platform/respond"
	"github.com/xcalibur215/mmhub/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// Registration, login, token refresh and the current-identity lookup.
// Token responses are written without the data envelope so that OAuth2
// password-flow clients can read them directly.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Exchanges credentials for an access/refresh pair.
//   - POST /refresh  : Exchanges a refresh token for a new access token.
//   - GET  /me       : Returns the authenticated account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone"`
}

func (input registerRequest) validate() error {
	username := strings.TrimSpace(input.Username)

	var validator validate.Validator
	return validator.
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldUsername, username).
		MinLen(FieldUsername, username, MinUsernameLength).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Username(FieldUsername, username).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > MaxPasswordLength, "must be at most 72 bytes").
		MaxLen(FieldFirstName, input.FirstName, MaxNameLength).
		MaxLen(FieldLastName, input.LastName, MaxNameLength).
		Err()
}

type loginRequest struct {
	Email    string `json:"email"`
	Login    string `json:"login"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// identifier returns the first non-empty of email, login and username.
func (input loginRequest) identifier() string {
	for _, candidate := range []string{input.Email, input.Login, input.Username} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

func (input loginRequest) validate() error {
	var validator validate.Validator
	return validator.
		Required(FieldLogin, input.identifier()).
		Required(FieldPassword, input.Password).
		Err()
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// # Response Payloads

type loginResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	TokenType    string  `json:"token_type"`
	ExpiresIn    int     `json:"expires_in"`
	User         Summary `json:"user"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Request:
  - Body: registerRequest (Email, Username, Password, FirstName, LastName, Phone)

Response:
  - 201: User: Created user profile (role is always "user")
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:     input.Email,
		Username:  input.Username,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	})
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and issues tokens.

POST /api/v1/auth/login

Request:
  - Body (JSON): loginRequest (email | login | username, password)
  - Body (form): username, password (OAuth2 password form)

Response:
  - 200: loginResponse
  - 401: Could not validate credentials (wrong identifier or password)
  - 403: Inactive user
  - 429: Too many failed attempts
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeLogin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    input.identifier(),
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.JSON(writer, http.StatusOK, loginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    constants.TokenTypeBearer,
		ExpiresIn:    session.ExpiresIn,
		User:         session.User.Summary(),
	})
}

func decodeLogin(request *http.Request) (loginRequest, error) {
	var input loginRequest

	if requestutil.IsForm(request) {
		values, err := requestutil.FormValues(request, FieldUsername, FieldEmail, FieldPassword)
		if err != nil {
			return input, err
		}
		input.Username = values[FieldUsername]
		input.Email = values[FieldEmail]
		input.Password = values[FieldPassword]
		return input, nil
	}

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return input, validate.ErrInvalidJSON
	}
	return input, nil
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Request:
  - Body: refreshRequest, or the refresh_token query parameter

Response:
  - 200: refreshResponse
  - 401: Missing, invalid, expired or access-kind token
  - 403: Inactive user
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	token := request.URL.Query().Get(FieldRefreshToken)

	if token == "" && request.ContentLength != 0 {
		var input refreshRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, validate.ErrInvalidJSON)
			return
		}
		token = input.RefreshToken
	}

	if strings.TrimSpace(token) == "" {
		respond.Error(writer, request, validate.RequiredError(FieldRefreshToken, "is required"))
		return
	}

	result, err := handler.authService.Refresh(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.JSON(writer, http.StatusOK, refreshResponse{
		AccessToken: result.AccessToken,
		TokenType:   constants.TokenTypeBearer,
		ExpiresIn:   result.ExpiresIn,
	})
}

/*
Me returns the authenticated user's account.

GET /api/v1/auth/me

Response:
  - 200: User
  - 401: Not authenticated or refresh token presented
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, middleware.AuthError(err))
		return
	}

	respond.OK(writer, user)
}
