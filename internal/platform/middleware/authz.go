// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
	"github.com/xcalibur215/mmhub/internal/platform/constants"
	"github.com/xcalibur215/mmhub/internal/platform/ctxutil"
	"github.com/xcalibur215/mmhub/internal/platform/respond"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
)

// msgInvalidCredentials is the single client-facing message for every
// credential or token failure.
const msgInvalidCredentials = "Could not validate credentials"

// Authenticator turns a bearer token into a resolved identity.
//
// Defining the interface here decouples the middleware from the user store,
// allowing fakes during unit testing.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*sec.Identity, error)
}

// rejectionKey holds the error from a bearer header that failed
// authentication, so protected groups can report it.
type rejectionKey struct{}

func rejection(ctx context.Context) error {
	err, _ := ctx.Value(rejectionKey{}).(error)
	return err
}

// Authenticate extracts the bearer token and establishes the caller's identity.
//
// # Flow
//  1. Without an 'Authorization' header the request proceeds as anonymous.
//  2. Otherwise the token is verified and resolved via [Authenticator], and
//     the [*sec.Identity] is injected into the request context.
//  3. A malformed header or a failed token is logged and the request proceeds
//     as anonymous. The failure is kept in the context and [RequireRoles]
//     answers with it, so public routes such as /auth/refresh still accept a
//     client holding an expired access token.
func Authenticate(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := request.Context()

			identity, err := bearerIdentity(ctx, authenticator, authHeader)
			if err != nil {
				ctxutil.GetLogger(ctx).WarnContext(ctx, "authentication_rejected",
					slog.String("reason", err.Error()),
				)
				next.ServeHTTP(writer, request.WithContext(context.WithValue(ctx, rejectionKey{}, err)))
				return
			}

			markUser(ctx, identity.ID)
			ctx = ctxutil.WithIdentity(ctx, identity)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", identity.ID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func bearerIdentity(ctx context.Context, authenticator Authenticator, header string) (*sec.Identity, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}
	return authenticator.Authenticate(ctx, token)
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return RequireRoles()(next)
}

// RequireRoles blocks requests unless the caller holds one of roles.
// With no roles it only requires authentication.
//
// # Flow
//  1. No [*sec.Identity] in context: the recorded bearer failure (401, 403
//     for an inactive account, 503), or 401 for an anonymous request.
//  2. Run the authorization gate [sec.Authorize]: 403 on mismatch.
func RequireRoles(roles ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			if identity == nil {
				if err := rejection(request.Context()); err != nil {
					respond.Error(writer, request, AuthError(err))
					return
				}
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if _, err := sec.Authorize(identity, roles...); err != nil {
				respond.Error(writer, request, AuthError(err))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// AuthError maps an authentication-core error onto its client-facing [apperr.AppError].
//
// Errors that are already an [apperr.AppError] pass through unchanged. Token,
// credential and unknown-identity failures share one 401 response.
func AuthError(err error) error {
	if err == nil {
		return nil
	}

	if appError := apperr.As(err); appError != nil {
		return appError
	}

	var conflict *sec.ConflictError

	switch {
	case errors.Is(err, sec.ErrTokenInvalid),
		errors.Is(err, sec.ErrCredentialMismatch),
		errors.Is(err, sec.ErrIdentityNotFound):
		return apperr.Unauthorized(msgInvalidCredentials).WithCause(err)

	case errors.Is(err, sec.ErrIdentityInactive):
		return apperr.AccountInactive().WithCause(err)

	case errors.Is(err, sec.ErrForbidden):
		return apperr.Forbidden("Not enough permissions").WithCause(err)

	case errors.As(err, &conflict):
		message := conflict.Field + " is already registered"
		return apperr.Conflict(message).WithCause(err).
			WithDetails(apperr.FieldError{Field: conflict.Field, Message: message})

	case errors.Is(err, sec.ErrStoreUnavailable):
		return apperr.ServiceUnavailable("Authentication is temporarily unavailable", err)
	}

	return apperr.Internal(err)
}

// GetIdentity retrieves the [*sec.Identity] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.Identity] if the user is authenticated.
//   - nil if the user is anonymous.
func GetIdentity(ctx context.Context) *sec.Identity {
	return ctxutil.GetIdentity(ctx)
}

// bearerToken splits "Bearer <token>" with a case-insensitive scheme.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
