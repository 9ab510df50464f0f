// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"not_found", apperr.NotFound("Property"), http.StatusNotFound, apperr.CodeNotFound},
		{"unauthorized", apperr.Unauthorized("Could not validate credentials"), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"forbidden", apperr.Forbidden("Not enough permissions"), http.StatusForbidden, apperr.CodeForbidden},
		{"inactive", apperr.AccountInactive(), http.StatusForbidden, apperr.CodeAccountInactive},
		{"conflict", apperr.Conflict("Email already registered"), http.StatusConflict, apperr.CodeConflict},
		{"validation", apperr.ValidationError("Validation failed"), http.StatusBadRequest, apperr.CodeValidation},
		{"rate_limited", apperr.RateLimited(30), http.StatusTooManyRequests, apperr.CodeRateLimited},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, apperr.CodeInternal},
		{"unavailable", apperr.ServiceUnavailable("Store down", nil), http.StatusServiceUnavailable, apperr.CodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Error())
		})
	}

	assert.Equal(t, "Property not found", apperr.NotFound("Property").Message)
	assert.Equal(t, 30, apperr.RateLimited(30).RetryAfter)
	assert.Positive(t, apperr.ServiceUnavailable("Store down", nil).RetryAfter)
}

func TestCopiesDoNotMutate(t *testing.T) {
	base := apperr.Conflict("Username already taken")
	cause := errors.New("duplicate key")

	withCause := base.WithCause(cause)
	withDetails := base.WithDetails(apperr.FieldError{Field: "username", Message: "taken"})

	assert.Nil(t, base.Cause)
	assert.Empty(t, base.Details)
	assert.ErrorIs(t, withCause, cause)
	assert.Len(t, withDetails.Details, 1)
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", apperr.NotFound("User"))

	appError := apperr.As(wrapped)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)

	assert.Nil(t, apperr.As(errors.New("plain")))
	assert.Nil(t, apperr.As(nil))
}
