// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the client-facing error type of the marketplace API.

An [AppError] pairs an HTTP status with a stable machine-readable code and a
message that is safe to show. Domain sentinels are mapped onto it at the
service or middleware boundary; anything that reaches the renderer without
one becomes a 500.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
	// RetryAfter, when positive, is sent as the Retry-After header (seconds).
	RetryAfter int `json:"-"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Machine-readable codes carried in the "code" field.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeConflict           = "CONFLICT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// unavailableRetrySeconds is the Retry-After hint on 503 responses.
const unavailableRetrySeconds = 5

func newError(status int, code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, HTTPStatus: status}
}

// # Client Errors (4xx)

// NotFound reports that resource does not exist, e.g. "Property not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

// Unauthorized is a 401; the renderer adds the Bearer challenge.
func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

// Forbidden is a 403 for an authenticated caller lacking permission.
func Forbidden(msg string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, msg)
}

// AccountInactive is the 403 for a valid token whose account is switched off.
func AccountInactive() *AppError {
	return newError(http.StatusForbidden, CodeAccountInactive, "Inactive user")
}

// Conflict is a 409 for duplicates and guarded state changes.
func Conflict(msg string) *AppError {
	return newError(http.StatusConflict, CodeConflict, msg)
}

// ValidationError is a 400 with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	err := newError(http.StatusBadRequest, CodeValidation, msg)
	err.Details = details
	return err
}

// RateLimited is a 429 telling the client when to retry.
func RateLimited(retryAfterSeconds int) *AppError {
	err := newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
	err.RetryAfter = retryAfterSeconds
	return err
}

// # Server Errors (5xx)

// Internal hides cause behind a generic 500 message.
func Internal(cause error) *AppError {
	err := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// ServiceUnavailable is a 503 for a failing dependency, with a retry hint.
func ServiceUnavailable(msg string, cause error) *AppError {
	err := newError(http.StatusServiceUnavailable, CodeServiceUnavailable, msg)
	err.Cause = cause
	err.RetryAfter = unavailableRetrySeconds
	return err
}

// # Copies

// WithCause returns a copy of e carrying cause for server-side logging.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// WithDetails returns a copy of e carrying field-level details.
func (e *AppError) WithDetails(details ...FieldError) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}
