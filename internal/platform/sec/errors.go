// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "errors"

// # Authentication Error Taxonomy
//
// Every stage of the request pipeline returns one of these sentinels (possibly
// wrapped). The HTTP layer collapses them into client-safe responses; the
// specific kind is only ever logged.

// ErrTokenInvalid is the umbrella for every token rejection. All token errors
// below match it through [errors.Is].
var ErrTokenInvalid = errors.New("sec: token invalid")

var (
	// ErrTokenMalformed is returned when a token cannot be parsed or carries unusable claims.
	ErrTokenMalformed error = &tokenError{msg: "sec: token malformed"}

	// ErrTokenSignatureInvalid is returned when the signature does not match the claims.
	ErrTokenSignatureInvalid error = &tokenError{msg: "sec: token signature invalid"}

	// ErrTokenExpired is returned when the current time is past the token's expiry.
	ErrTokenExpired error = &tokenError{msg: "sec: token expired"}

	// ErrTokenWrongKind is returned when a refresh token is used as an access token or vice versa.
	ErrTokenWrongKind error = &tokenError{msg: "sec: token kind mismatch"}
)

var (
	// ErrCredentialMismatch is returned when an identifier or password does not match.
	ErrCredentialMismatch = errors.New("sec: credential mismatch")

	// ErrIdentityNotFound is returned when a verified subject has no account.
	ErrIdentityNotFound = errors.New("sec: identity not found")

	// ErrIdentityInactive is returned when the account exists but is deactivated.
	ErrIdentityInactive = errors.New("sec: identity inactive")

	// ErrForbidden is returned by [Authorize] when the role is not permitted.
	ErrForbidden = errors.New("sec: forbidden")

	// ErrConflict is matched by every [*ConflictError].
	ErrConflict = errors.New("sec: conflict")

	// ErrStoreUnavailable is returned when the user store cannot answer.
	ErrStoreUnavailable = errors.New("sec: identity store unavailable")

	// ErrUnknownRole is returned by [ParseRole] for strings outside the role set.
	ErrUnknownRole = errors.New("sec: unknown role")
)

// tokenError is a distinct token failure that also reports as [ErrTokenInvalid].
type tokenError struct {
	msg string
}

func (e *tokenError) Error() string { return e.msg }

// Is lets callers collapse every token failure into [ErrTokenInvalid].
func (e *tokenError) Is(target error) bool { return target == ErrTokenInvalid }

// ConflictError names the field whose value already exists in the store.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string { return "sec: " + e.Field + " already exists" }

// Is reports a match against [ErrConflict].
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
