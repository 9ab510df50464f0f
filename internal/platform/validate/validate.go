// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate checks decoded request input and reports every failing field
at once as a single VALIDATION_ERROR.

Rules chain on a zero-value [Validator]; [Validator.Err] ends the chain:

	var validator validate.Validator
	err := validator.
		Required("email", payload.Email).
		Email("email", payload.Email).
		MinLen("password", payload.Password, 8).
		Err()

Handlers validate decoded payloads and query parameters before calling a
service. Storage code never validates.
*/
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
	"github.com/xcalibur215/mmhub/pkg/uuid"
)

const failedMessage = "Validation failed"

// usernamePattern allows Unicode letters and digits plus '.', '-' and '_'.
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}._-]+$`)

// ErrInvalidJSON answers a body that does not decode.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates field failures. Use one per request.
type Validator struct {
	failures []apperr.FieldError
}

// check records message against field unless ok holds.
func (v *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		v.failures = append(v.failures, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// # Text

func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, "This field is required")
}

// MinLen and MaxLen count runes, not bytes.
func (v *Validator) MinLen(field, value string, least int) *Validator {
	return v.check(utf8.RuneCountInString(value) >= least, field, fmt.Sprintf("Minimum %d characters", least))
}

func (v *Validator) MaxLen(field, value string, most int) *Validator {
	return v.check(utf8.RuneCountInString(value) <= most, field, fmt.Sprintf("Maximum %d characters", most))
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.check(slices.Contains(allowed, value), field, "Must be one of: "+strings.Join(allowed, ", "))
}

// # Formats

func (v *Validator) Email(field, value string) *Validator {
	_, err := mail.ParseAddress(value)
	return v.check(err == nil, field, "Must be a valid email address")
}

func (v *Validator) Username(field, value string) *Validator {
	return v.check(usernamePattern.MatchString(value), field, "May only contain letters, digits, '.', '-' and '_'")
}

// URL accepts absolute http and https URLs only.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.Parse(value)
	ok := err == nil && parsed.Host != "" && (parsed.Scheme == "http" || parsed.Scheme == "https")
	return v.check(ok, field, "Must be a valid http(s) URL")
}

func (v *Validator) UUID(field, value string) *Validator {
	return v.check(uuid.Valid(value), field, "Must be a valid UUID")
}

// # Numbers

// Range and FloatRange are inclusive on both ends.
func (v *Validator) Range(field string, value, low, high int) *Validator {
	return v.check(value >= low && value <= high, field, fmt.Sprintf("Must be between %d and %d", low, high))
}

func (v *Validator) FloatRange(field string, value, low, high float64) *Validator {
	return v.check(value >= low && value <= high, field, fmt.Sprintf("Must be between %g and %g", low, high))
}

func (v *Validator) Positive(field string, value float64) *Validator {
	return v.check(value > 0, field, "Must be greater than 0")
}

// Custom records message when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(!failed, field, message)
}

// # Result

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.failures) > 0
}

// Err returns nil or a VALIDATION_ERROR listing every failure in rule order.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.ValidationError(failedMessage, v.failures...)
}

// RequiredError builds a VALIDATION_ERROR for one field.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(failedMessage, apperr.FieldError{Field: field, Message: message})
}
