// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
	"github.com/xcalibur215/mmhub/internal/platform/validate"
)

/*
TestValidator_Rules runs each rule against one passing and one failing input.
*/
func TestValidator_Rules(t *testing.T) {
	tests := []struct {
		name  string
		apply func(v *validate.Validator)
		fails bool
	}{
		{"required_ok", func(v *validate.Validator) { v.Required("title", "Sukhumvit Loft") }, false},
		{"required_blank", func(v *validate.Validator) { v.Required("title", "   ") }, true},
		{"min_len_runes", func(v *validate.Validator) { v.MinLen("name", "สมชาย", 5) }, false},
		{"min_len_short", func(v *validate.Validator) { v.MinLen("password", "abc", 8) }, true},
		{"max_len_long", func(v *validate.Validator) { v.MaxLen("city", "Bangkok Metropolis", 10) }, true},
		{"one_of_ok", func(v *validate.Validator) { v.OneOf("status", "open", "open", "resolved") }, false},
		{"one_of_unknown", func(v *validate.Validator) { v.OneOf("status", "closed", "open", "resolved") }, true},
		{"email_ok", func(v *validate.Validator) { v.Email("email", "renter@example.com") }, false},
		{"email_missing_domain", func(v *validate.Validator) { v.Email("email", "renter@") }, true},
		{"email_empty", func(v *validate.Validator) { v.Email("email", "") }, true},
		{"username_separators", func(v *validate.Validator) { v.Username("username", "alice.b-c_d") }, false},
		{"username_unicode", func(v *validate.Validator) { v.Username("username", "สมชาย") }, false},
		{"username_space", func(v *validate.Validator) { v.Username("username", "alice b") }, true},
		{"username_at", func(v *validate.Validator) { v.Username("username", "alice@home") }, true},
		{"url_https", func(v *validate.Validator) { v.URL("avatar_url", "https://cdn.example.com/a.png") }, false},
		{"url_relative", func(v *validate.Validator) { v.URL("avatar_url", "/a.png") }, true},
		{"url_ftp", func(v *validate.Validator) { v.URL("avatar_url", "ftp://example.com/file") }, true},
		{"uuid_ok", func(v *validate.Validator) { v.UUID("id", "0191e4b2-7c3a-7d2e-9f10-2b7c1a4e5d60") }, false},
		{"uuid_garbage", func(v *validate.Validator) { v.UUID("id", "listing-1") }, true},
		{"range_edge", func(v *validate.Validator) { v.Range("bedrooms", 50, 0, 50) }, false},
		{"range_below", func(v *validate.Validator) { v.Range("bedrooms", -1, 0, 50) }, true},
		{"float_range_above", func(v *validate.Validator) { v.FloatRange("latitude", 91, -90, 90) }, true},
		{"positive_zero", func(v *validate.Validator) { v.Positive("rent_price", 0) }, true},
		{"custom_failed", func(v *validate.Validator) { v.Custom("score", true, "Must be between 1 and 10") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var validator validate.Validator
			tt.apply(&validator)

			assert.Equal(t, tt.fails, validator.HasErrors())
			if !tt.fails {
				assert.NoError(t, validator.Err())
			}
		})
	}
}

/*
TestValidator_Accumulates checks that every failure is reported in rule order.
*/
func TestValidator_Accumulates(t *testing.T) {
	var validator validate.Validator

	err := validator.
		Required("username", "").
		MinLen("password", "a", 8).
		Email("email", "not-an-email").
		Positive("rent_price", 12000).
		Err()

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeValidation, appError.Code)

	fields := make([]string, 0, len(appError.Details))
	for _, detail := range appError.Details {
		fields = append(fields, detail.Field)
	}
	assert.Equal(t, []string{"username", "password", "email"}, fields)
}

func TestRequiredError(t *testing.T) {
	appError := validate.RequiredError("role", "Must be one of: user, admin")

	require.Len(t, appError.Details, 1)
	assert.Equal(t, "role", appError.Details[0].Field)
	assert.Equal(t, 400, appError.HTTPStatus)
}
