// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcalibur215/mmhub/internal/platform/sec"
)

/*
TestParseRole verifies the closed role set and rejection of unknown strings.
*/
func TestParseRole(t *testing.T) {
	for _, role := range sec.Roles {
		parsed, err := sec.ParseRole(string(role))
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	for _, raw := range []string{"", "root", "Admin", "member", "superuser"} {
		_, err := sec.ParseRole(raw)
		assert.ErrorIs(t, err, sec.ErrUnknownRole, "raw %q", raw)
	}
}

/*
TestAuthorize covers the gate's membership rules.
*/
func TestAuthorize(t *testing.T) {
	user := &sec.Identity{ID: "u1", Role: sec.RoleUser, Active: true}
	admin := &sec.Identity{ID: "a1", Role: sec.RoleAdmin, Active: true}
	landlord := &sec.Identity{ID: "l1", Role: sec.RoleLandlord, Active: true}
	moderator := &sec.Identity{ID: "m1", Role: sec.RoleModerator, Active: true}

	tests := []struct {
		name     string
		identity *sec.Identity
		allowed  []sec.Role
		wantErr  bool
	}{
		{"user_on_admin_only", user, sec.AdminOnly, true},
		{"admin_on_admin_only", admin, sec.AdminOnly, false},
		{"landlord_on_landlord_or_admin", landlord, sec.LandlordOrAdmin, false},
		{"admin_on_landlord_or_admin", admin, sec.LandlordOrAdmin, false},
		{"user_on_landlord_or_admin", user, sec.LandlordOrAdmin, true},
		{"moderator_on_moderator_or_admin", moderator, sec.ModeratorOrAdmin, false},
		{"moderator_on_admin_only", moderator, sec.AdminOnly, true},
		{"any_authenticated", user, nil, false},
		{"nil_identity", nil, nil, true},
		{"nil_identity_with_roles", nil, sec.AdminOnly, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sec.Authorize(tt.identity, tt.allowed...)
			if tt.wantErr {
				assert.ErrorIs(t, err, sec.ErrForbidden)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Same(t, tt.identity, got)
			}
		})
	}
}

/*
TestConflictError verifies that field conflicts match the conflict sentinel.
*/
func TestConflictError(t *testing.T) {
	var err error = &sec.ConflictError{Field: "email"}

	assert.ErrorIs(t, err, sec.ErrConflict)
	assert.Contains(t, err.Error(), "email")
}
