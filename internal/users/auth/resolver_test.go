// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/users/auth"
)

/*
TestResolver_Outcomes covers every branch of identity resolution.
*/
func TestResolver_Outcomes(t *testing.T) {
	fx := newFixture(t)
	user := fx.register(t, "alice@example.com", "alice", "secret123")
	resolver := auth.NewResolver(fx.users)
	ctx := context.Background()

	t.Run("active", func(t *testing.T) {
		identity, err := resolver.Resolve(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, &sec.Identity{ID: user.ID, Role: sec.RoleUser, Active: true}, identity)
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "missing")
		assert.ErrorIs(t, err, sec.ErrIdentityNotFound)
	})

	t.Run("pending_verification_is_active", func(t *testing.T) {
		fx.users.mutate(t, user.ID, func(user *auth.User) { user.Status = auth.StatusPendingVerification })
		t.Cleanup(func() { fx.users.mutate(t, user.ID, func(user *auth.User) { user.Status = auth.StatusActive }) })

		_, err := resolver.Resolve(ctx, user.ID)
		assert.NoError(t, err)
	})

	t.Run("inactive", func(t *testing.T) {
		fx.users.mutate(t, user.ID, func(user *auth.User) { user.IsActive = false })
		t.Cleanup(func() { fx.users.mutate(t, user.ID, func(user *auth.User) { user.IsActive = true }) })

		_, err := resolver.Resolve(ctx, user.ID)
		assert.ErrorIs(t, err, sec.ErrIdentityInactive)
	})

	t.Run("store_unavailable", func(t *testing.T) {
		cause := errors.New("connection reset")
		fx.users.err = cause
		t.Cleanup(func() { fx.users.err = nil })

		_, err := resolver.Resolve(ctx, user.ID)
		assert.ErrorIs(t, err, sec.ErrStoreUnavailable)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("unknown_role_in_store", func(t *testing.T) {
		fx.users.err = fmt.Errorf("account %s: %w", user.ID, sec.ErrUnknownRole)
		t.Cleanup(func() { fx.users.err = nil })

		_, err := resolver.Resolve(ctx, user.ID)
		assert.ErrorIs(t, err, sec.ErrUnknownRole)
		assert.NotErrorIs(t, err, sec.ErrStoreUnavailable)
	})
}

/*
TestAuthenticator_RejectsRefreshTokens verifies the access-only contract of bearer authentication.
*/
func TestAuthenticator_RejectsRefreshTokens(t *testing.T) {
	fx := newFixture(t)
	user := fx.register(t, "alice@example.com", "alice", "secret123")
	authenticator := auth.NewAuthenticator(fx.tokens, auth.NewResolver(fx.users))

	pair, err := fx.tokens.IssuePair(user.ID)
	require.NoError(t, err)

	identity, err := authenticator.Authenticate(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)

	_, err = authenticator.Authenticate(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, sec.ErrTokenWrongKind)
}
