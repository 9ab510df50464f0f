// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/users/account"
	"github.com/xcalibur215/mmhub/internal/users/auth"
	"github.com/xcalibur215/mmhub/pkg/pagination"
)

func ptr[T any](v T) *T { return &v }

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an AppError, got %v", err)
	return appError.HTTPStatus
}

/*
TestService_LoneAdminSelfDemotion verifies that the only admin cannot give up
the role and that the stored account is unchanged afterwards.
*/
func TestService_LoneAdminSelfDemotion(t *testing.T) {
	store := newMemoryAccounts()
	admin := store.add(t, "root", sec.RoleAdmin)
	service := account.NewService(store)
	caller := admin.Identity()

	_, err := service.ChangeRole(context.Background(), caller, admin.ID, sec.RoleUser)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	_, err = service.AdminUpdate(context.Background(), caller, admin.ID, account.Update{IsActive: ptr(false)})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	err = service.Delete(context.Background(), caller, admin.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	stored := store.get(t, admin.ID)
	assert.Equal(t, sec.RoleAdmin, stored.Role)
	assert.True(t, stored.IsActive)
}

/*
TestRepositoryRule_LastAdmin verifies the store-level rule on its own: the
service checks are bypassed by acting on the repository directly.
*/
func TestRepositoryRule_LastAdmin(t *testing.T) {
	store := newMemoryAccounts()
	admin := store.add(t, "root", sec.RoleAdmin)
	ctx := context.Background()

	role := sec.RoleUser
	_, err := store.Update(ctx, admin.ID, account.Update{Role: &role})
	assert.ErrorIs(t, err, account.ErrLastAdmin)

	status := auth.StatusSuspended
	_, err = store.Update(ctx, admin.ID, account.Update{Status: &status})
	assert.ErrorIs(t, err, account.ErrLastAdmin)

	assert.ErrorIs(t, store.Delete(ctx, admin.ID), account.ErrLastAdmin)

	stored := store.get(t, admin.ID)
	assert.Equal(t, sec.RoleAdmin, stored.Role)
	assert.Equal(t, auth.StatusActive, stored.Status)

	// Profile edits never touch admin rights.
	_, err = store.Update(ctx, admin.ID, account.Update{Profile: account.ProfileChanges{FirstName: ptr("Root")}})
	assert.NoError(t, err)
}

/*
TestService_DemoteOtherAdmin verifies that with two admins one may demote the
other, after which the remaining admin is protected.
*/
func TestService_DemoteOtherAdmin(t *testing.T) {
	store := newMemoryAccounts()
	first := store.add(t, "first", sec.RoleAdmin)
	second := store.add(t, "second", sec.RoleAdmin)
	service := account.NewService(store)
	ctx := context.Background()

	updated, err := service.ChangeRole(ctx, first.Identity(), second.ID, sec.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, updated.Role)

	// The demoted account still holds a stale admin identity in this test; the
	// store refuses because first is now the only admin.
	_, err = service.ChangeRole(ctx, second.Identity(), first.ID, sec.RoleUser)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	assert.ErrorIs(t, err, account.ErrLastAdmin)
	assert.Equal(t, sec.RoleAdmin, store.get(t, first.ID).Role)
}

/*
TestService_InactiveAdminDoesNotCount verifies that only active admins keep
the system administrable.
*/
func TestService_InactiveAdminDoesNotCount(t *testing.T) {
	store := newMemoryAccounts()
	active := store.add(t, "active", sec.RoleAdmin)
	dormant := store.add(t, "dormant", sec.RoleAdmin)
	helper := store.add(t, "helper", sec.RoleAdmin)
	service := account.NewService(store)
	ctx := context.Background()

	_, err := service.ChangeStatus(ctx, helper.Identity(), dormant.ID, auth.StatusSuspended)
	require.NoError(t, err)

	_, err = service.ChangeRole(ctx, helper.Identity(), active.ID, sec.RoleUser)
	require.NoError(t, err)

	// helper is now the only active admin.
	err = service.Delete(ctx, active.Identity(), helper.ID)
	assert.ErrorIs(t, err, account.ErrLastAdmin)
}

/*
TestService_Get verifies the self-or-admin read rule.
*/
func TestService_Get(t *testing.T) {
	store := newMemoryAccounts()
	admin := store.add(t, "root", sec.RoleAdmin)
	alice := store.add(t, "alice", sec.RoleUser)
	bob := store.add(t, "bob", sec.RoleLandlord)
	service := account.NewService(store)
	ctx := context.Background()

	user, err := service.Get(ctx, alice.Identity(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, err = service.Get(ctx, alice.Identity(), bob.ID)
	assert.ErrorIs(t, err, sec.ErrForbidden)

	user, err = service.Get(ctx, admin.Identity(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, user.ID)

	_, err = service.Get(ctx, admin.Identity(), "0190b6d2-0000-7000-8000-000000000000")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

/*
TestService_UpdateProfile verifies canonicalization and duplicate detection.
*/
func TestService_UpdateProfile(t *testing.T) {
	store := newMemoryAccounts()
	alice := store.add(t, "alice", sec.RoleUser)
	store.add(t, "bob", sec.RoleUser)
	service := account.NewService(store)
	ctx := context.Background()

	updated, err := service.UpdateProfile(ctx, alice.ID, account.ProfileChanges{
		Email:     ptr("  Alice.New@Example.COM "),
		FirstName: ptr(" Alice "),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice.new@example.com", updated.Email)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "alice", updated.Username)

	_, err = service.UpdateProfile(ctx, alice.ID, account.ProfileChanges{Username: ptr("BOB")})
	var conflict *sec.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, auth.FieldUsername, conflict.Field)
}

/*
TestService_List verifies paging metadata.
*/
func TestService_List(t *testing.T) {
	store := newMemoryAccounts()
	for _, name := range []string{"a1", "a2", "a3"} {
		store.add(t, name, sec.RoleUser)
	}
	service := account.NewService(store)

	users, meta, err := service.List(context.Background(), pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}

/*
TestUpdate_RemovesAdmin covers the pure rule used by every repository.
*/
func TestUpdate_RemovesAdmin(t *testing.T) {
	admin := &auth.User{Role: sec.RoleAdmin, Status: auth.StatusActive, IsActive: true}
	user := &auth.User{Role: sec.RoleUser, Status: auth.StatusActive, IsActive: true}

	tests := []struct {
		name   string
		before *auth.User
		update account.Update
		want   bool
	}{
		{"demote", admin, account.Update{Role: ptr(sec.RoleModerator)}, true},
		{"deactivate", admin, account.Update{IsActive: ptr(false)}, true},
		{"suspend", admin, account.Update{Status: ptr(auth.StatusSuspended)}, true},
		{"pending_keeps_rights", admin, account.Update{Status: ptr(auth.StatusPendingVerification)}, false},
		{"profile_only", admin, account.Update{Profile: account.ProfileChanges{Bio: ptr("hi")}}, false},
		{"promote_user", user, account.Update{Role: ptr(sec.RoleAdmin)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.update.RemovesAdmin(tt.before))
		})
	}
}
