// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user profile management and privileged account changes.

It lets members view and edit their own profile and lets administrators list,
edit, deactivate, re-role and delete other accounts.

# Architecture

  - Entities: [auth.User] is owned by the auth package and reused here.
  - Rules: Self-mutation checks live in [Service]; the last-admin rule is
    enforced by the [Repository] inside one transaction so a rejected change
    leaves the store untouched.
*/
package account

import (
	"context"
	"errors"

	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/users/auth"
	"github.com/xcalibur215/mmhub/pkg/pagination"
)

// ErrLastAdmin is returned when a change would leave no active administrator.
var ErrLastAdmin = errors.New("account: last active admin")

// # Change Sets

// ProfileChanges holds the self-editable fields. Nil means unchanged.
type ProfileChanges struct {
	Email     *string
	Username  *string
	FirstName *string
	LastName  *string
	Phone     *string
	AvatarURL *string
	Bio       *string
}

// Update is a full account change. Role, Status and IsActive are only set by
// administrators.
type Update struct {
	Profile  ProfileChanges
	Role     *sec.Role
	Status   *auth.Status
	IsActive *bool
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	p := u.Profile
	return p.Email == nil && p.Username == nil && p.FirstName == nil && p.LastName == nil &&
		p.Phone == nil && p.AvatarURL == nil && p.Bio == nil &&
		u.Role == nil && u.Status == nil && u.IsActive == nil
}

// Apply returns a copy of user with the update applied.
func (u Update) Apply(user auth.User) auth.User {
	p := u.Profile
	if p.Email != nil {
		user.Email = *p.Email
	}
	if p.Username != nil {
		user.Username = *p.Username
	}
	if p.FirstName != nil {
		user.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		user.LastName = *p.LastName
	}
	if p.Phone != nil {
		user.Phone = p.Phone
	}
	if p.AvatarURL != nil {
		user.AvatarURL = p.AvatarURL
	}
	if p.Bio != nil {
		user.Bio = p.Bio
	}
	if u.Role != nil {
		user.Role = *u.Role
	}
	if u.Status != nil {
		user.Status = *u.Status
	}
	if u.IsActive != nil {
		user.IsActive = *u.IsActive
	}
	return user
}

// IsActiveAdmin reports whether user currently holds effective admin rights.
func IsActiveAdmin(user *auth.User) bool {
	return user.Role == sec.RoleAdmin && user.Active()
}

// touchesAdminRights reports whether u sets a field that decides admin rights.
func (u Update) touchesAdminRights() bool {
	return u.Role != nil || u.Status != nil || u.IsActive != nil
}

// RemovesAdmin reports whether applying u to before strips the last of its admin rights.
func (u Update) RemovesAdmin(before *auth.User) bool {
	after := u.Apply(*before)
	return IsActiveAdmin(before) && !IsActiveAdmin(&after)
}

// # Repository Contracts

// Repository defines the persistence contract for account management.
type Repository interface {
	auth.UserFinder

	/*
		List returns one page of accounts, newest first.

		Returns:
		  - []*auth.User: The page
		  - int: Total number of accounts
		  - error: Storage failures
	*/
	List(context context.Context, page pagination.Params) ([]*auth.User, int, error)

	/*
		Update applies changes to one account atomically.

		Description: When the change would demote or deactivate the last
		active admin the transaction is rolled back and ErrLastAdmin returned.

		Returns:
		  - *auth.User: The account after the change
		  - error: dberr.ErrNotFound, ErrLastAdmin, *sec.ConflictError
	*/
	Update(context context.Context, id string, update Update) (*auth.User, error)

	/*
		Delete removes one account under the same last-admin rule as Update.

		Returns:
		  - error: dberr.ErrNotFound, ErrLastAdmin
	*/
	Delete(context context.Context, id string) error
}
