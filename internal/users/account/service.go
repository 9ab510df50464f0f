// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
	"github.com/xcalibur215/mmhub/internal/platform/ctxutil"
	"github.com/xcalibur215/mmhub/internal/platform/dberr"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/users/auth"
	"github.com/xcalibur215/mmhub/pkg/normalize"
	"github.com/xcalibur215/mmhub/pkg/pagination"
)

// Client-facing rejection messages.
const (
	msgSelfDeactivate = "Cannot deactivate your own account"
	msgSelfDelete     = "Cannot delete your own account"
	msgSelfRole       = "Cannot change your own role"
	msgSelfStatus     = "Cannot change your own status"
	msgLastAdmin      = "Cannot remove the last active administrator"
)

// # Service Layer

// Service orchestrates account reads and mutations.
//
// Every method that acts on another account takes the caller's identity so
// the self-mutation rules sit next to the operation they guard.
type Service struct {
	accounts Repository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accounts Repository) *Service {
	return &Service{accounts: accounts}
}

/*
List returns one page of accounts.

Returns:
  - []*auth.User: The page
  - pagination.Meta: Paging metadata
  - error: Storage failures
*/
func (service *Service) List(context context.Context, page pagination.Params) ([]*auth.User, pagination.Meta, error) {
	users, total, err := service.accounts.List(context, page)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, pagination.NewMeta(page.Page, page.Limit, total), nil
}

/*
Get returns the account with id when the caller is that account or an admin.

Returns:
  - *auth.User: The account
  - error: 403 for other members' accounts, 404 when absent
*/
func (service *Service) Get(context context.Context, caller *sec.Identity, id string) (*auth.User, error) {
	if caller.ID != id && !caller.HasRole(sec.AdminOnly...) {
		return nil, sec.ErrForbidden
	}

	user, err := service.accounts.FindByID(context, id)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

/*
UpdateProfile applies self-service profile changes to the caller's account.

Description: Email and username are canonicalized the same way registration
does, so uniqueness is decided on the canonical form.

Returns:
  - *auth.User: The updated account
  - error: *sec.ConflictError when the email or username is taken
*/
func (service *Service) UpdateProfile(context context.Context, callerID string, changes ProfileChanges) (*auth.User, error) {
	user, err := service.accounts.Update(context, callerID, Update{Profile: canonical(changes)})
	if err != nil {
		return nil, translate(err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_profile_updated", slog.String("user_id", callerID))
	return user, nil
}

/*
AdminUpdate applies an administrator's change set to any account.

Description: An administrator cannot deactivate their own account; the
last-admin rule is enforced by the repository.

Returns:
  - *auth.User: The updated account
  - error: 403 on self-deactivation, 409 on last admin or duplicates
*/
func (service *Service) AdminUpdate(context context.Context, caller *sec.Identity, id string, update Update) (*auth.User, error) {
	if caller.ID == id && update.IsActive != nil && !*update.IsActive {
		return nil, apperr.Forbidden(msgSelfDeactivate)
	}

	update.Profile = canonical(update.Profile)
	return service.mutate(context, caller, id, update, "user_updated")
}

/*
ChangeRole assigns a new role to another account.

Returns:
  - *auth.User: The updated account
  - error: 403 when targeting oneself, 409 when demoting the last admin
*/
func (service *Service) ChangeRole(context context.Context, caller *sec.Identity, id string, role sec.Role) (*auth.User, error) {
	if caller.ID == id {
		return nil, apperr.Forbidden(msgSelfRole)
	}
	return service.mutate(context, caller, id, Update{Role: &role}, "user_role_changed")
}

/*
ChangeStatus assigns a new lifecycle status to another account.

Returns:
  - *auth.User: The updated account
  - error: 403 when targeting oneself, 409 when deactivating the last admin
*/
func (service *Service) ChangeStatus(context context.Context, caller *sec.Identity, id string, status auth.Status) (*auth.User, error) {
	if caller.ID == id {
		return nil, apperr.Forbidden(msgSelfStatus)
	}
	return service.mutate(context, caller, id, Update{Status: &status}, "user_status_changed")
}

/*
Delete removes another account.

Returns:
  - error: 403 when targeting oneself, 409 for the last admin, 404 when absent
*/
func (service *Service) Delete(context context.Context, caller *sec.Identity, id string) error {
	if caller.ID == id {
		return apperr.Forbidden(msgSelfDelete)
	}

	if err := service.accounts.Delete(context, id); err != nil {
		return translate(err)
	}

	ctxutil.GetLogger(context).WarnContext(context, "user_deleted",
		slog.String("target_id", id),
		slog.String("actor_id", caller.ID),
	)
	return nil
}

func (service *Service) mutate(context context.Context, caller *sec.Identity, id string, update Update, event string) (*auth.User, error) {
	user, err := service.accounts.Update(context, id, update)
	if err != nil {
		return nil, translate(err)
	}

	ctxutil.GetLogger(context).InfoContext(context, event,
		slog.String("target_id", id),
		slog.String("actor_id", caller.ID),
	)
	return user, nil
}

// # Helpers

func canonical(changes ProfileChanges) ProfileChanges {
	if changes.Email != nil {
		email := normalize.Email(*changes.Email)
		changes.Email = &email
	}
	if changes.Username != nil {
		username := normalize.Username(*changes.Username)
		changes.Username = &username
	}
	if changes.FirstName != nil {
		firstName := normalize.Text(*changes.FirstName)
		changes.FirstName = &firstName
	}
	if changes.LastName != nil {
		lastName := normalize.Text(*changes.LastName)
		changes.LastName = &lastName
	}
	return changes
}

// translate turns repository sentinels into client-facing errors. Conflict
// and identity errors pass through for middleware.AuthError.
func translate(err error) error {
	switch {
	case errors.Is(err, ErrLastAdmin):
		return apperr.Conflict(msgLastAdmin).WithCause(err)
	case dberr.IsNotFound(err):
		return apperr.NotFound("User")
	case errors.Is(err, sec.ErrConflict), errors.Is(err, sec.ErrUnknownRole):
		return err
	}
	return fmt.Errorf("account_service_store_failed: %w", err)
}
