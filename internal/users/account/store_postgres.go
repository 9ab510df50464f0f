// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/xcalibur215/mmhub/internal/platform/database/schema"
	"github.com/xcalibur215/mmhub/internal/platform/dberr"
	"github.com/xcalibur215/mmhub/internal/platform/postgres"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/users/auth"
	"github.com/xcalibur215/mmhub/pkg/pagination"
)

// # Repository Implementation

// PostgresRepository implements [Repository] over users.account.
type PostgresRepository struct {
	db postgres.DB
}

// NewRepository creates a new Postgres implementation for account management.
func NewRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	selectAccount = fmt.Sprintf("SELECT %s FROM %s", schema.UserAccount.Select(), schema.UserAccount.Table)

	// activeAdmins mirrors [IsActiveAdmin].
	activeAdmins = fmt.Sprintf(
		"%s = '%s' AND %s AND %s NOT IN ('%s', '%s')",
		schema.UserAccount.Role, sec.RoleAdmin,
		schema.UserAccount.IsActive,
		schema.UserAccount.Status, auth.StatusInactive, auth.StatusSuspended,
	)
)

/*
FindByID retrieves one account by primary key.

Returns:
  - *auth.User: Hydrated account
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	return scanAccount(repository.db.QueryRow(context, selectAccount+" WHERE id = $1", id))
}

/*
List returns one page of accounts ordered by creation time, newest first.

Parameters:
  - context: context.Context
  - page: pagination.Params

Returns:
  - []*auth.User: The page
  - int: Total account count
  - error: Database errors
*/
func (repository *PostgresRepository) List(context context.Context, page pagination.Params) ([]*auth.User, int, error) {
	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", schema.UserAccount.Table)
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf("%s ORDER BY %s DESC, %s DESC LIMIT $1 OFFSET $2",
		selectAccount, schema.UserAccount.CreatedAt, schema.UserAccount.ID)

	rows, err := repository.db.Query(context, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*auth.User, 0, page.Limit)
	for rows.Next() {
		user, err := auth.ScanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}
	return users, total, nil
}

/*
Update applies a change set inside one transaction.

Description: When the change touches role, status or the active switch, every
active admin row is locked in id order before the target row. A change that
strips the target's admin rights with no other active admin locked is rolled
back with ErrLastAdmin. Two admins demoting each other queue on the first
admin row; the second transaction re-reads the set after the first commits and
fails with ErrLastAdmin.

Returns:
  - *auth.User: The account after the change
  - error: dberr.ErrNotFound, ErrLastAdmin, *sec.ConflictError
*/
func (repository *PostgresRepository) Update(context context.Context, id string, update Update) (*auth.User, error) {
	var updated *auth.User

	err := postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		var admins []string
		if update.touchesAdminRights() {
			var err error
			if admins, err = lockActiveAdmins(context, tx); err != nil {
				return err
			}
		}

		current, err := lockAccount(context, tx, id)
		if err != nil {
			return err
		}

		if update.RemovesAdmin(current) && !hasOtherAdmin(admins, id) {
			return ErrLastAdmin
		}

		if update.Empty() {
			updated = current
			return nil
		}

		query, args := buildUpdate(id, update)
		updated, err = scanAccount(tx.QueryRow(context, query, args...))
		return err
	})
	if err != nil {
		if field := auth.ConflictField(err); field != "" {
			return nil, &sec.ConflictError{Field: field}
		}
		return nil, err
	}

	return updated, nil
}

/*
Delete removes one account. Deleting the last active admin is rejected; locks
are taken in the same order as [PostgresRepository.Update].

Returns:
  - error: dberr.ErrNotFound, ErrLastAdmin
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	return postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		admins, err := lockActiveAdmins(context, tx)
		if err != nil {
			return err
		}

		current, err := lockAccount(context, tx, id)
		if err != nil {
			return err
		}

		if IsActiveAdmin(current) && !hasOtherAdmin(admins, id) {
			return ErrLastAdmin
		}

		query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.UserAccount.Table, schema.UserAccount.ID)
		if _, err := tx.Exec(context, query, id); err != nil {
			return fmt.Errorf("postgres_account_repo_delete_failed: %w", err)
		}
		return nil
	})
}

// # Helpers

func lockAccount(context context.Context, tx pgx.Tx, id string) (*auth.User, error) {
	return scanAccount(tx.QueryRow(context, selectAccount+" WHERE id = $1 FOR UPDATE", id))
}

// lockActiveAdmins locks every active admin row in id order and returns the IDs.
func lockActiveAdmins(context context.Context, tx pgx.Tx) ([]string, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s FOR UPDATE",
		schema.UserAccount.ID, schema.UserAccount.Table, activeAdmins, schema.UserAccount.ID)

	rows, err := tx.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_lock_admins_failed: %w", err)
	}

	admins, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_lock_admins_failed: %w", err)
	}
	return admins, nil
}

func hasOtherAdmin(admins []string, excludedID string) bool {
	return slices.ContainsFunc(admins, func(adminID string) bool { return adminID != excludedID })
}

// buildUpdate constructs a PATCH-style UPDATE touching only provided fields.
func buildUpdate(id string, update Update) (string, []any) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET %s = NOW()", schema.UserAccount.Table, schema.UserAccount.UpdatedAt))

	args := []any{id}
	set := func(column string, value any) {
		args = append(args, value)
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", column, len(args)))
	}

	profile := update.Profile
	if profile.Email != nil {
		set(schema.UserAccount.Email, *profile.Email)
	}
	if profile.Username != nil {
		set(schema.UserAccount.Username, *profile.Username)
	}
	if profile.FirstName != nil {
		set(schema.UserAccount.FirstName, *profile.FirstName)
	}
	if profile.LastName != nil {
		set(schema.UserAccount.LastName, *profile.LastName)
	}
	if profile.Phone != nil {
		set(schema.UserAccount.Phone, *profile.Phone)
	}
	if profile.AvatarURL != nil {
		set(schema.UserAccount.AvatarURL, *profile.AvatarURL)
	}
	if profile.Bio != nil {
		set(schema.UserAccount.Bio, *profile.Bio)
	}
	if update.Role != nil {
		set(schema.UserAccount.Role, string(*update.Role))
	}
	if update.Status != nil {
		set(schema.UserAccount.Status, string(*update.Status))
	}
	if update.IsActive != nil {
		set(schema.UserAccount.IsActive, *update.IsActive)
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $1 RETURNING %s", schema.UserAccount.ID, schema.UserAccount.Select()))
	return queryBuilder.String(), args
}

func scanAccount(row pgx.Row) (*auth.User, error) {
	user, err := auth.ScanUser(row)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, dberr.ErrNotFound
		}
		if errors.Is(err, sec.ErrUnknownRole) {
			return nil, err
		}
		return nil, fmt.Errorf("postgres_account_repo_query_failed: %w", err)
	}
	return user, nil
}
