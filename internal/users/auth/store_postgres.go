// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/xcalibur215/mmhub/internal/platform/database/schema"
	"github.com/xcalibur215/mmhub/internal/platform/dberr"
	"github.com/xcalibur215/mmhub/internal/platform/postgres"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
)

// Unique index names from the users.account migration.
const (
	constraintEmail    = "account_email_key"
	constraintUsername = "account_username_key"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	db postgres.Querier
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var selectAccount = fmt.Sprintf("SELECT %s FROM %s", schema.UserAccount.Select(), schema.UserAccount.Table)

/*
Create persists a new user record into the users.account table.

Description: Unique violations on email or username come back as a
*sec.ConflictError naming the field, so no duplicate row can exist.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: *sec.ConflictError or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, username, passwordhash, firstname, lastname, phone,
			role, status, isverified, isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		string(user.Role),
		string(user.Status),
		user.IsVerified,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if field := ConflictField(err); field != "" {
			return &sec.ConflictError{Field: field}
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by its primary key.

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	row := repository.db.QueryRow(context, selectAccount+" WHERE id = $1", id)
	return scanOne(row, "find_by_id")
}

/*
FindByEmail retrieves a user record by its canonical email address.
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	row := repository.db.QueryRow(context, selectAccount+" WHERE email = $1", email)
	return scanOne(row, "find_by_email")
}

/*
FindByUsername retrieves a user record by username, ignoring case.
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	row := repository.db.QueryRow(context, selectAccount+" WHERE LOWER(username) = LOWER($1)", username)
	return scanOne(row, "find_by_username")
}

/*
TouchLastLogin stamps the last successful login time.
*/
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, id string, at time.Time) error {
	const query = `UPDATE users.account SET lastlogin = $2 WHERE id = $1`

	tag, err := repository.db.Exec(context, query, id, at)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_touch_last_login_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Row Mapping

// ScanUser hydrates a [User] from a row produced with [schema.UserAccountTable.Select].
//
// The stored role is parsed into the closed [sec.Role] set; an unknown value
// fails the scan instead of silently defaulting.
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var role, status string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&role,
		&status,
		&user.AvatarURL,
		&user.Bio,
		&user.IsVerified,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLogin,
	)
	if err != nil {
		return nil, err
	}

	if user.Role, err = sec.ParseRole(role); err != nil {
		return nil, fmt.Errorf("account %s: %w", user.ID, err)
	}

	parsed, ok := ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("account %s: unknown status %q", user.ID, status)
	}
	user.Status = parsed

	return user, nil
}

func scanOne(row pgx.Row, operation string) (*User, error) {
	user, err := ScanUser(row)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_%s_failed: %w", operation, err)
	}
	return user, nil
}

// ConflictField maps a users.account unique violation onto the client-facing
// field name, or "" when err is not one.
func ConflictField(err error) string {
	switch dberr.ConstraintName(err) {
	case constraintEmail:
		return FieldEmail
	case constraintUsername:
		return FieldUsername
	}
	return ""
}
