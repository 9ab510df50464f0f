// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
)

var (
	// ErrNotFound is matched by every wrapped "no rows" error.
	ErrNotFound = errors.New("dberr: row not found")

	// ErrUniqueViolation is matched by every wrapped SQLSTATE 23505 error.
	ErrUniqueViolation = errors.New("dberr: unique violation")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// resource names the entity in client-facing messages (e.g. "Property").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return apperr.NotFound(resource).WithCause(ErrNotFound)
	}

	// 2. Unique constraint violations become 409s
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return apperr.Conflict(resource + " already exists").
			WithCause(fmt.Errorf("%w: %s", ErrUniqueViolation, pgErr.ConstraintName))
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", resource, err))
}

// IsNotFound reports whether err is a wrapped "no rows" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}

// ConstraintName returns the violated constraint of a unique violation, or "".
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}
