// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/xcalibur215/mmhub/internal/platform/database/schema"
	"github.com/xcalibur215/mmhub/internal/platform/dberr"
	"github.com/xcalibur215/mmhub/internal/platform/postgres"
)

// PostgresRepository implements [Repository] over moderation.flag.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository creates a new Postgres flag repository.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectFlag = fmt.Sprintf("SELECT %s FROM %s", schema.ModerationFlag.Select(), schema.ModerationFlag.Table)

// Create inserts a new flag.
func (repository *PostgresRepository) Create(context context.Context, flag *Flag) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`,
		schema.ModerationFlag.Table,
		schema.ModerationFlag.ID, schema.ModerationFlag.TargetType, schema.ModerationFlag.TargetID,
		schema.ModerationFlag.Reason, schema.ModerationFlag.Status, schema.ModerationFlag.CreatedBy,
		schema.ModerationFlag.CreatedAt,
	)

	err := repository.db.QueryRow(context, query,
		flag.ID, string(flag.TargetType), flag.TargetID, flag.Reason, string(flag.Status), flag.CreatedBy,
	).Scan(&flag.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres_flag_repo_create_failed: %w", err)
	}
	return nil
}

/*
List returns flags ordered by creation time, newest first.

Parameters:
  - context: context.Context
  - status: *Status (nil lists every flag)

Returns:
  - []*Flag: The flags
  - error: Database errors
*/
func (repository *PostgresRepository) List(context context.Context, status *Status) ([]*Flag, error) {
	query := selectFlag
	var args []any

	if status != nil {
		query += fmt.Sprintf(" WHERE %s = $1", schema.ModerationFlag.Status)
		args = append(args, string(*status))
	}
	query += fmt.Sprintf(" ORDER BY %s DESC", schema.ModerationFlag.CreatedAt)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_flag_repo_list_failed: %w", err)
	}
	defer rows.Close()

	flags := []*Flag{}
	for rows.Next() {
		flag, err := scanFlag(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_flag_repo_scan_failed: %w", err)
		}
		flags = append(flags, flag)
	}
	return flags, rows.Err()
}

/*
Resolve closes a flag if it is still open.

Description: The status guard is part of the UPDATE, so two reviewers racing
on one flag cannot both close it. A miss is disambiguated with a lookup.

Returns:
  - *Flag: The closed flag
  - error: dberr.ErrNotFound, ErrFlagClosed
*/
func (repository *PostgresRepository) Resolve(context context.Context, id string, resolution Resolution) (*Flag, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1 AND %s = '%s'
		RETURNING %s`,
		schema.ModerationFlag.Table,
		schema.ModerationFlag.Status, schema.ModerationFlag.Notes,
		schema.ModerationFlag.ResolvedBy, schema.ModerationFlag.ResolvedAt,
		schema.ModerationFlag.ID, schema.ModerationFlag.Status, StatusOpen,
		schema.ModerationFlag.Select(),
	)

	flag, err := scanFlag(repository.db.QueryRow(context, query,
		id, string(resolution.Status), resolution.Notes, resolution.ResolvedBy, resolution.ResolvedAt,
	))
	if err == nil {
		return flag, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("postgres_flag_repo_resolve_failed: %w", err)
	}

	var exists bool
	existsQuery := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", schema.ModerationFlag.Table, schema.ModerationFlag.ID)
	if err := repository.db.QueryRow(context, existsQuery, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("postgres_flag_repo_exists_failed: %w", err)
	}
	if !exists {
		return nil, dberr.ErrNotFound
	}
	return nil, ErrFlagClosed
}

func scanFlag(row pgx.Row) (*Flag, error) {
	flag := &Flag{}
	var targetType, status string

	err := row.Scan(
		&flag.ID,
		&targetType,
		&flag.TargetID,
		&flag.Reason,
		&status,
		&flag.Notes,
		&flag.CreatedBy,
		&flag.ResolvedBy,
		&flag.CreatedAt,
		&flag.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}

	flag.TargetType = TargetType(targetType)
	flag.Status = Status(status)
	return flag, nil
}
