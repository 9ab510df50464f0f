// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the marketplace schema (users, listing,
// moderation) with golang-migrate before the server accepts traffic.
package migration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// pgx5Scheme is the URL scheme golang-migrate's pgx/v5 driver registers.
const pgx5Scheme = "pgx5://"

// RunUp applies every pending migration found in migrationsPath.
//
// A database left dirty by an interrupted run is reported and left alone.
//
// # Parameters
//   - dsn: A postgres:// URL (key=value DSNs are passed through untouched).
//   - migrationsPath: Directory holding NNNNNN_name.up.sql / .down.sql files.
//   - logger: Structured logger for migration events.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	return Up(os.DirFS(migrationsPath), dsn, logger)
}

// Up applies every pending migration read from source.
func Up(source fs.FS, dsn string, logger *slog.Logger) error {
	migrator, err := open(source, dsn, logger)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, logger)

	from, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: read version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration: database dirty at version %d, fix it by hand and force the version", from)
	}

	switch err := migrator.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	case err != nil:
		return fmt.Errorf("migration: up: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

func open(source fs.FS, dsn string, logger *slog.Logger) (*migrate.Migrate, error) {
	driver, err := iofs.New(source, ".")
	if err != nil {
		return nil, fmt.Errorf("migration: open source: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", driver, pgx5URL(dsn))
	if err != nil {
		return nil, fmt.Errorf("migration: connect: %w", err)
	}

	migrator.Log = &slogAdapter{
		logger:  logger,
		verbose: logger.Enabled(context.Background(), slog.LevelDebug),
	}
	return migrator, nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := migrator.Close()
	if err := errors.Join(sourceErr, databaseErr); err != nil {
		logger.Error("migration_close_failed", slog.Any("error", err))
	}
}

// pgx5URL rewrites postgres:// and postgresql:// URLs to the pgx5 scheme.
func pgx5URL(dsn string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if rest, found := strings.CutPrefix(dsn, scheme); found {
			return pgx5Scheme + rest
		}
	}
	return dsn
}

// slogAdapter routes golang-migrate output to slog at debug level.
type slogAdapter struct {
	logger  *slog.Logger
	verbose bool
}

func (adapter *slogAdapter) Printf(format string, args ...any) {
	adapter.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (adapter *slogAdapter) Verbose() bool {
	return adapter.verbose
}
