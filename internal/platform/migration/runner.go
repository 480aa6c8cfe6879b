// Copyright (c) 2026 MangaMania. All rights reserved.

// Package migration applies pending database schema migrations at startup,
// so the server never serves traffic against an outdated schema.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Run applies all pending up-migrations from the given source path.
//
// # Parameters
//   - databaseURL: A postgres:// connection URL.
//   - sourcePath: Filesystem path containing the .sql migration files.
//   - logger: Structured logger for migration progress.
//
// # Behavior
//
// A database that is already up to date is not an error. A dirty database
// (a previous migration died halfway) aborts startup; it needs a human.
func Run(databaseURL, sourcePath string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+sourcePath, toPgx5URL(databaseURL))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}

	defer func() {
		sourceErr, dbErr := migrator.Close()
		if sourceErr != nil {
			logger.Warn("migration_source_close_failed", slog.String("error", sourceErr.Error()))
		}
		if dbErr != nil {
			logger.Warn("migration_db_close_failed", slog.String("error", dbErr.Error()))
		}
	}()

	currentVersion, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to read version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration: database is dirty at version %d, refusing to continue", currentVersion)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migrations_up_to_date", slog.Uint64("version", uint64(currentVersion)))
			return nil
		}
		return fmt.Errorf("migration: failed to apply: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Info("migrations_applied",
		slog.Uint64("from_version", uint64(currentVersion)),
		slog.Uint64("to_version", uint64(newVersion)),
	)

	return nil
}

// toPgx5URL rewrites a postgres:// URL to the pgx5:// scheme that the
// golang-migrate pgx/v5 driver registers.
func toPgx5URL(databaseURL string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}
