// Copyright (c) 2026 MangaMania. All rights reserved.

// Package dberr translates low-level database driver errors into the
// application's [apperr.AppError] taxonomy.
//
// # Architecture
//
// Repository implementations call [Wrap] on every pgx error before returning
// it, so the service layer only ever sees AppError codes and never needs to
// import pgx directly.
package dberr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mangamania/api/internal/platform/apperr"
)

// Wrap maps a database error to the application error taxonomy.
//
// # Parameters
//   - err: The raw error returned by pgx.
//   - operation: A short snake_case identifier of the failing operation,
//     used for log correlation (e.g. "postgres_collection_repo_insert_failed").
//
// # Mapping
//   - pgx.ErrNoRows        -> NOT_FOUND
//   - unique_violation     -> CONFLICT
//   - context deadline/cancel -> SERVICE_UNAVAILABLE
//   - anything else        -> INTERNAL_SERVER_ERROR (wrapped, cause preserved)
func Wrap(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Already translated higher up; pass through unchanged.
	if apperr.IsAppError(err) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Resource")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict("Resource already exists")
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Referenced resource does not exist")
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.ServiceUnavailable("Database operation timed out")
	}

	return apperr.Internal(fmt.Errorf("%s: %w", operation, err))
}
