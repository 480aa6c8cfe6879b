// Copyright (c) 2026 MangaMania. All rights reserved.

package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mangamania/api/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository is the PostgreSQL implementation of [UserRepository].
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgreSQL-backed user repository.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create inserts a new user account row.

Parameters:
  - ctx: Request context.
  - user: The entity to persist. CreatedAt/UpdatedAt are set by the database.

Returns:
  - error: CONFLICT if the email is already registered, otherwise wrapped driver errors.
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users.account (id, email, password_hash, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := repository.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, "postgres_user_repo_create_failed")
}

/*
GetByEmail fetches a user by email (exact match, emails are stored lowercase).

Returns:
  - *User: The matched account.
  - error: NOT_FOUND if no row matches.
*/
func (repository *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, password_hash, display_name, created_at, updated_at
		FROM users.account
		WHERE email = $1`

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_get_by_email_failed")
	}

	return user, nil
}

/*
GetByID fetches a user by primary key.

Returns:
  - *User: The matched account.
  - error: NOT_FOUND if no row matches.
*/
func (repository *PostgresUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, email, password_hash, display_name, created_at, updated_at
		FROM users.account
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_get_by_id_failed")
	}

	return user, nil
}

// # Session Repository

// PostgresSessionRepository is the PostgreSQL implementation of [SessionRepository].
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionRepository creates a new PostgreSQL-backed session repository.
func NewPostgresSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
Create inserts a new refresh session row.
*/
func (repository *PostgresSessionRepository) Create(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO users.session (id, user_id, token_hash, user_agent, ip, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := repository.pool.QueryRow(ctx, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.UserAgent,
		session.IP,
		session.ExpiresAt,
	).Scan(&session.CreatedAt)

	return dberr.Wrap(err, "postgres_session_repo_create_failed")
}

/*
GetByTokenHash fetches a session by its SHA-256 token digest.

Returns:
  - *Session: The matched session.
  - error: NOT_FOUND if no row matches.
*/
func (repository *PostgresSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	query := `
		SELECT id, user_id, token_hash, user_agent, ip, expires_at, created_at
		FROM users.session
		WHERE token_hash = $1`

	session := &Session{}
	err := repository.pool.QueryRow(ctx, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IP,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_session_repo_get_by_token_failed")
	}

	return session, nil
}

/*
Delete removes a session by primary key. A missing row is not an error.
*/
func (repository *PostgresSessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users.session WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query, id)
	return dberr.Wrap(err, "postgres_session_repo_delete_failed")
}

/*
DeleteByTokenHash removes a session by its token digest. Idempotent.
*/
func (repository *PostgresSessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	query := `DELETE FROM users.session WHERE token_hash = $1`

	_, err := repository.pool.Exec(ctx, query, tokenHash)
	return dberr.Wrap(err, "postgres_session_repo_delete_by_token_failed")
}

/*
DeleteExpired removes all sessions past their expiry.

Returns:
  - int64: Number of rows removed.
*/
func (repository *PostgresSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM users.session WHERE expires_at < now()`

	tag, err := repository.pool.Exec(ctx, query)
	if err != nil {
		return 0, dberr.Wrap(err, "postgres_session_repo_delete_expired_failed")
	}

	return tag.RowsAffected(), nil
}
