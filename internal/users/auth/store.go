// Copyright (c) 2026 MangaMania. All rights reserved.

package auth

import "context"

// UserRepository defines persistence operations for [User] accounts.
//
// Implementations must return apperr-wrapped errors (NOT_FOUND, CONFLICT)
// so the service layer never inspects driver errors.
type UserRepository interface {
	// Create inserts a new user. Returns CONFLICT if the email is taken.
	Create(ctx context.Context, user *User) error

	// GetByEmail fetches a user by its lowercase email. Returns NOT_FOUND if absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID fetches a user by its UUID. Returns NOT_FOUND if absent.
	GetByID(ctx context.Context, id string) (*User, error)
}

// SessionRepository defines persistence operations for refresh [Session] records.
type SessionRepository interface {
	// Create inserts a new session.
	Create(ctx context.Context, session *Session) error

	// GetByTokenHash fetches a session by its token digest. Returns NOT_FOUND if absent.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// Delete removes a session by ID. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteByTokenHash removes a session by its token digest. Idempotent.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteExpired removes all sessions past their expiry, returning the count.
	DeleteExpired(ctx context.Context) (int64, error)
}
