// Copyright (c) 2026 MangaMania. All rights reserved.

/*
Package auth implements user identity and session management.

It covers the full account lifecycle used by the web client: registration,
login, logout, silent access-token refresh, and the current-user profile
endpoint.

Architecture:

  - Entities: User and Session (this file).
  - Store: Repository interfaces + PostgreSQL implementations.
  - Service: Business logic (credential checks, session rotation).
  - HTTP: Transport layer mounted under /api/v1/auth.

Access tokens are short-lived RS256 JWTs; refresh tokens are opaque random
values stored hashed in PostgreSQL and delivered via an HttpOnly cookie.
*/
package auth

import "time"

// User is a registered account.
//
// PasswordHash is a bcrypt digest and must never be serialized to clients;
// all JSON-facing responses go through [Profile].
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the client-safe projection of a [User].
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToProfile converts a User into its client-safe projection.
func (u *User) ToProfile() Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// Session is a persisted refresh-token grant.
//
// TokenHash stores the SHA-256 digest of the opaque refresh token; the raw
// value exists only in the client's cookie.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	UserAgent string
	IP        string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session has passed its expiry at the given instant.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
