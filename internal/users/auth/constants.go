// Copyright (c) 2026 MangaMania. All rights reserved.

package auth

import "time"

const (
	// AccessTokenTTL is the lifetime of a signed JWT access token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the lifetime of a refresh session.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// refreshTokenBytes is the entropy of the opaque refresh token.
	refreshTokenBytes = 32

	// Password policy bounds.
	passwordMinLen = 8
	passwordMaxLen = 72 // bcrypt input limit

	displayNameMaxLen = 50
)
