// Copyright (c) 2026 MangaMania. All rights reserved.

package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mangamania/api/internal/platform/apperr"
	"github.com/mangamania/api/internal/platform/sec"
	"github.com/mangamania/api/internal/platform/validate"
	"github.com/mangamania/api/pkg/uuid"
)

// TokenProvider abstracts JWT generation for the service layer.
type TokenProvider interface {
	GenerateAccessToken(userID, email string, timeToLive time.Duration) (string, error)
}

// ClientInfo carries request metadata recorded on each session.
type ClientInfo struct {
	UserAgent string
	IP        string
}

// Credentials is the result of a successful login or refresh.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	User         Profile
}

// Service implements the authentication business logic.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenProvider
	logger   *slog.Logger
}

// NewService creates a new authentication service.
func NewService(users UserRepository, sessions SessionRepository, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

/*
Register creates a new user account and opens an initial session.

Parameters:
  - ctx: Request context.
  - email, password, displayName: Registration inputs. Email is normalized to lowercase.
  - client: Request metadata recorded on the session.

Returns:
  - *Credentials: Access token, refresh token, and the new profile.
  - error: VALIDATION_ERROR on bad input, CONFLICT if the email is taken.
*/
func (service *Service) Register(ctx context.Context, email, password, displayName string, client ClientInfo) (*Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)

	// ── 1. Input validation ──
	validator := &validate.Validator{}
	validator.
		Required("email", email).
		Email("email", email).
		Required("password", password).
		MinLen("password", password, passwordMinLen).
		MaxLen("password", password, passwordMaxLen).
		MaxLen("display_name", displayName, displayNameMaxLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if displayName == "" {
		// Default the display name to the local part of the email.
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	// ── 2. Hash the password ──
	passwordHash, err := sec.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	// ── 3. Persist the account ──
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
	}
	if err := service.users.Create(ctx, user); err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "CONFLICT" {
			return nil, apperr.Conflict("An account with this email already exists")
		}
		return nil, err
	}

	service.logger.InfoContext(ctx, "user_registered",
		slog.String("user_id", user.ID),
	)

	// ── 4. Open a session so the client is logged in immediately ──
	return service.issueCredentials(ctx, user, client)
}

/*
Login verifies credentials and opens a new session.

Returns:
  - *Credentials: Access token, refresh token, and the profile.
  - error: UNAUTHORIZED on unknown email or wrong password. The two cases are
    deliberately indistinguishable to the client.
*/
func (service *Service) Login(ctx context.Context, email, password string, client ClientInfo) (*Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	validator := &validate.Validator{}
	validator.
		Required("email", email).
		Required("password", password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	invalidCredentials := apperr.Unauthorized("Invalid email or password")

	user, err := service.users.GetByEmail(ctx, email)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "NOT_FOUND" {
			return nil, invalidCredentials
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		service.logger.WarnContext(ctx, "login_failed_bad_password",
			slog.String("user_id", user.ID),
		)
		return nil, invalidCredentials
	}

	service.logger.InfoContext(ctx, "user_logged_in",
		slog.String("user_id", user.ID),
	)

	return service.issueCredentials(ctx, user, client)
}

/*
Logout revokes the session identified by the raw refresh token.

Logging out with an unknown or already-revoked token succeeds silently;
the end state (no session) is the same.
*/
func (service *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return service.sessions.DeleteByTokenHash(ctx, sec.HashToken(refreshToken))
}

/*
RefreshSession exchanges a valid refresh token for a new token pair.

The old session is revoked and replaced (rotation), so a stolen refresh
token stops working the moment the legitimate client uses it.

Returns:
  - *Credentials: Fresh access and refresh tokens.
  - error: UNAUTHORIZED if the token is unknown or expired.
*/
func (service *Service) RefreshSession(ctx context.Context, refreshToken string, client ClientInfo) (*Credentials, error) {
	if refreshToken == "" {
		return nil, apperr.Unauthorized("Missing refresh token")
	}

	session, err := service.sessions.GetByTokenHash(ctx, sec.HashToken(refreshToken))
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "NOT_FOUND" {
			return nil, apperr.Unauthorized("Invalid refresh token")
		}
		return nil, err
	}

	if session.IsExpired(time.Now()) {
		_ = service.sessions.Delete(ctx, session.ID)
		return nil, apperr.Unauthorized("Session expired")
	}

	user, err := service.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	// Rotation: the presented token is single-use.
	if err := service.sessions.Delete(ctx, session.ID); err != nil {
		return nil, err
	}

	return service.issueCredentials(ctx, user, client)
}

/*
GetProfile returns the client-safe profile of the given user.
*/
func (service *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := service.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := user.ToProfile()
	return &profile, nil
}

/*
PurgeExpiredSessions removes sessions past their expiry. Intended to be
called periodically by the composition root.
*/
func (service *Service) PurgeExpiredSessions(ctx context.Context) error {
	removed, err := service.sessions.DeleteExpired(ctx)
	if err != nil {
		return err
	}

	if removed > 0 {
		service.logger.InfoContext(ctx, "expired_sessions_purged",
			slog.Int64("count", removed),
		)
	}
	return nil
}

// issueCredentials signs an access token and persists a fresh refresh session.
func (service *Service) issueCredentials(ctx context.Context, user *User, client ClientInfo) (*Credentials, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Email, AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	refreshToken, err := sec.GenerateSecureToken(refreshTokenBytes)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: client.UserAgent,
		IP:        client.IP,
		ExpiresAt: time.Now().Add(RefreshTokenTTL),
	}
	if err := service.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &Credentials{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToProfile(),
	}, nil
}
