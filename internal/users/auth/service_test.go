// Copyright (c) 2026 MangaMania. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangamania/api/internal/platform/apperr"
	"github.com/mangamania/api/internal/platform/sec"
)

// # Test Fakes

type fakeUserRepo struct {
	byEmail map[string]*User
	byID    map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*User),
		byID:    make(map[string]*User),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *User) error {
	if _, exists := r.byEmail[user.Email]; exists {
		return apperr.Conflict("duplicate email")
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	user, found := r.byEmail[email]
	if !found {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*User, error) {
	user, found := r.byID[id]
	if !found {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

type fakeSessionRepo struct {
	byHash map[string]*Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byHash: make(map[string]*Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *Session) error {
	session.CreatedAt = time.Now()
	r.byHash[session.TokenHash] = session
	return nil
}

func (r *fakeSessionRepo) GetByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	session, found := r.byHash[tokenHash]
	if !found {
		return nil, apperr.NotFound("Session")
	}
	return session, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	for hash, session := range r.byHash {
		if session.ID == id {
			delete(r.byHash, hash)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	delete(r.byHash, tokenHash)
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	var removed int64
	for hash, session := range r.byHash {
		if session.IsExpired(time.Now()) {
			delete(r.byHash, hash)
			removed++
		}
	}
	return removed, nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _ string, _ time.Duration) (string, error) {
	return fmt.Sprintf("signed-token-for-%s", userID), nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeSessionRepo) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	service := NewService(users, sessions, fakeTokenProvider{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, users, sessions
}

var testClient = ClientInfo{UserAgent: "test-agent", IP: "127.0.0.1"}

// # Register

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and opens session", func(t *testing.T) {
		service, users, sessions := newTestService()

		credentials, err := service.Register(ctx, "Reader@Example.com", "s3cret-pass", "Reader", testClient)
		require.NoError(t, err)

		assert.NotEmpty(t, credentials.AccessToken)
		assert.NotEmpty(t, credentials.RefreshToken)
		assert.Equal(t, "reader@example.com", credentials.User.Email)
		assert.Equal(t, "Reader", credentials.User.DisplayName)

		// Password must be stored hashed, never verbatim.
		stored := users.byEmail["reader@example.com"]
		require.NotNil(t, stored)
		assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
		assert.True(t, sec.CheckPasswordHash("s3cret-pass", stored.PasswordHash))

		assert.Len(t, sessions.byHash, 1)
	})

	t.Run("duplicate email returns conflict", func(t *testing.T) {
		service, _, _ := newTestService()

		_, err := service.Register(ctx, "reader@example.com", "s3cret-pass", "", testClient)
		require.NoError(t, err)

		_, err = service.Register(ctx, "reader@example.com", "another-pass", "", testClient)
		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
	})

	t.Run("rejects short password", func(t *testing.T) {
		service, _, _ := newTestService()

		_, err := service.Register(ctx, "reader@example.com", "short", "", testClient)
		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	})

	t.Run("defaults display name to email local part", func(t *testing.T) {
		service, _, _ := newTestService()

		credentials, err := service.Register(ctx, "otaku@example.com", "s3cret-pass", "", testClient)
		require.NoError(t, err)
		assert.Equal(t, "otaku", credentials.User.DisplayName)
	})
}

// # Login

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials succeed", func(t *testing.T) {
		service, _, _ := newTestService()
		_, err := service.Register(ctx, "reader@example.com", "s3cret-pass", "Reader", testClient)
		require.NoError(t, err)

		credentials, err := service.Login(ctx, "reader@example.com", "s3cret-pass", testClient)
		require.NoError(t, err)
		assert.NotEmpty(t, credentials.AccessToken)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		service, _, _ := newTestService()
		_, err := service.Register(ctx, "reader@example.com", "s3cret-pass", "", testClient)
		require.NoError(t, err)

		_, err = service.Login(ctx, "reader@example.com", "wrong-pass", testClient)
		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "UNAUTHORIZED", appError.Code)
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		service, _, _ := newTestService()
		_, err := service.Register(ctx, "reader@example.com", "s3cret-pass", "", testClient)
		require.NoError(t, err)

		_, errUnknown := service.Login(ctx, "ghost@example.com", "s3cret-pass", testClient)
		_, errWrongPass := service.Login(ctx, "reader@example.com", "wrong-pass", testClient)

		require.Error(t, errUnknown)
		require.Error(t, errWrongPass)
		assert.Equal(t, errWrongPass.Error(), errUnknown.Error())
	})
}

// # Session Lifecycle

func TestRefreshSession(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the refresh token", func(t *testing.T) {
		service, _, sessions := newTestService()
		initial, err := service.Register(ctx, "reader@example.com", "s3cret-pass", "", testClient)
		require.NoError(t, err)

		refreshed, err := service.RefreshSession(ctx, initial.RefreshToken, testClient)
		require.NoError(t, err)
		assert.NotEqual(t, initial.RefreshToken, refreshed.RefreshToken)

		// The old token is single-use: a replay must be rejected.
		_, err = service.RefreshSession(ctx, initial.RefreshToken, testClient)
		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "UNAUTHORIZED", appError.Code)

		assert.Len(t, sessions.byHash, 1)
	})

	t.Run("expired session is rejected and removed", func(t *testing.T) {
		service, _, sessions := newTestService()
		initial, err := service.Register(ctx, "reader@example.com", "s3cret-pass", "", testClient)
		require.NoError(t, err)

		// Force the stored session into the past.
		for _, session := range sessions.byHash {
			session.ExpiresAt = time.Now().Add(-time.Hour)
		}

		_, err = service.RefreshSession(ctx, initial.RefreshToken, testClient)
		require.Error(t, err)
		assert.Empty(t, sessions.byHash)
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		service, _, _ := newTestService()

		_, err := service.RefreshSession(ctx, "deadbeef", testClient)
		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "UNAUTHORIZED", appError.Code)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the session", func(t *testing.T) {
		service, _, sessions := newTestService()
		credentials, err := service.Register(ctx, "reader@example.com", "s3cret-pass", "", testClient)
		require.NoError(t, err)
		require.Len(t, sessions.byHash, 1)

		require.NoError(t, service.Logout(ctx, credentials.RefreshToken))
		assert.Empty(t, sessions.byHash)
	})

	t.Run("is idempotent", func(t *testing.T) {
		service, _, _ := newTestService()
		assert.NoError(t, service.Logout(ctx, "never-issued"))
		assert.NoError(t, service.Logout(ctx, ""))
	})
}

func TestPurgeExpiredSessions(t *testing.T) {
	ctx := context.Background()
	service, _, sessions := newTestService()

	_, err := service.Register(ctx, "fresh@example.com", "s3cret-pass", "", testClient)
	require.NoError(t, err)
	_, err = service.Register(ctx, "stale@example.com", "s3cret-pass", "", testClient)
	require.NoError(t, err)

	var expired int
	for _, session := range sessions.byHash {
		if expired == 0 {
			session.ExpiresAt = time.Now().Add(-time.Minute)
			expired++
		}
	}

	require.NoError(t, service.PurgeExpiredSessions(ctx))
	assert.Len(t, sessions.byHash, 1)
}
