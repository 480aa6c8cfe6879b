// Copyright (c) 2026 MangaMania. All rights reserved.

package collection

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangamania/api/internal/platform/ctxutil"
	"github.com/mangamania/api/internal/platform/sec"
	"github.com/mangamania/api/pkg/pagination"
)

func newTestHandler() (*Handler, *fakeRepo) {
	repo := newFakeRepo()
	service := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewHandler(service), repo
}

// authedRequest builds a request carrying verified claims, as the
// authentication middleware would after a valid bearer token.
func authedRequest(method, target, body string) *http.Request {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	claims := &sec.AuthClaims{UserID: userID, Email: "reader@example.com"}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

func TestCollectionRoutesRequireAuth(t *testing.T) {
	handler, repo := newTestHandler()
	router := handler.Routes()

	targets := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodPost, "/"},
		{http.MethodGet, "/stats"},
		{http.MethodGet, "/13/exists"},
		{http.MethodPatch, "/13"},
		{http.MethodDelete, "/13"},
	}

	for _, target := range targets {
		t.Run(target.method+" "+target.path, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(target.method, target.path, nil)

			router.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Empty(t, repo.items)
		})
	}
}

func TestCollectionListEndpoint(t *testing.T) {
	handler, _ := newTestHandler()
	router := handler.Routes()

	for _, body := range []string{
		`{"mal_id": 13, "title": "One Piece"}`,
		`{"mal_id": 2, "title": "Berserk"}`,
		`{"mal_id": 656, "title": "Vagabond"}`,
	} {
		created := httptest.NewRecorder()
		router.ServeHTTP(created, authedRequest(http.MethodPost, "/", body))
		require.Equal(t, http.StatusCreated, created.Code)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, authedRequest(http.MethodGet, "/?page=1&limit=2", ""))
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []Item          `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	require.Len(t, envelope.Data, 2)
	assert.Equal(t, 656, envelope.Data[0].MalID)
	assert.Equal(t, 2, envelope.Data[1].MalID)
	assert.EqualValues(t, 3, envelope.Meta.TotalItems)
	assert.Equal(t, 2, envelope.Meta.TotalPages)
	assert.True(t, envelope.Meta.HasNext)
	assert.False(t, envelope.Meta.HasPrev)
}

func TestCollectionAddEndpoint(t *testing.T) {
	t.Run("creates an item and returns 201", func(t *testing.T) {
		handler, repo := newTestHandler()
		recorder := httptest.NewRecorder()

		request := authedRequest(http.MethodPost, "/",
			`{"mal_id": 13, "title": "One Piece", "cover_url": "https://cdn.example/13.webp"}`)
		handler.Routes().ServeHTTP(recorder, request)

		require.Equal(t, http.StatusCreated, recorder.Code)
		assert.Len(t, repo.items, 1)

		var envelope struct {
			Data Item `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, StatusPlanToRead, envelope.Data.Status)
		assert.Equal(t, 13, envelope.Data.MalID)
	})

	t.Run("duplicate add returns 409", func(t *testing.T) {
		handler, _ := newTestHandler()
		router := handler.Routes()
		body := `{"mal_id": 13, "title": "One Piece"}`

		first := httptest.NewRecorder()
		router.ServeHTTP(first, authedRequest(http.MethodPost, "/", body))
		require.Equal(t, http.StatusCreated, first.Code)

		second := httptest.NewRecorder()
		router.ServeHTTP(second, authedRequest(http.MethodPost, "/", body))
		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		handler, _ := newTestHandler()
		recorder := httptest.NewRecorder()

		handler.Routes().ServeHTTP(recorder, authedRequest(http.MethodPost, "/", `{broken`))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestCollectionUpdateEndpoint(t *testing.T) {
	t.Run("patches progress", func(t *testing.T) {
		handler, _ := newTestHandler()
		router := handler.Routes()

		created := httptest.NewRecorder()
		router.ServeHTTP(created, authedRequest(http.MethodPost, "/",
			`{"mal_id": 13, "title": "One Piece", "total_chapters": 1100}`))
		require.Equal(t, http.StatusCreated, created.Code)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, authedRequest(http.MethodPatch, "/13",
			`{"status": "reading", "chapters_read": 42}`))
		require.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Data Item `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, StatusReading, envelope.Data.Status)
		assert.Equal(t, 42, envelope.Data.ChaptersRead)
	})

	t.Run("unknown title returns 404", func(t *testing.T) {
		handler, _ := newTestHandler()
		recorder := httptest.NewRecorder()

		handler.Routes().ServeHTTP(recorder, authedRequest(http.MethodPatch, "/999",
			`{"status": "completed"}`))
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestCollectionRemoveEndpoint(t *testing.T) {
	handler, _ := newTestHandler()
	router := handler.Routes()

	created := httptest.NewRecorder()
	router.ServeHTTP(created, authedRequest(http.MethodPost, "/", `{"mal_id": 13, "title": "One Piece"}`))
	require.Equal(t, http.StatusCreated, created.Code)

	// First delete removes the row; the repeat is still a 204.
	for attempt := 0; attempt < 2; attempt++ {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, authedRequest(http.MethodDelete, "/13", ""))
		assert.Equal(t, http.StatusNoContent, recorder.Code)
	}
}

func TestCollectionExistsEndpoint(t *testing.T) {
	handler, _ := newTestHandler()
	router := handler.Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, authedRequest(http.MethodGet, "/13/exists", ""))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data": {"exists": false}}`, recorder.Body.String())

	created := httptest.NewRecorder()
	router.ServeHTTP(created, authedRequest(http.MethodPost, "/", `{"mal_id": 13, "title": "One Piece"}`))
	require.Equal(t, http.StatusCreated, created.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, authedRequest(http.MethodGet, "/13/exists", ""))
	assert.JSONEq(t, `{"data": {"exists": true}}`, recorder.Body.String())
}
