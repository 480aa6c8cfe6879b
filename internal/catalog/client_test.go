// Copyright (c) 2026 MangaMania. All rights reserved.

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangamania/api/internal/platform/apperr"
)

func TestClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/manga", request.URL.Path)
		assert.Equal(t, "one piece", request.URL.Query().Get("q"))
		assert.Equal(t, "2", request.URL.Query().Get("page"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"data": [{"mal_id": 13, "title": "One Piece", "publishing": true}],
			"pagination": {"last_visible_page": 5, "has_next_page": true, "current_page": 2}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	page, err := client.Search(context.Background(), "one piece", 2)
	require.NoError(t, err)

	require.Len(t, page.Entries, 1)
	assert.Equal(t, 13, page.Entries[0].MalID)
	assert.Equal(t, "One Piece", page.Entries[0].Title)
	assert.True(t, page.Entries[0].Publishing)
	assert.True(t, page.Pagination.HasNextPage)
}

func TestClientGetByID(t *testing.T) {
	t.Run("unwraps the data envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/manga/13/full", request.URL.Path)
			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`{"data": {"mal_id": 13, "title": "One Piece", "volumes": null}}`))
		}))
		defer server.Close()

		client := NewClient(server.URL)
		entry, err := client.GetByID(context.Background(), 13)
		require.NoError(t, err)

		assert.Equal(t, 13, entry.MalID)
		assert.Nil(t, entry.Volumes)
	})

	t.Run("upstream 404 maps to not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.GetByID(context.Background(), 999999)
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "NOT_FOUND", appError.Code)
	})
}

func TestClientUpstreamFailures(t *testing.T) {
	t.Run("5xx maps to bad gateway", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.Top(context.Background(), 1)
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "BAD_GATEWAY", appError.Code)
	})

	t.Run("malformed body maps to bad gateway", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(`<html>not json</html>`))
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.Top(context.Background(), 1)
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "BAD_GATEWAY", appError.Code)
	})

	t.Run("connection refused maps to bad gateway", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1")
		_, err := client.Search(context.Background(), "naruto", 1)
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "BAD_GATEWAY", appError.Code)
	})
}
