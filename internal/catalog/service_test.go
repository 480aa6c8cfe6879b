// Copyright (c) 2026 MangaMania. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// # Test Fakes

type fakeSource struct {
	searchCalls int
	topCalls    int
	detailCalls int
	page        *Page
	entry       *Entry
	err         error
}

func (s *fakeSource) Search(_ context.Context, _ string, _ int) (*Page, error) {
	s.searchCalls++
	return s.page, s.err
}

func (s *fakeSource) Top(_ context.Context, _ int) (*Page, error) {
	s.topCalls++
	return s.page, s.err
}

func (s *fakeSource) GetByID(_ context.Context, _ int) (*Entry, error) {
	s.detailCalls++
	return s.entry, s.err
}

type memoryCache struct {
	entries map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[key], nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func newTestCatalogService(source *fakeSource, cache Cache) *Service {
	return NewService(source, cache, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// # Read-Through Behavior

func TestServiceSearchCaching(t *testing.T) {
	ctx := context.Background()
	samplePage := &Page{Entries: []Entry{{MalID: 13, Title: "One Piece"}}}

	t.Run("second identical query is served from cache", func(t *testing.T) {
		source := &fakeSource{page: samplePage}
		cache := newMemoryCache()
		service := newTestCatalogService(source, cache)

		first, err := service.Search(ctx, "one piece", 1)
		require.NoError(t, err)

		second, err := service.Search(ctx, "one piece", 1)
		require.NoError(t, err)

		assert.Equal(t, 1, source.searchCalls)
		assert.Equal(t, first.Entries, second.Entries)
	})

	t.Run("query normalization folds case and whitespace", func(t *testing.T) {
		source := &fakeSource{page: samplePage}
		cache := newMemoryCache()
		service := newTestCatalogService(source, cache)

		_, err := service.Search(ctx, "One  Piece", 1)
		require.NoError(t, err)
		_, err = service.Search(ctx, "one piece", 1)
		require.NoError(t, err)

		assert.Equal(t, 1, source.searchCalls)
	})

	t.Run("distinct pages are cached separately", func(t *testing.T) {
		source := &fakeSource{page: samplePage}
		cache := newMemoryCache()
		service := newTestCatalogService(source, cache)

		_, err := service.Search(ctx, "one piece", 1)
		require.NoError(t, err)
		_, err = service.Search(ctx, "one piece", 2)
		require.NoError(t, err)

		assert.Equal(t, 2, source.searchCalls)
	})

	t.Run("cache error degrades to direct upstream call", func(t *testing.T) {
		source := &fakeSource{page: samplePage}
		cache := newMemoryCache()
		cache.getErr = errors.New("connection reset")
		service := newTestCatalogService(source, cache)

		result, err := service.Search(ctx, "one piece", 1)
		require.NoError(t, err)
		assert.Len(t, result.Entries, 1)
		assert.Equal(t, 1, source.searchCalls)
	})

	t.Run("corrupt cache entry falls through to upstream", func(t *testing.T) {
		source := &fakeSource{page: samplePage}
		cache := newMemoryCache()
		service := newTestCatalogService(source, cache)

		_, err := service.Search(ctx, "one piece", 1)
		require.NoError(t, err)

		// Corrupt the only stored entry, then query again.
		for key := range cache.entries {
			cache.entries[key] = []byte("{truncated")
		}

		result, err := service.Search(ctx, "one piece", 1)
		require.NoError(t, err)
		assert.Len(t, result.Entries, 1)
		assert.Equal(t, 2, source.searchCalls)
	})
}

func TestServiceTTLsPerQueryClass(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{
		page:  &Page{Entries: []Entry{{MalID: 13}}},
		entry: &Entry{MalID: 13},
	}
	cache := newMemoryCache()
	service := newTestCatalogService(source, cache)

	_, err := service.Search(ctx, "naruto", 1)
	require.NoError(t, err)
	_, err = service.Top(ctx, 1)
	require.NoError(t, err)
	_, err = service.GetByID(ctx, 13)
	require.NoError(t, err)

	seen := make(map[time.Duration]bool)
	for _, ttl := range cache.ttls {
		seen[ttl] = true
	}
	assert.True(t, seen[searchTTL])
	assert.True(t, seen[topTTL])
	assert.True(t, seen[detailTTL])
}

func TestServiceUpstreamErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{err: errors.New("upstream down")}
	cache := newMemoryCache()
	service := newTestCatalogService(source, cache)

	_, err := service.Top(ctx, 1)
	require.Error(t, err)
	assert.Empty(t, cache.entries)
}
