// Copyright (c) 2026 MangaMania. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mangamania/api/internal/platform/constants"
)

// Source is the upstream the service reads from. Satisfied by [*Client].
type Source interface {
	Search(ctx context.Context, query string, page int) (*Page, error)
	Top(ctx context.Context, page int) (*Page, error)
	GetByID(ctx context.Context, malID int) (*Entry, error)
}

// Service orchestrates the upstream client and the Redis read-through cache.
//
// Cache failures never fail a request: on any cache error the service logs
// a warning and falls through to the upstream.
type Service struct {
	source Source
	cache  Cache
	logger *slog.Logger
}

// NewService creates a new catalog service.
func NewService(source Source, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

/*
Search returns titles matching a free-text query.

Parameters:
  - ctx: Request context.
  - query: Free-text search term (already validated non-empty by the handler).
  - page: 1-based page number.

Returns:
  - *Page: Matching entries plus upstream pagination state.
*/
func (service *Service) Search(ctx context.Context, query string, page int) (*Page, error) {
	key := fmt.Sprintf("%s%s:%d", constants.RedisPrefixCatalogSearch, normalizeQuery(query), page)

	result := &Page{}
	if service.readCache(ctx, key, result) {
		return result, nil
	}

	result, err := service.source.Search(ctx, query, page)
	if err != nil {
		return nil, err
	}

	service.writeCache(ctx, key, result, searchTTL)
	return result, nil
}

/*
Top returns the upstream top-ranked listing.
*/
func (service *Service) Top(ctx context.Context, page int) (*Page, error) {
	key := fmt.Sprintf("%s:%d", constants.RedisPrefixCatalogTop, page)

	result := &Page{}
	if service.readCache(ctx, key, result) {
		return result, nil
	}

	result, err := service.source.Top(ctx, page)
	if err != nil {
		return nil, err
	}

	service.writeCache(ctx, key, result, topTTL)
	return result, nil
}

/*
GetByID returns the full record of a single title.

Returns:
  - *Entry: The title's full metadata.
  - error: NOT_FOUND if the upstream has no such ID.
*/
func (service *Service) GetByID(ctx context.Context, malID int) (*Entry, error) {
	key := fmt.Sprintf("%s%d", constants.RedisPrefixCatalogDetail, malID)

	result := &Entry{}
	if service.readCache(ctx, key, result) {
		return result, nil
	}

	result, err := service.source.GetByID(ctx, malID)
	if err != nil {
		return nil, err
	}

	service.writeCache(ctx, key, result, detailTTL)
	return result, nil
}

// readCache attempts to load and unmarshal a cached payload into target.
// Returns true only on a clean hit.
func (service *Service) readCache(ctx context.Context, key string, target interface{}) bool {
	payload, err := service.cache.Get(ctx, key)
	if err != nil {
		service.logger.WarnContext(ctx, "catalog_cache_read_failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}
	if payload == nil {
		return false
	}

	if err := json.Unmarshal(payload, target); err != nil {
		service.logger.WarnContext(ctx, "catalog_cache_corrupt_entry",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}

	return true
}

// writeCache marshals and stores a payload. Failures are logged, not returned.
func (service *Service) writeCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		service.logger.WarnContext(ctx, "catalog_cache_marshal_failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := service.cache.Set(ctx, key, payload, ttl); err != nil {
		service.logger.WarnContext(ctx, "catalog_cache_write_failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// normalizeQuery folds a search term into a stable cache key component.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
