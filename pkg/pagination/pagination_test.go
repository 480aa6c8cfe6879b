// Copyright (c) 2026 MangaMania. All rights reserved.

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	t.Run("missing parameters fall back to defaults", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/", nil)
		params := FromRequest(request)
		assert.Equal(t, DefaultPage, params.Page)
		assert.Equal(t, DefaultLimit, params.Limit)
	})

	t.Run("malformed values are ignored, not rejected", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/?page=abc&limit=-5", nil)
		params := FromRequest(request)
		assert.Equal(t, DefaultPage, params.Page)
		assert.Equal(t, DefaultLimit, params.Limit)
	})

	t.Run("limit is capped", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/?page=3&limit=9999", nil)
		params := FromRequest(request)
		assert.Equal(t, 3, params.Page)
		assert.Equal(t, MaxLimit, params.Limit)
	})
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 24}.Offset())
	assert.Equal(t, 48, Params{Page: 3, Limit: 24}.Offset())
}

func TestNewMeta(t *testing.T) {
	t.Run("middle page has both neighbors", func(t *testing.T) {
		meta := NewMeta(Params{Page: 2, Limit: 10}, 35)
		assert.Equal(t, 4, meta.TotalPages)
		assert.True(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})

	t.Run("an empty result still reports one page", func(t *testing.T) {
		meta := NewMeta(Params{Page: 1, Limit: 10}, 0)
		assert.Equal(t, 1, meta.TotalPages)
		assert.False(t, meta.HasNext)
		assert.False(t, meta.HasPrev)
	})
}
