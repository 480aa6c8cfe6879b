// Copyright (c) 2026 MangaMania. All rights reserved.

// Package pagination provides page/limit parsing and response metadata for
// list endpoints.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPage is used when the client omits the page parameter.
	DefaultPage = 1
	// DefaultLimit is used when the client omits the limit parameter.
	DefaultLimit = 24
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// Params holds the sanitized pagination inputs of a list request.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the pagination state of a list response.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// FromRequest extracts and sanitizes pagination parameters from the query
// string. Out-of-range or malformed values silently fall back to defaults;
// a bad page number is never a client error.
func FromRequest(request *http.Request) Params {
	params := Params{Page: DefaultPage, Limit: DefaultLimit}

	if raw := request.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			params.Page = page
		}
	}

	if raw := request.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			if limit > MaxLimit {
				limit = MaxLimit
			}
			params.Limit = limit
		}
	}

	return params
}

// Offset returns the row offset for SQL OFFSET clauses.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// NewMeta computes the response metadata for a given total item count.
func NewMeta(params Params, totalItems int64) Meta {
	totalPages := int((totalItems + int64(params.Limit) - 1) / int64(params.Limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
