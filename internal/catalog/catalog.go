// Copyright (c) 2026 MangaMania. All rights reserved.

/*
Package catalog integrates the upstream Jikan manga metadata API.

It exposes search, top-ranked listing, and per-title detail lookups, fronted
by a Redis read-through cache so that repeated browsing stays well inside the
upstream rate limits.

Architecture:

  - Entities: Wire-compatible projections of the Jikan JSON payloads (this file).
  - Client: Outbound HTTP with timeouts and error translation.
  - Cache: Redis read-through layer keyed by query.
  - Service: Orchestrates cache and client.
  - HTTP: Transport layer mounted under /api/v1/catalog.
*/
package catalog

// Entry is a single manga title as returned by the upstream catalog.
//
// Field names mirror the upstream JSON so cached payloads round-trip without
// a mapping layer. Chapters and Volumes are pointers: the upstream reports
// null for ongoing serializations.
type Entry struct {
	MalID          int         `json:"mal_id"`
	URL            string      `json:"url"`
	Images         ImageSet    `json:"images"`
	Title          string      `json:"title"`
	TitleEnglish   *string     `json:"title_english"`
	TitleJapanese  *string     `json:"title_japanese"`
	Type           string      `json:"type"`
	Chapters       *int        `json:"chapters"`
	Volumes        *int        `json:"volumes"`
	Status         string      `json:"status"`
	Publishing     bool        `json:"publishing"`
	Published      Published   `json:"published"`
	Score          *float64    `json:"score"`
	Rank           *int        `json:"rank"`
	Popularity     *int        `json:"popularity"`
	Members        *int        `json:"members"`
	Favorites      *int        `json:"favorites"`
	Synopsis       *string     `json:"synopsis"`
	Authors        []Reference `json:"authors"`
	Serializations []Reference `json:"serializations"`
	Genres         []Reference `json:"genres"`
	Themes         []Reference `json:"themes"`
	Demographics   []Reference `json:"demographics"`
}

// ImageSet holds the two image encodings the upstream provides.
type ImageSet struct {
	JPG  ImageVariants `json:"jpg"`
	WebP ImageVariants `json:"webp"`
}

// ImageVariants holds the three resolutions of a cover image.
type ImageVariants struct {
	ImageURL      string `json:"image_url"`
	SmallImageURL string `json:"small_image_url"`
	LargeImageURL string `json:"large_image_url"`
}

// Published describes the serialization window of a title.
type Published struct {
	From   *string `json:"from"`
	To     *string `json:"to"`
	String string  `json:"string"`
}

// Reference is a named related resource (author, magazine, genre, theme).
type Reference struct {
	MalID int    `json:"mal_id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// Page is a list of entries plus the upstream pagination state.
type Page struct {
	Entries    []Entry        `json:"data"`
	Pagination PageIndicators `json:"pagination"`
}

// PageIndicators mirrors the upstream pagination block.
type PageIndicators struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
	CurrentPage     int  `json:"current_page"`
	Items           struct {
		Count   int `json:"count"`
		Total   int `json:"total"`
		PerPage int `json:"per_page"`
	} `json:"items"`
}
