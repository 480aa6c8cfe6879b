// Copyright (c) 2026 MangaMania. All rights reserved.

/*
Package releases derives a volume release calendar from catalog metadata.

The upstream catalog API has no release schedule endpoint, so this package
synthesizes plausible upcoming volume releases from currently-publishing
titles, caches the result, and serves date, month, and upcoming views plus a
6-week calendar grid.

Architecture:

  - Entities: Release and ReleaseSet (this file).
  - Service: Synthesis algorithm, single-slot TTL cache, per-view queries.
  - Calendar: Month grid construction.
  - HTTP: Transport layer mounted under /api/v1/releases and /api/v1/calendar.
*/
package releases

import "time"

// DateLayout is the wire format for release dates. Lexicographic order on
// this layout matches chronological order, which the sort logic relies on.
const DateLayout = "2006-01-02"

// Release is a single synthesized volume release event.
type Release struct {
	// ID is unique per synthesis pass: "<malID>-<volume>-<unixMillis>".
	ID        string `json:"id"`
	MalID     int    `json:"mal_id"`
	Title     string `json:"title"`
	Volume    int    `json:"volume"`
	Date      string `json:"date"`
	Publisher string `json:"publisher"`
	Price     string `json:"price"`
	CoverURL  string `json:"cover_url"`
	// IsNew marks releases dated exactly today.
	IsNew bool `json:"is_new"`
}

// ReleaseSet is a list of releases plus a provenance marker.
//
// Approximate is true when the upstream catalog was unreachable and the
// releases were generated from the built-in fallback titles instead of live
// metadata. Clients can surface this as a "schedule is approximate" hint.
type ReleaseSet struct {
	Releases    []Release `json:"releases"`
	Approximate bool      `json:"approximate"`
}

// publishers is the fixed pool of French manga publishers assigned to
// synthesized releases.
var publishers = []string{
	"Glénat",
	"Kana",
	"Pika",
	"Kurokawa",
	"Ki-oon",
	"Kazé",
	"Delcourt/Tonkam",
	"Panini Manga",
	"Soleil Manga",
	"Doki-Doki",
}

// fallbackTitle is a well-known series used when the catalog is unreachable.
type fallbackTitle struct {
	malID int
	title string
}

// fallbackTitles seed the degraded-mode schedule. All IDs are real catalog IDs
// so detail links from a fallback release still resolve.
var fallbackTitles = []fallbackTitle{
	{13, "One Piece"},
	{2, "Berserk"},
	{656, "Vagabond"},
	{642, "Vinland Saga"},
	{30, "Kingdom"},
	{1, "Monster"},
	{3, "20th Century Boys"},
	{23390, "Shingeki no Kyojin"},
	{116778, "Chainsaw Man"},
	{11, "Naruto"},
}

// sameDay reports whether two instants fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	yearA, monthA, dayA := a.Date()
	yearB, monthB, dayB := b.Date()
	return yearA == yearB && monthA == monthB && dayA == dayB
}
