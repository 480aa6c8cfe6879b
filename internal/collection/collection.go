// Copyright (c) 2026 MangaMania. All rights reserved.

/*
Package collection implements the personal manga library.

Each user tracks the titles they own or read, with a reading status and a
chapter progress counter. A title can appear at most once per user; the
storage layer enforces this with a unique index.

Architecture:

  - Entities: Item and ReadingStatus (this file).
  - Store: Repository interface + PostgreSQL implementation.
  - Service: Business rules (duplicate guard, progress clamping).
  - HTTP: Transport layer mounted under /api/v1/collection.
*/
package collection

import "time"

// ReadingStatus is the closed set of states a tracked title can be in.
type ReadingStatus string

const (
	StatusReading    ReadingStatus = "reading"
	StatusCompleted  ReadingStatus = "completed"
	StatusOnHold     ReadingStatus = "on-hold"
	StatusDropped    ReadingStatus = "dropped"
	StatusPlanToRead ReadingStatus = "plan-to-read"
)

// AllStatuses lists every valid status, in display order.
var AllStatuses = []ReadingStatus{
	StatusReading,
	StatusCompleted,
	StatusOnHold,
	StatusDropped,
	StatusPlanToRead,
}

// IsValid reports whether the status is a member of the closed set.
func (s ReadingStatus) IsValid() bool {
	switch s {
	case StatusReading, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanToRead:
		return true
	}
	return false
}

// StatusNames returns the valid statuses as plain strings, for validation messages.
func StatusNames() []string {
	names := make([]string, len(AllStatuses))
	for index, status := range AllStatuses {
		names[index] = string(status)
	}
	return names
}

// Item is one tracked title in a user's library.
type Item struct {
	ID     string `json:"id"`
	UserID string `json:"-"`
	MalID  int    `json:"mal_id"`

	// Snapshot of catalog metadata taken when the title was added, so the
	// library renders without a catalog round trip.
	Title         string   `json:"title"`
	CoverURL      string   `json:"cover_url"`
	Synopsis      string   `json:"synopsis"`
	TotalChapters *int     `json:"total_chapters"`
	TotalVolumes  *int     `json:"total_volumes"`
	Score         *float64 `json:"score"`

	Status       ReadingStatus `json:"status"`
	ChaptersRead int           `json:"chapters_read"`
	VolumesRead  int           `json:"volumes_read"`
	AddedAt      time.Time     `json:"added_at"`
	LastReadAt   *time.Time    `json:"last_read_at"`
}

// Stats summarizes a user's library per status.
type Stats struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	ChaptersRead int            `json:"chapters_read"`
}
