// Copyright (c) 2026 MangaMania. All rights reserved.

// Package uuid generates time-sortable unique identifiers for database rows.
package uuid

import "github.com/google/uuid"

// New returns a new UUIDv7 string.
//
// UUIDv7 embeds a millisecond timestamp in its high bits, so primary keys
// generated by this function sort by creation time, which keeps B-tree
// indexes append-mostly.
//
// It falls back to a random UUIDv4 in the unlikely event that the system
// entropy source fails mid-generation.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
