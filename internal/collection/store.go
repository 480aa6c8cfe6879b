// Copyright (c) 2026 MangaMania. All rights reserved.

package collection

import "context"

// Repository defines persistence operations for library items.
//
// Implementations must return apperr-wrapped errors (NOT_FOUND, CONFLICT)
// so the service layer never inspects driver errors.
type Repository interface {
	// Insert adds an item. Returns CONFLICT if the user already tracks the title.
	Insert(ctx context.Context, item *Item) error

	// GetByMalID fetches one of the user's items. Returns NOT_FOUND if absent.
	GetByMalID(ctx context.Context, userID string, malID int) (*Item, error)

	// ListByUser returns a page of the user's items, most recently added first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Item, error)

	// CountByUser returns the total number of items the user tracks.
	CountByUser(ctx context.Context, userID string) (int64, error)

	// Update persists status and progress changes. Returns NOT_FOUND if absent.
	Update(ctx context.Context, item *Item) error

	// Delete removes a user's item by catalog ID. Deleting an absent item is
	// not an error; it reports whether a row was removed.
	Delete(ctx context.Context, userID string, malID int) (bool, error)

	// Exists reports whether the user already tracks the title.
	Exists(ctx context.Context, userID string, malID int) (bool, error)

	// CountByStatus returns item counts per reading status plus chapter totals.
	CountByStatus(ctx context.Context, userID string) (map[ReadingStatus]int, int, error)
}
