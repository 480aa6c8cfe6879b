// Copyright (c) 2026 MangaMania. All rights reserved.

package collection

import (
	"context"
	"log/slog"

	"github.com/mangamania/api/internal/platform/apperr"
	"github.com/mangamania/api/internal/platform/validate"
	"github.com/mangamania/api/pkg/pagination"
	"github.com/mangamania/api/pkg/pointer"
	"github.com/mangamania/api/pkg/uuid"
)

// AddInput carries the fields accepted when adding a title to the library.
//
// Catalog metadata (title, cover, totals) is snapshotted client-side: the web
// client already holds the catalog entry it is adding, so we avoid a second
// upstream round trip per add.
type AddInput struct {
	MalID         int      `json:"mal_id"`
	Title         string   `json:"title"`
	CoverURL      string   `json:"cover_url"`
	Synopsis      string   `json:"synopsis"`
	TotalChapters *int     `json:"total_chapters"`
	TotalVolumes  *int     `json:"total_volumes"`
	Score         *float64 `json:"score"`

	// Optional; defaults to plan-to-read with zero progress.
	Status       ReadingStatus `json:"status"`
	ChaptersRead *int          `json:"chapters_read"`
	VolumesRead  *int          `json:"volumes_read"`
}

// UpdateInput carries the mutable fields of a tracked title. Nil fields are
// left unchanged.
type UpdateInput struct {
	Status       *ReadingStatus `json:"status"`
	ChaptersRead *int           `json:"chapters_read"`
	VolumesRead  *int           `json:"volumes_read"`
}

// Service implements the library business logic.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService creates a new collection service.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

/*
Add puts a title into the user's library.

Parameters:
  - ctx: Request context.
  - userID: Owner of the library.
  - input: Catalog snapshot plus optional initial status/progress.

Returns:
  - *Item: The stored item with defaults applied.
  - error: VALIDATION_ERROR on bad input, CONFLICT if already tracked.
*/
func (service *Service) Add(ctx context.Context, userID string, input AddInput) (*Item, error) {
	validator := &validate.Validator{}
	validator.
		Required("title", input.Title).
		Min("mal_id", input.MalID, 1).
		Custom("chapters_read", input.ChaptersRead != nil && *input.ChaptersRead < 0, "Cannot be negative").
		Custom("volumes_read", input.VolumesRead != nil && *input.VolumesRead < 0, "Cannot be negative")
	if input.Status != "" && !input.Status.IsValid() {
		validator.OneOf("status", string(input.Status), StatusNames()...)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = StatusPlanToRead
	}

	item := &Item{
		ID:            uuid.New(),
		UserID:        userID,
		MalID:         input.MalID,
		Title:         input.Title,
		CoverURL:      input.CoverURL,
		Synopsis:      input.Synopsis,
		TotalChapters: input.TotalChapters,
		TotalVolumes:  input.TotalVolumes,
		Score:         input.Score,
		Status:        status,
		ChaptersRead:  clampProgress(pointer.DerefOr(input.ChaptersRead, 0), input.TotalChapters),
		VolumesRead:   clampProgress(pointer.DerefOr(input.VolumesRead, 0), input.TotalVolumes),
	}

	if err := service.repository.Insert(ctx, item); err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "CONFLICT" {
			return nil, apperr.Conflict("This title is already in your collection")
		}
		return nil, err
	}

	service.logger.InfoContext(ctx, "collection_item_added",
		slog.String("user_id", userID),
		slog.Int("mal_id", input.MalID),
	)

	return item, nil
}

/*
List returns one page of the user's library, most recently added first.

Returns:
  - []Item: The requested page.
  - int64: Total item count across all pages, for the response metadata.
*/
func (service *Service) List(ctx context.Context, userID string, params pagination.Params) ([]Item, int64, error) {
	items, err := service.repository.ListByUser(ctx, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}

	total, err := service.repository.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

/*
UpdateProgress changes the status and/or chapter counter of a tracked title.

The chapter counter is clamped to [0, total chapters] when the total is known.
Any update refreshes the last-read timestamp.

Returns:
  - *Item: The item after the update.
  - error: NOT_FOUND if the user does not track the title.
*/
func (service *Service) UpdateProgress(ctx context.Context, userID string, malID int, input UpdateInput) (*Item, error) {
	if input.Status == nil && input.ChaptersRead == nil && input.VolumesRead == nil {
		return nil, apperr.ValidationError("Nothing to update")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, validate.RequiredError("status", "Must be one of: reading, completed, on-hold, dropped, plan-to-read")
	}
	if input.ChaptersRead != nil && *input.ChaptersRead < 0 {
		return nil, validate.RequiredError("chapters_read", "Cannot be negative")
	}
	if input.VolumesRead != nil && *input.VolumesRead < 0 {
		return nil, validate.RequiredError("volumes_read", "Cannot be negative")
	}

	item, err := service.repository.GetByMalID(ctx, userID, malID)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		item.Status = *input.Status
	}
	if input.ChaptersRead != nil {
		item.ChaptersRead = clampProgress(*input.ChaptersRead, item.TotalChapters)
	}
	if input.VolumesRead != nil {
		item.VolumesRead = clampProgress(*input.VolumesRead, item.TotalVolumes)
	}

	if err := service.repository.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

/*
Remove deletes a title from the user's library.

Removing a title that is not tracked succeeds silently; the end state is the
same either way.
*/
func (service *Service) Remove(ctx context.Context, userID string, malID int) error {
	removed, err := service.repository.Delete(ctx, userID, malID)
	if err != nil {
		return err
	}

	if removed {
		service.logger.InfoContext(ctx, "collection_item_removed",
			slog.String("user_id", userID),
			slog.Int("mal_id", malID),
		)
	}
	return nil
}

/*
Exists reports whether the user already tracks a title. Used by the client to
render add/remove toggles without fetching the whole library.
*/
func (service *Service) Exists(ctx context.Context, userID string, malID int) (bool, error) {
	return service.repository.Exists(ctx, userID, malID)
}

/*
Stats summarizes the user's library.
*/
func (service *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	counts, chaptersRead, err := service.repository.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		ByStatus:     make(map[string]int, len(AllStatuses)),
		ChaptersRead: chaptersRead,
	}
	for _, status := range AllStatuses {
		stats.ByStatus[string(status)] = counts[status]
		stats.Total += counts[status]
	}

	return stats, nil
}

// clampProgress bounds a progress counter to [0, total] when total is known.
func clampProgress(count int, total *int) int {
	if count < 0 {
		return 0
	}
	if total != nil && *total > 0 && count > *total {
		return *total
	}
	return count
}
