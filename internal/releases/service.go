// Copyright (c) 2026 MangaMania. All rights reserved.

package releases

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/mangamania/api/internal/catalog"
	"github.com/mangamania/api/pkg/pointer"
)

// Synthesis parameters.
const (
	// cacheTTL is the lifetime of a synthesized schedule.
	cacheTTL = 1 * time.Hour

	// publishingTitleTarget is how many currently-publishing titles seed a schedule.
	publishingTitleTarget = 25

	// maxTopPages bounds how many catalog pages we scan for publishing titles.
	maxTopPages = 4

	// maxVolumesPerTitle caps release events generated per title.
	maxVolumesPerTitle = 3

	// The schedule window spans [today-windowPastDays, today+windowFutureDays].
	windowPastDays   = 15
	windowFutureDays = 30
)

// Fetcher provides the catalog metadata the synthesis reads from.
// Satisfied by [*catalog.Service].
type Fetcher interface {
	Top(ctx context.Context, page int) (*catalog.Page, error)
}

// Service synthesizes and caches the release schedule.
//
// # Concurrency
//
// A single cache slot holds the current schedule. All reads and refreshes go
// through the mutex, so concurrent requests during a refresh block until the
// new schedule is ready instead of each triggering an upstream scan.
type Service struct {
	fetcher Fetcher
	logger  *slog.Logger

	mu          sync.Mutex
	cached      []Release
	approximate bool
	fetchedAt   time.Time

	// now is injected so tests can control the clock.
	now func() time.Time

	// rng has its own lock: fallback paths draw from it without holding mu.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService creates a new release schedule service using the real clock.
func NewService(fetcher Fetcher, logger *slog.Logger) *Service {
	return newService(fetcher, logger, time.Now)
}

func newService(fetcher Fetcher, logger *slog.Logger, now func() time.Time) *Service {
	return &Service{
		fetcher: fetcher,
		logger:  logger,
		now:     now,
		rng:     rand.New(rand.NewSource(now().UnixNano())),
	}
}

// # Public Queries

/*
GetAll returns the full schedule, sorted by date ascending.
*/
func (service *Service) GetAll(ctx context.Context) (*ReleaseSet, error) {
	releases, approximate := service.schedule(ctx)
	return &ReleaseSet{Releases: releases, Approximate: approximate}, nil
}

/*
Today returns releases dated exactly today.

If the schedule has nothing for today, a small fallback set dated today is
returned with Approximate set, so the "out today" panel is never empty.
*/
func (service *Service) Today(ctx context.Context) (*ReleaseSet, error) {
	releases, approximate := service.schedule(ctx)
	today := service.today()

	matched := filterByDate(releases, today.Format(DateLayout))
	if len(matched) == 0 {
		return &ReleaseSet{
			Releases:    service.fallbackForDay(today, 5, true),
			Approximate: true,
		}, nil
	}

	return &ReleaseSet{Releases: matched, Approximate: approximate}, nil
}

/*
ForDate returns releases on a specific day.

An empty result stays empty for past or future dates; only a query for the
current day falls back to synthetic entries, matching [Service.Today].
*/
func (service *Service) ForDate(ctx context.Context, date time.Time) (*ReleaseSet, error) {
	releases, approximate := service.schedule(ctx)
	today := service.today()

	matched := filterByDate(releases, date.Format(DateLayout))
	if len(matched) == 0 && sameDay(date, today) {
		return &ReleaseSet{
			Releases:    service.fallbackForDay(today, 3, true),
			Approximate: true,
		}, nil
	}

	return &ReleaseSet{Releases: matched, Approximate: approximate}, nil
}

/*
ForMonth returns all releases within a calendar month, sorted ascending.

An empty month is backfilled with fallback titles spread across its days so
the calendar view always has something to render.
*/
func (service *Service) ForMonth(ctx context.Context, year int, month time.Month) (*ReleaseSet, error) {
	releases, approximate := service.schedule(ctx)

	var matched []Release
	for _, release := range releases {
		date, err := time.Parse(DateLayout, release.Date)
		if err != nil {
			continue
		}
		if date.Year() == year && date.Month() == month {
			matched = append(matched, release)
		}
	}

	if len(matched) == 0 {
		today := service.today()
		for index, seed := range fallbackTitles {
			day := index + 1
			if day > 28 {
				day = 28
			}
			date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			matched = append(matched, service.synthesizeOne(seed.malID, seed.title, "", index%maxVolumesPerTitle+1, date, today))
		}
		sortByDate(matched)
		return &ReleaseSet{Releases: matched, Approximate: true}, nil
	}

	sortByDate(matched)
	return &ReleaseSet{Releases: matched, Approximate: approximate}, nil
}

/*
Upcoming returns up to limit releases strictly after today, soonest first.

If nothing in the schedule lies ahead, fallback entries are generated on the
next consecutive days. Those are never marked IsNew: they are all in the future.
*/
func (service *Service) Upcoming(ctx context.Context, limit int) (*ReleaseSet, error) {
	releases, approximate := service.schedule(ctx)
	todayKey := service.today().Format(DateLayout)

	var matched []Release
	for _, release := range releases {
		if release.Date > todayKey {
			matched = append(matched, release)
		}
	}
	sortByDate(matched)
	if len(matched) > limit {
		matched = matched[:limit]
	}

	if len(matched) == 0 {
		today := service.today()
		for index := 0; index < limit && index < len(fallbackTitles); index++ {
			seed := fallbackTitles[index]
			date := today.AddDate(0, 0, index+1)
			matched = append(matched, service.synthesizeOne(seed.malID, seed.title, "", index%maxVolumesPerTitle+1, date, today))
		}
		return &ReleaseSet{Releases: matched, Approximate: true}, nil
	}

	return &ReleaseSet{Releases: matched, Approximate: approximate}, nil
}

// # Schedule Cache

// schedule returns the cached release list, refreshing it when stale.
func (service *Service) schedule(ctx context.Context) ([]Release, bool) {
	service.mu.Lock()
	defer service.mu.Unlock()

	now := service.now()
	if service.cached != nil && now.Sub(service.fetchedAt) < cacheTTL {
		return service.snapshot(), service.approximate
	}

	releases, approximate := service.synthesize(ctx)
	service.cached = releases
	service.approximate = approximate
	service.fetchedAt = now

	service.logger.InfoContext(ctx, "release_schedule_refreshed",
		slog.Int("count", len(releases)),
		slog.Bool("approximate", approximate),
	)

	return service.snapshot(), approximate
}

// snapshot copies the cached slice so callers cannot mutate the cache.
// Must be called with the mutex held.
func (service *Service) snapshot() []Release {
	copied := make([]Release, len(service.cached))
	copy(copied, service.cached)
	return copied
}

// # Synthesis

// synthesize builds a fresh schedule from currently-publishing catalog titles.
// On upstream failure it returns the fallback schedule and approximate=true.
func (service *Service) synthesize(ctx context.Context) ([]Release, bool) {
	today := service.today()

	titles, err := service.collectPublishingTitles(ctx)
	if err != nil {
		service.logger.WarnContext(ctx, "release_synthesis_degraded",
			slog.String("error", err.Error()),
		)
		return service.fallbackSchedule(today), true
	}

	var releases []Release
	for _, entry := range titles {
		volumes := pointer.DerefOr(entry.Volumes, 0)
		if volumes <= 0 {
			// Ongoing titles report null volumes upstream.
			volumes = service.randIntn(10) + 1
		}

		events := volumes
		if events > maxVolumesPerTitle {
			events = maxVolumesPerTitle
		}

		cover := entry.Images.WebP.ImageURL
		if cover == "" {
			cover = entry.Images.JPG.ImageURL
		}

		for volume := 1; volume <= events; volume++ {
			date := service.randomWindowDate(today)
			releases = append(releases, service.synthesizeOne(entry.MalID, entry.Title, cover, volume, date, today))
		}
	}

	sortByDate(releases)
	return releases, false
}

// collectPublishingTitles scans the top-ranked listing for currently-publishing
// titles until the target count or the page budget is reached.
func (service *Service) collectPublishingTitles(ctx context.Context) ([]catalog.Entry, error) {
	var titles []catalog.Entry

	for page := 1; page <= maxTopPages && len(titles) < publishingTitleTarget; page++ {
		result, err := service.fetcher.Top(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, entry := range result.Entries {
			if !entry.Publishing {
				continue
			}
			titles = append(titles, entry)
			if len(titles) == publishingTitleTarget {
				break
			}
		}

		if !result.Pagination.HasNextPage {
			break
		}
	}

	if len(titles) == 0 {
		return nil, fmt.Errorf("releases: no publishing titles in catalog listing")
	}

	return titles, nil
}

// synthesizeOne assembles a single release event.
func (service *Service) synthesizeOne(malID int, title, cover string, volume int, date, today time.Time) Release {
	return Release{
		ID:        fmt.Sprintf("%d-%d-%d", malID, volume, service.now().UnixMilli()),
		MalID:     malID,
		Title:     title,
		Volume:    volume,
		Date:      date.Format(DateLayout),
		Publisher: publishers[service.randIntn(len(publishers))],
		Price:     fmt.Sprintf("%.2f €", 5+service.randFloat64()*5),
		CoverURL:  cover,
		IsNew:     sameDay(date, today),
	}
}

// fallbackSchedule spreads the built-in titles over the near future, three
// titles per day starting today.
func (service *Service) fallbackSchedule(today time.Time) []Release {
	releases := make([]Release, 0, len(fallbackTitles))
	for index, seed := range fallbackTitles {
		date := today.AddDate(0, 0, index/3)
		releases = append(releases, service.synthesizeOne(seed.malID, seed.title, "", index%maxVolumesPerTitle+1, date, today))
	}
	sortByDate(releases)
	return releases
}

// fallbackForDay generates count fallback releases all dated the given day.
func (service *Service) fallbackForDay(day time.Time, count int, isToday bool) []Release {
	if count > len(fallbackTitles) {
		count = len(fallbackTitles)
	}

	releases := make([]Release, 0, count)
	for index := 0; index < count; index++ {
		seed := fallbackTitles[index]
		release := service.synthesizeOne(seed.malID, seed.title, "", index%maxVolumesPerTitle+1, day, day)
		release.IsNew = isToday
		releases = append(releases, release)
	}
	return releases
}

// randomWindowDate picks a uniform random day in the schedule window.
func (service *Service) randomWindowDate(today time.Time) time.Time {
	spanDays := windowPastDays + windowFutureDays + 1
	offset := service.randIntn(spanDays) - windowPastDays
	return today.AddDate(0, 0, offset)
}

// randIntn draws a value in [0, n) under the rng lock.
func (service *Service) randIntn(n int) int {
	service.rngMu.Lock()
	defer service.rngMu.Unlock()
	return service.rng.Intn(n)
}

// randFloat64 draws a value in [0, 1) under the rng lock.
func (service *Service) randFloat64() float64 {
	service.rngMu.Lock()
	defer service.rngMu.Unlock()
	return service.rng.Float64()
}

// today returns the current day truncated to midnight UTC.
func (service *Service) today() time.Time {
	now := service.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// # Helpers

func filterByDate(releases []Release, dateKey string) []Release {
	var matched []Release
	for _, release := range releases {
		if release.Date == dateKey {
			matched = append(matched, release)
		}
	}
	return matched
}

func sortByDate(releases []Release) {
	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].Date < releases[j].Date
	})
}
