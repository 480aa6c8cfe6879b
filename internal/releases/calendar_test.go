// Copyright (c) 2026 MangaMania. All rights reserved.

package releases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangamania/api/internal/catalog"
	"github.com/mangamania/api/pkg/pointer"
)

func TestMonthGrid(t *testing.T) {
	ctx := context.Background()

	newGridService := func(clock *testClock) *Service {
		fetcher := &fakeFetcher{entries: []catalog.Entry{
			publishingEntry(13, "One Piece", pointer.To(3)),
		}}
		return newTestReleaseService(fetcher, clock)
	}

	t.Run("always produces 42 cells", func(t *testing.T) {
		service := newGridService(&testClock{current: baseTime})

		grid, err := service.MonthGrid(ctx, 2026, time.March)
		require.NoError(t, err)
		assert.Len(t, grid.Cells, gridCells)
	})

	t.Run("weeks start on Monday", func(t *testing.T) {
		service := newGridService(&testClock{current: baseTime})

		// March 2026 starts on a Sunday, so the grid leads with 6 days of February.
		grid, err := service.MonthGrid(ctx, 2026, time.March)
		require.NoError(t, err)

		firstCell, err2 := time.Parse(DateLayout, grid.Cells[0].Date)
		require.NoError(t, err2)
		assert.Equal(t, time.Monday, firstCell.Weekday())
		assert.Equal(t, "2026-02-23", grid.Cells[0].Date)

		for index := 0; index < 6; index++ {
			assert.False(t, grid.Cells[index].InMonth)
		}
		assert.True(t, grid.Cells[6].InMonth)
		assert.Equal(t, 1, grid.Cells[6].Day)
	})

	t.Run("month starting on Monday has no leading cells", func(t *testing.T) {
		service := newGridService(&testClock{current: baseTime})

		// June 2026 starts on a Monday.
		grid, err := service.MonthGrid(ctx, 2026, time.June)
		require.NoError(t, err)

		assert.True(t, grid.Cells[0].InMonth)
		assert.Equal(t, 1, grid.Cells[0].Day)
		assert.Equal(t, "2026-06-01", grid.Cells[0].Date)
	})

	t.Run("exactly one cell is marked today", func(t *testing.T) {
		service := newGridService(&testClock{current: baseTime})

		grid, err := service.MonthGrid(ctx, 2026, time.March)
		require.NoError(t, err)

		var todayCount int
		for _, cell := range grid.Cells {
			if cell.IsToday {
				todayCount++
				assert.Equal(t, "2026-03-10", cell.Date)
			}
		}
		assert.Equal(t, 1, todayCount)
	})

	t.Run("releases land in their matching cells", func(t *testing.T) {
		service := newGridService(&testClock{current: baseTime})

		monthReleases, err := service.ForMonth(ctx, 2026, time.March)
		require.NoError(t, err)

		grid, err := service.MonthGrid(ctx, 2026, time.March)
		require.NoError(t, err)

		var placed int
		for _, cell := range grid.Cells {
			for _, release := range cell.Releases {
				assert.Equal(t, cell.Date, release.Date)
				placed++
			}
		}
		assert.Equal(t, len(monthReleases.Releases), placed)
	})

	t.Run("cells never carry a nil release slice", func(t *testing.T) {
		service := newGridService(&testClock{current: baseTime})

		grid, err := service.MonthGrid(ctx, 2026, time.March)
		require.NoError(t, err)

		for _, cell := range grid.Cells {
			assert.NotNil(t, cell.Releases)
		}
	})
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, time.March, 10, 23, 59, 59, 0, time.UTC)
	nextDay := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, sameDay(morning, morning))
	assert.True(t, sameDay(morning, evening))
	assert.False(t, sameDay(evening, nextDay))
}
