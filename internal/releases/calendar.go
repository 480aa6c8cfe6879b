// Copyright (c) 2026 MangaMania. All rights reserved.

package releases

import (
	"context"
	"time"
)

// gridCells is the fixed size of a month view: 6 weeks of 7 days. A fixed
// height keeps the client layout stable across months.
const gridCells = 42

// CalendarCell is one day slot in the month grid.
type CalendarCell struct {
	Date     string    `json:"date"`
	Day      int       `json:"day"`
	InMonth  bool      `json:"in_month"`
	IsToday  bool      `json:"is_today"`
	Releases []Release `json:"releases"`
}

// Calendar is a full month view.
type Calendar struct {
	Year        int            `json:"year"`
	Month       int            `json:"month"`
	Cells       []CalendarCell `json:"cells"`
	Approximate bool           `json:"approximate"`
}

/*
MonthGrid builds the 42-cell calendar for a month.

Weeks start on Monday. Leading cells carry the tail of the previous month and
trailing cells the head of the next, so every grid is exactly 6 rows of 7.
*/
func (service *Service) MonthGrid(ctx context.Context, year int, month time.Month) (*Calendar, error) {
	monthReleases, err := service.ForMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}

	// Index releases by day for cell assembly.
	byDate := make(map[string][]Release)
	for _, release := range monthReleases.Releases {
		byDate[release.Date] = append(byDate[release.Date], release)
	}

	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	// time.Weekday counts Sunday as 0; shift so Monday is column 0.
	leading := int(firstOfMonth.Weekday()) - 1
	if leading < 0 {
		leading = 6
	}

	today := service.today()
	gridStart := firstOfMonth.AddDate(0, 0, -leading)

	cells := make([]CalendarCell, 0, gridCells)
	for index := 0; index < gridCells; index++ {
		date := gridStart.AddDate(0, 0, index)
		dateKey := date.Format(DateLayout)

		releases := byDate[dateKey]
		if releases == nil {
			releases = []Release{}
		}

		cells = append(cells, CalendarCell{
			Date:     dateKey,
			Day:      date.Day(),
			InMonth:  date.Month() == month && date.Year() == year,
			IsToday:  sameDay(date, today),
			Releases: releases,
		})
	}

	return &Calendar{
		Year:        year,
		Month:       int(month),
		Cells:       cells,
		Approximate: monthReleases.Approximate,
	}, nil
}
