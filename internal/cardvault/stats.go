package cardvault

import (
	"context"
	"fmt"
	"time"

	"github.com/srsbox/cardvault/internal/stores/models"
)

type SummaryCounts struct {
	DueNow        int64
	Learned       int64
	ReviewedToday int64
	Success7      float64
	Success30     float64
}

type DailyStat struct {
	Day          time.Time
	ReviewsCount int64
	SuccessRate  float64
}

type DeckProgress struct {
	DeckID       int64
	Name         string
	TotalCards   int64
	LearnedCards int64
	DueNow       int64
}

// SummaryCounts derives the headline numbers for one user. tz is an IANA
// zone name for the "today" boundary; empty means UTC. The trailing success
// rates are 0, not an error, when a window holds no reviews.
func (s *Service) SummaryCounts(ctx context.Context, userID int64, tz string) (SummaryCounts, error) {
	loc, err := locationFor(tz)
	if err != nil {
		return SummaryCounts{}, err
	}
	now := s.Nower.Now()

	sched, err := s.Queries.ScheduleCounts(ctx, models.ScheduleCountsParams{
		UserID: userID, Now: toPGTimestamp(now),
	})
	if err != nil {
		return SummaryCounts{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	windows, err := s.Queries.ReviewWindowCounts(ctx, models.ReviewWindowCountsParams{
		UserID:   userID,
		DayStart: toPGTimestamp(startOfDay(now, loc)),
		Cutoff7:  toPGTimestamp(now.AddDate(0, 0, -7)),
		Cutoff30: toPGTimestamp(now.AddDate(0, 0, -30)),
	})
	if err != nil {
		return SummaryCounts{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return SummaryCounts{
		DueNow:        sched.DueNow,
		Learned:       sched.Learned,
		ReviewedToday: windows.ReviewedToday,
		Success7:      successRate(windows.Success7, windows.Total7),
		Success30:     successRate(windows.Success30, windows.Total30),
	}, nil
}

// DailyStats returns one entry per calendar day for the trailing window of
// the given length, today included, in ascending date order. Days with no
// activity still appear, zero-valued.
func (s *Service) DailyStats(ctx context.Context, userID int64, days int, tz string) ([]DailyStat, error) {
	if days < 1 {
		return nil, nil
	}
	loc, err := locationFor(tz)
	if err != nil {
		return nil, err
	}
	today := startOfDay(s.Nower.Now(), loc)
	start := today.AddDate(0, 0, -(days - 1))

	rows, err := s.Queries.DailyReviewCounts(ctx, models.DailyReviewCountsParams{
		UserID: userID,
		Since:  toPGTimestamp(start),
		Tz:     loc.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return fillDailyStats(rows, start, days), nil
}

// DeckProgress reports per-deck totals for one user, joining schedules
// through the externally-owned card and deck catalog.
func (s *Service) DeckProgress(ctx context.Context, userID int64) ([]DeckProgress, error) {
	rows, err := s.Queries.DeckProgress(ctx, models.DeckProgressParams{
		UserID: userID, Now: toPGTimestamp(s.Nower.Now()),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	progress := make([]DeckProgress, len(rows))
	for i := range rows {
		progress[i] = DeckProgress{
			DeckID:       rows[i].DeckID,
			Name:         rows[i].Name,
			TotalCards:   rows[i].TotalCards,
			LearnedCards: rows[i].LearnedCards,
			DueNow:       rows[i].DueNow,
		}
	}
	return progress, nil
}

// fillDailyStats expands sparse per-day aggregation rows into a dense
// window: every one of the days appears exactly once, zero-valued when the
// aggregation produced nothing for it.
func fillDailyStats(rows []models.DailyReviewCountsRow, start time.Time, days int) []DailyStat {
	const day = "2006-01-02"
	byDay := make(map[string]models.DailyReviewCountsRow, len(rows))
	for _, r := range rows {
		byDay[r.Day.Time.Format(day)] = r
	}
	stats := make([]DailyStat, days)
	for i := range stats {
		d := start.AddDate(0, 0, i)
		stats[i] = DailyStat{Day: d}
		if r, ok := byDay[d.Format(day)]; ok {
			stats[i].ReviewsCount = r.ReviewsCount
			stats[i].SuccessRate = successRate(r.SuccessCount, r.ReviewsCount)
		}
	}
	return stats
}

func successRate(successes, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(successes) / float64(total)
}

func locationFor(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(tz)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
