package models

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const scheduleCounts = `
SELECT COUNT(*) FILTER (WHERE due_at <= $2 AND NOT suspended) AS due_now,
       COUNT(*) FILTER (WHERE reps > 0) AS learned
FROM card_states
WHERE user_id = $1
`

type ScheduleCountsParams struct {
	UserID int64
	Now    pgtype.Timestamptz
}

type ScheduleCountsRow struct {
	DueNow  int64
	Learned int64
}

func (q *Queries) ScheduleCounts(ctx context.Context, arg ScheduleCountsParams) (ScheduleCountsRow, error) {
	row := q.db.QueryRow(ctx, scheduleCounts, arg.UserID, arg.Now)
	var i ScheduleCountsRow
	err := row.Scan(&i.DueNow, &i.Learned)
	return i, err
}

// The day boundary and trailing-window cutoffs are computed by the caller
// against the injected clock, so this query stays calendar-agnostic.
const reviewWindowCounts = `
SELECT COUNT(*) FILTER (WHERE reviewed_at >= $2) AS reviewed_today,
       COUNT(*) FILTER (WHERE reviewed_at >= $3) AS total_7,
       COUNT(*) FILTER (WHERE reviewed_at >= $3 AND quality >= 3) AS success_7,
       COUNT(*) FILTER (WHERE reviewed_at >= $4) AS total_30,
       COUNT(*) FILTER (WHERE reviewed_at >= $4 AND quality >= 3) AS success_30
FROM reviews
WHERE user_id = $1
`

type ReviewWindowCountsParams struct {
	UserID   int64
	DayStart pgtype.Timestamptz
	Cutoff7  pgtype.Timestamptz
	Cutoff30 pgtype.Timestamptz
}

type ReviewWindowCountsRow struct {
	ReviewedToday int64
	Total7        int64
	Success7      int64
	Total30       int64
	Success30     int64
}

func (q *Queries) ReviewWindowCounts(ctx context.Context, arg ReviewWindowCountsParams) (ReviewWindowCountsRow, error) {
	row := q.db.QueryRow(ctx, reviewWindowCounts, arg.UserID, arg.DayStart, arg.Cutoff7, arg.Cutoff30)
	var i ReviewWindowCountsRow
	err := row.Scan(&i.ReviewedToday, &i.Total7, &i.Success7, &i.Total30, &i.Success30)
	return i, err
}

const dailyReviewCounts = `
SELECT (reviewed_at AT TIME ZONE $3)::date AS day,
       COUNT(*) AS reviews_count,
       COUNT(*) FILTER (WHERE quality >= 3) AS success_count
FROM reviews
WHERE user_id = $1 AND reviewed_at >= $2
GROUP BY 1
ORDER BY 1
`

type DailyReviewCountsParams struct {
	UserID int64
	Since  pgtype.Timestamptz
	Tz     string
}

type DailyReviewCountsRow struct {
	Day          pgtype.Date
	ReviewsCount int64
	SuccessCount int64
}

func (q *Queries) DailyReviewCounts(ctx context.Context, arg DailyReviewCountsParams) ([]DailyReviewCountsRow, error) {
	rows, err := q.db.Query(ctx, dailyReviewCounts, arg.UserID, arg.Since, arg.Tz)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DailyReviewCountsRow
	for rows.Next() {
		var i DailyReviewCountsRow
		if err := rows.Scan(&i.Day, &i.ReviewsCount, &i.SuccessCount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deckProgress = `
SELECT d.id AS deck_id, d.name,
       COUNT(c.id) AS total_cards,
       COUNT(*) FILTER (WHERE cs.reps > 0) AS learned_cards,
       COUNT(*) FILTER (WHERE cs.due_at <= $2 AND NOT cs.suspended) AS due_now
FROM decks d
LEFT JOIN cards c ON c.deck_id = d.id
LEFT JOIN card_states cs ON cs.card_id = c.id AND cs.user_id = d.user_id
WHERE d.user_id = $1
GROUP BY d.id
ORDER BY d.created_at
`

type DeckProgressParams struct {
	UserID int64
	Now    pgtype.Timestamptz
}

type DeckProgressRow struct {
	DeckID       int64
	Name         string
	TotalCards   int64
	LearnedCards int64
	DueNow       int64
}

func (q *Queries) DeckProgress(ctx context.Context, arg DeckProgressParams) ([]DeckProgressRow, error) {
	rows, err := q.db.Query(ctx, deckProgress, arg.UserID, arg.Now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DeckProgressRow
	for rows.Next() {
		var i DeckProgressRow
		if err := rows.Scan(&i.DeckID, &i.Name, &i.TotalCards, &i.LearnedCards, &i.DueNow); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
