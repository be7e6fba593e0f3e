package models

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getCardState = `
SELECT user_id, card_id, ease_factor, interval_days, reps, lapses, due_at, suspended
FROM card_states
WHERE user_id = $1 AND card_id = $2
`

type GetCardStateParams struct {
	UserID int64
	CardID int64
}

func (q *Queries) GetCardState(ctx context.Context, arg GetCardStateParams) (CardState, error) {
	row := q.db.QueryRow(ctx, getCardState, arg.UserID, arg.CardID)
	var i CardState
	err := row.Scan(&i.UserID, &i.CardID, &i.EaseFactor, &i.IntervalDays,
		&i.Reps, &i.Lapses, &i.DueAt, &i.Suspended)
	return i, err
}

// getCardStateForUpdate takes a row-level exclusive lock so the
// read-modify-write in the review transaction cannot lose updates.
const getCardStateForUpdate = getCardState + `FOR UPDATE
`

func (q *Queries) GetCardStateForUpdate(ctx context.Context, arg GetCardStateParams) (CardState, error) {
	row := q.db.QueryRow(ctx, getCardStateForUpdate, arg.UserID, arg.CardID)
	var i CardState
	err := row.Scan(&i.UserID, &i.CardID, &i.EaseFactor, &i.IntervalDays,
		&i.Reps, &i.Lapses, &i.DueAt, &i.Suspended)
	return i, err
}

const createCardState = `
INSERT INTO card_states (user_id, card_id, ease_factor, interval_days, reps, lapses, due_at, suspended)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateCardStateParams struct {
	UserID       int64
	CardID       int64
	EaseFactor   float64
	IntervalDays int32
	Reps         int32
	Lapses       int32
	DueAt        pgtype.Timestamptz
	Suspended    bool
}

func (q *Queries) CreateCardState(ctx context.Context, arg CreateCardStateParams) error {
	_, err := q.db.Exec(ctx, createCardState, arg.UserID, arg.CardID, arg.EaseFactor,
		arg.IntervalDays, arg.Reps, arg.Lapses, arg.DueAt, arg.Suspended)
	return err
}

const updateCardState = `
UPDATE card_states
SET ease_factor = $1, interval_days = $2, reps = $3, lapses = $4, due_at = $5
WHERE user_id = $6 AND card_id = $7
`

type UpdateCardStateParams struct {
	EaseFactor   float64
	IntervalDays int32
	Reps         int32
	Lapses       int32
	DueAt        pgtype.Timestamptz
	UserID       int64
	CardID       int64
}

func (q *Queries) UpdateCardState(ctx context.Context, arg UpdateCardStateParams) error {
	_, err := q.db.Exec(ctx, updateCardState, arg.EaseFactor, arg.IntervalDays,
		arg.Reps, arg.Lapses, arg.DueAt, arg.UserID, arg.CardID)
	return err
}

const setSuspended = `
UPDATE card_states
SET suspended = $1
WHERE user_id = $2 AND card_id = $3
`

type SetSuspendedParams struct {
	Suspended bool
	UserID    int64
	CardID    int64
}

// SetSuspended returns the number of rows matched, so callers can
// distinguish a missing schedule from an idempotent re-set.
func (q *Queries) SetSuspended(ctx context.Context, arg SetSuspendedParams) (int64, error) {
	tag, err := q.db.Exec(ctx, setSuspended, arg.Suspended, arg.UserID, arg.CardID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const dueQueue = `
SELECT cs.card_id, c.deck_id, d.name AS deck_name, c.front, c.back, cs.due_at
FROM card_states cs
JOIN cards c ON c.id = cs.card_id
JOIN decks d ON d.id = c.deck_id
WHERE cs.user_id = $1
  AND NOT cs.suspended
  AND cs.due_at <= $2
  AND ($3::bigint IS NULL OR c.deck_id = $3)
ORDER BY cs.due_at
LIMIT $4
`

type DueQueueParams struct {
	UserID    int64
	DueBefore pgtype.Timestamptz
	DeckID    *int64
	Limit     int32
}

type DueQueueRow struct {
	CardID   int64
	DeckID   int64
	DeckName string
	Front    string
	Back     string
	DueAt    pgtype.Timestamptz
}

func (q *Queries) DueQueue(ctx context.Context, arg DueQueueParams) ([]DueQueueRow, error) {
	rows, err := q.db.Query(ctx, dueQueue, arg.UserID, arg.DueBefore, arg.DeckID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DueQueueRow
	for rows.Next() {
		var i DueQueueRow
		if err := rows.Scan(&i.CardID, &i.DeckID, &i.DeckName, &i.Front, &i.Back, &i.DueAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
