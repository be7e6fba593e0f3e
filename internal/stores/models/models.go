package models

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// CardState is one schedule row, keyed by (user_id, card_id). Scheduling
// fields are written only inside the review transaction; suspended is
// written only by the suspend/resume call.
type CardState struct {
	UserID       int64
	CardID       int64
	EaseFactor   float64
	IntervalDays int32
	Reps         int32
	Lapses       int32
	DueAt        pgtype.Timestamptz
	Suspended    bool
}

// Review is one append-only audit row. Never updated or deleted; it is the
// durable source of truth for all statistics.
type Review struct {
	ID         int64
	UserID     int64
	CardID     int64
	Quality    int16
	ReviewedAt pgtype.Timestamptz
}
