// Package cardvault is the spaced-repetition scheduling core: recording
// reviews transactionally, selecting due queues, suspending cards, and
// aggregating progress statistics. Presentation, note/deck management, and
// authentication live outside this package and call into it.
package cardvault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/srsbox/cardvault/config"
	"github.com/srsbox/cardvault/internal/scheduler"
	"github.com/srsbox/cardvault/internal/stores/models"
)

type nower interface {
	Now() time.Time
}

type RealNower struct{}

func (r RealNower) Now() time.Time {
	return time.Now()
}

type Service struct {
	Config  *config.Config
	Queries *models.Queries
	DBPool  *pgxpool.Pool
	Nower   nower

	// beforeReviewInsert runs inside the review transaction, between the
	// schedule update and the review insert. Test hook; nil in production.
	beforeReviewInsert func() error
}

func NewService(cfg *config.Config, dbPool *pgxpool.Pool, queries *models.Queries) *Service {
	return &Service{Config: cfg, Queries: queries, DBPool: dbPool, Nower: RealNower{}}
}

// retryable reports whether the transaction failed in a way a re-read and
// recompute can fix: serialization_failure or deadlock_detected.
func retryable(err error) bool {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return pgerr.Code == "40001" || pgerr.Code == "40P01"
	}
	return false
}

// RecordReview applies one quality judgment (0-5) to the schedule of
// (userID, cardID) and appends the review to the audit log. Both writes
// happen in a single transaction under a row-level lock on the schedule, so
// concurrent reviews of the same card serialize instead of losing updates.
// Conflicting transactions are retried up to the configured bound, then
// surfaced as ErrConcurrentModification.
//
// Returns the new schedule state and the chosen interval in days.
func (s *Service) RecordReview(ctx context.Context, userID, cardID int64, quality int) (scheduler.CardState, int, error) {
	if quality < 0 || quality > 5 {
		return scheduler.CardState{}, 0, ErrInvalidQuality
	}

	var (
		state    scheduler.CardState
		interval int
		err      error
	)
	for attempt := 0; ; attempt++ {
		state, interval, err = s.recordReviewTx(ctx, userID, cardID, quality)
		if err == nil || !retryable(err) || attempt >= s.Config.ReviewTxRetries {
			break
		}
		log.Ctx(ctx).Warn().Int64("cardID", cardID).Int("attempt", attempt).
			Msg("review-tx-conflict")
	}
	if err != nil {
		switch {
		case retryable(err):
			return scheduler.CardState{}, 0, ErrConcurrentModification
		case errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidQuality):
			return scheduler.CardState{}, 0, err
		default:
			return scheduler.CardState{}, 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}

	log.Ctx(ctx).Info().Int64("userID", userID).Int64("cardID", cardID).
		Int("quality", quality).Int("intervalDays", interval).
		Time("dueAt", state.DueAt).Msg("review-recorded")
	return state, interval, nil
}

func (s *Service) recordReviewTx(ctx context.Context, userID, cardID int64, quality int) (scheduler.CardState, int, error) {
	now := s.Nower.Now()

	tx, err := s.DBPool.Begin(ctx)
	if err != nil {
		return scheduler.CardState{}, 0, err
	}
	defer tx.Rollback(ctx) // Roll back the transaction if it isn't committed
	qtx := s.Queries.WithTx(tx)

	row, err := qtx.GetCardStateForUpdate(ctx, models.GetCardStateParams{
		UserID: userID, CardID: cardID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return scheduler.CardState{}, 0, ErrNotFound
		}
		return scheduler.CardState{}, 0, err
	}

	prev := scheduler.CardState{
		EaseFactor:   row.EaseFactor,
		IntervalDays: int(row.IntervalDays),
		Reps:         int(row.Reps),
		Lapses:       int(row.Lapses),
		DueAt:        row.DueAt.Time,
	}
	next, interval, err := scheduler.Sm2(prev, quality, now)
	if err != nil {
		return scheduler.CardState{}, 0, err
	}

	err = qtx.UpdateCardState(ctx, models.UpdateCardStateParams{
		EaseFactor:   next.EaseFactor,
		IntervalDays: int32(next.IntervalDays),
		Reps:         int32(next.Reps),
		Lapses:       int32(next.Lapses),
		DueAt:        toPGTimestamp(next.DueAt),
		UserID:       userID,
		CardID:       cardID,
	})
	if err != nil {
		return scheduler.CardState{}, 0, err
	}

	if s.beforeReviewInsert != nil {
		if err := s.beforeReviewInsert(); err != nil {
			return scheduler.CardState{}, 0, err
		}
	}

	err = qtx.AddReview(ctx, models.AddReviewParams{
		UserID:     userID,
		CardID:     cardID,
		Quality:    int16(quality),
		ReviewedAt: toPGTimestamp(now),
	})
	if err != nil {
		return scheduler.CardState{}, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return scheduler.CardState{}, 0, err
	}
	return next, interval, nil
}

// SetSuspended sets the suspension flag unconditionally. Idempotent; touches
// no scheduling field. A suspended card drops out of the next due-queue
// fetch, not out of snapshots callers already hold.
func (s *Service) SetSuspended(ctx context.Context, userID, cardID int64, suspended bool) error {
	matched, err := s.Queries.SetSuspended(ctx, models.SetSuspendedParams{
		Suspended: suspended, UserID: userID, CardID: cardID,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if matched == 0 {
		return ErrNotFound
	}
	log.Ctx(ctx).Info().Int64("userID", userID).Int64("cardID", cardID).
		Bool("suspended", suspended).Msg("card-suspension-set")
	return nil
}
