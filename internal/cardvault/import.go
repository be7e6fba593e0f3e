package cardvault

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/open-spaced-repetition/go-fsrs/v3"
	"github.com/rs/zerolog/log"

	"github.com/srsbox/cardvault/internal/scheduler"
	"github.com/srsbox/cardvault/internal/stores/models"
)

// ImportFSRSVault imports cards from a SQLite vault exported by an
// FSRS-based app into the given deck. Each row carries the card text plus
// the FSRS card state as JSON; the state is converted to the nearest SM-2
// schedule. Everything goes through one Postgres transaction, so a failed
// import leaves no partial deck behind.
//
// Returns the number of cards imported and the fronts of rows that were
// skipped.
func (s *Service) ImportFSRSVault(ctx context.Context, userID, deckID int64, sqliteFilename string) (int, []string, error) {
	now := s.Nower.Now()

	sqliteDB, err := sql.Open("sqlite3", sqliteFilename)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	defer sqliteDB.Close()

	tx, err := s.DBPool.Begin(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Roll back the transaction if it isn't committed
	qtx := s.Queries.WithTx(tx)

	rows, err := sqliteDB.QueryContext(ctx, `
        SELECT front, back, fsrs_card FROM cards`)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to fetch cards from SQLite: %w", err)
	}
	defer rows.Close()

	imported := 0
	skipped := []string{}

	for rows.Next() {
		var (
			front    string
			back     string
			cardJSON sql.NullString
		)
		if err := rows.Scan(&front, &back, &cardJSON); err != nil {
			return 0, nil, fmt.Errorf("failed to scan card: %w", err)
		}

		state := scheduler.NewCardState(now)
		if cardJSON.Valid && cardJSON.String != "" {
			var fcard fsrs.Card
			if err := json.Unmarshal([]byte(cardJSON.String), &fcard); err != nil {
				log.Info().Str("front", front).Msg("did not import, bad fsrs card json")
				skipped = append(skipped, front)
				continue
			}
			state = sm2FromFSRS(fcard, now)
		}

		cardID, err := qtx.CreateCard(ctx, models.CreateCardParams{
			UserID: userID, DeckID: deckID, Front: front, Back: back,
		})
		if err != nil {
			return 0, nil, fmt.Errorf("failed to insert card: %w", err)
		}
		err = qtx.CreateCardState(ctx, models.CreateCardStateParams{
			UserID:       userID,
			CardID:       cardID,
			EaseFactor:   state.EaseFactor,
			IntervalDays: int32(state.IntervalDays),
			Reps:         int32(state.Reps),
			Lapses:       int32(state.Lapses),
			DueAt:        toPGTimestamp(state.DueAt),
		})
		if err != nil {
			return 0, nil, fmt.Errorf("failed to insert schedule: %w", err)
		}
		imported++
	}
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().Int64("userID", userID).Int64("deckID", deckID).
		Int("imported", imported).Int("skipped", len(skipped)).
		Msg("fsrs-vault-imported")
	return imported, skipped, nil
}

// sm2FromFSRS maps an FSRS memory state onto the nearest SM-2 schedule.
func sm2FromFSRS(card fsrs.Card, now time.Time) scheduler.CardState {
	if card.State == fsrs.New {
		return scheduler.NewCardState(now)
	}

	interval := int(card.ScheduledDays)
	if interval < 1 {
		interval = 1
	}
	due := card.Due
	if due.IsZero() {
		due = now
	}

	// FSRS difficulty runs 1..10 with 5 roughly neutral. Map it linearly
	// onto the ease factor so a neutral card keeps the default 2.5 and the
	// hardest cards land on the 1.3 floor.
	ease := scheduler.InitialEaseFactor - 0.24*(card.Difficulty-5)
	ease = math.Max(scheduler.MinEaseFactor, math.Min(ease, 3.0))

	// FSRS counts every review, not the success streak. Subtracting lapses
	// is the closest we have; a card in the Review state has succeeded at
	// least once.
	var reps int
	if card.State == fsrs.Review {
		reps = int(card.Reps) - int(card.Lapses)
		if reps < 1 {
			reps = 1
		}
	}

	return scheduler.CardState{
		EaseFactor:   ease,
		IntervalDays: interval,
		Reps:         reps,
		Lapses:       int(card.Lapses),
		DueAt:        due,
	}
}
