package cardvault

import (
	"context"
	"fmt"
	"time"

	"github.com/srsbox/cardvault/internal/stores/models"
)

// DueCard is one entry of a due-queue snapshot.
type DueCard struct {
	CardID   int64
	DeckID   int64
	DeckName string
	Front    string
	Back     string
	DueAt    time.Time
}

// Queue is a point-in-time snapshot of the cards eligible for review. The
// caller owns it: Next and Skip mutate only this local copy, and nothing
// refreshes it behind the caller's back. Changes made elsewhere (a suspend
// from another session, say) are not visible until the caller fetches a
// fresh queue with Service.DueQueue.
type Queue struct {
	cards []DueCard
}

func (q *Queue) Len() int {
	return len(q.cards)
}

// Next pops the front card. ok is false once the snapshot is exhausted.
func (q *Queue) Next() (DueCard, bool) {
	if len(q.cards) == 0 {
		return DueCard{}, false
	}
	card := q.cards[0]
	q.cards = q.cards[1:]
	return card, true
}

// Skip puts a card at the back of the snapshot so it comes around again
// later in the same session.
func (q *Queue) Skip(card DueCard) {
	q.cards = append(q.cards, card)
}

// Cards returns the remaining entries in order, for display.
func (q *Queue) Cards() []DueCard {
	out := make([]DueCard, len(q.cards))
	copy(out, q.cards)
	return out
}

// DueQueue selects the cards eligible for review right now: not suspended,
// due within the configured horizon, ascending by due time, truncated to
// limit (the configured default when limit <= 0). A non-nil deckID narrows
// the queue to one deck.
func (s *Service) DueQueue(ctx context.Context, userID int64, deckID *int64, limit int32) (*Queue, error) {
	if limit <= 0 {
		limit = int32(s.Config.DefaultQueueLimit)
	}
	now := s.Nower.Now()
	horizon := now.Add(time.Duration(s.Config.DueHorizonDays) * 24 * time.Hour)

	rows, err := s.Queries.DueQueue(ctx, models.DueQueueParams{
		UserID:    userID,
		DueBefore: toPGTimestamp(horizon),
		DeckID:    deckID,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	cards := make([]DueCard, len(rows))
	for i := range rows {
		cards[i] = DueCard{
			CardID:   rows[i].CardID,
			DeckID:   rows[i].DeckID,
			DeckName: rows[i].DeckName,
			Front:    rows[i].Front,
			Back:     rows[i].Back,
			DueAt:    rows[i].DueAt.Time,
		}
	}
	return &Queue{cards: cards}, nil
}
