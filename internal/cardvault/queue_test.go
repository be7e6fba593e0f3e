package cardvault

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/srsbox/cardvault/internal/stores/models"
)

func TestQueuePopAndSkip(t *testing.T) {
	is := is.New(t)
	q := &Queue{cards: []DueCard{{CardID: 1}, {CardID: 2}, {CardID: 3}}}
	is.Equal(q.Len(), 3)

	first, ok := q.Next()
	is.True(ok)
	is.Equal(first.CardID, int64(1))

	// Skipping sends the card to the back of this local copy only.
	q.Skip(first)
	second, _ := q.Next()
	third, _ := q.Next()
	again, _ := q.Next()
	is.Equal(second.CardID, int64(2))
	is.Equal(third.CardID, int64(3))
	is.Equal(again.CardID, int64(1))

	_, ok = q.Next()
	is.True(!ok)
	is.Equal(q.Len(), 0)
}

func TestQueueCardsIsACopy(t *testing.T) {
	is := is.New(t)
	q := &Queue{cards: []DueCard{{CardID: 7}}}
	cards := q.Cards()
	cards[0].CardID = 99
	front, _ := q.Next()
	is.Equal(front.CardID, int64(7))
}

func TestDueQueueSelection(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	userID, deckID, _ := env.seedCards(ctx, t, "cesar@example.com", 0)

	overdue := env.seedCard(ctx, t, userID, deckID, "overdue", testTime.Add(-time.Hour))
	soon := env.seedCard(ctx, t, userID, deckID, "due-in-3d", testTime.Add(3*24*time.Hour))
	env.seedCard(ctx, t, userID, deckID, "due-in-10d", testTime.Add(10*24*time.Hour))
	suspended := env.seedCard(ctx, t, userID, deckID, "suspended", testTime.Add(-2*time.Hour))
	is.NoErr(env.svc.SetSuspended(ctx, userID, suspended, true))

	queue, err := env.svc.DueQueue(ctx, userID, nil, 0)
	is.NoErr(err)
	// Suspended and beyond-horizon cards are out, order is by due time.
	is.Equal(queue.Len(), 2)
	cards := queue.Cards()
	is.Equal(cards[0].CardID, overdue)
	is.Equal(cards[1].CardID, soon)
	is.Equal(cards[0].DeckName, "Spanish")

	queue, err = env.svc.DueQueue(ctx, userID, nil, 1)
	is.NoErr(err)
	is.Equal(queue.Len(), 1)
}

func TestDueQueueDeckFilter(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	userID, deckID, _ := env.seedCards(ctx, t, "cesar@example.com", 2)

	otherDeck, err := env.queries.CreateDeck(ctx, models.CreateDeckParams{UserID: userID, Name: "French"})
	is.NoErr(err)
	frenchCard := env.seedCard(ctx, t, userID, otherDeck, "bonjour", testTime.Add(-time.Minute))

	queue, err := env.svc.DueQueue(ctx, userID, &otherDeck, 0)
	is.NoErr(err)
	is.Equal(queue.Len(), 1)
	card, _ := queue.Next()
	is.Equal(card.CardID, frenchCard)
	is.Equal(card.DeckName, "French")

	queue, err = env.svc.DueQueue(ctx, userID, &deckID, 0)
	is.NoErr(err)
	is.Equal(queue.Len(), 2)
}

func TestDueQueueSnapshotIsStale(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	userID, _, cardIDs := env.seedCards(ctx, t, "cesar@example.com", 1)

	queue, err := env.svc.DueQueue(ctx, userID, nil, 0)
	is.NoErr(err)
	is.Equal(queue.Len(), 1)

	// A suspend issued elsewhere does not reach the held snapshot; only a
	// fresh fetch observes it.
	is.NoErr(env.svc.SetSuspended(ctx, userID, cardIDs[0], true))
	card, ok := queue.Next()
	is.True(ok)
	is.Equal(card.CardID, cardIDs[0])

	fresh, err := env.svc.DueQueue(ctx, userID, nil, 0)
	is.NoErr(err)
	is.Equal(fresh.Len(), 0)
}
