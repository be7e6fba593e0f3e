package cardvault

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matryer/is"

	"github.com/srsbox/cardvault/internal/stores/models"
)

func TestFillDailyStatsEmpty(t *testing.T) {
	is := is.New(t)
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	stats := fillDailyStats(nil, start, 30)
	is.Equal(len(stats), 30)
	for i := range stats {
		is.Equal(stats[i].Day, start.AddDate(0, 0, i))
		is.Equal(stats[i].ReviewsCount, int64(0))
		is.Equal(stats[i].SuccessRate, float64(0))
	}
}

func TestFillDailyStatsSparse(t *testing.T) {
	is := is.New(t)
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.DailyReviewCountsRow{
		{
			Day:          pgtype.Date{Time: start, Valid: true},
			ReviewsCount: 4,
			SuccessCount: 3,
		},
		{
			Day:          pgtype.Date{Time: start.AddDate(0, 0, 3), Valid: true},
			ReviewsCount: 2,
			SuccessCount: 0,
		},
	}

	stats := fillDailyStats(rows, start, 5)
	is.Equal(len(stats), 5)
	is.Equal(stats[0].ReviewsCount, int64(4))
	is.Equal(stats[0].SuccessRate, 0.75)
	is.Equal(stats[1].ReviewsCount, int64(0))
	is.Equal(stats[2].ReviewsCount, int64(0))
	is.Equal(stats[3].ReviewsCount, int64(2))
	is.Equal(stats[3].SuccessRate, float64(0))
	is.Equal(stats[4].ReviewsCount, int64(0))
}

func TestSuccessRateEmptyWindowIsZero(t *testing.T) {
	is := is.New(t)
	is.Equal(successRate(0, 0), float64(0))
	is.Equal(successRate(3, 4), 0.75)
}

func TestSummaryCounts(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	userID, _, cardIDs := env.seedCards(ctx, t, "cesar@example.com", 3)

	_, _, err := env.svc.RecordReview(ctx, userID, cardIDs[0], 4)
	is.NoErr(err)
	_, _, err = env.svc.RecordReview(ctx, userID, cardIDs[1], 2)
	is.NoErr(err)

	summary, err := env.svc.SummaryCounts(ctx, userID, "")
	is.NoErr(err)
	// Only the unreviewed card is still due; only the success has reps > 0.
	is.Equal(summary.DueNow, int64(1))
	is.Equal(summary.Learned, int64(1))
	is.Equal(summary.ReviewedToday, int64(2))
	is.Equal(summary.Success7, 0.5)
	is.Equal(summary.Success30, 0.5)
}

func TestSummaryCountsNoHistory(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	userID, _, _ := env.seedCards(ctx, t, "nobody@example.com", 0)

	summary, err := env.svc.SummaryCounts(ctx, userID, "")
	is.NoErr(err)
	is.Equal(summary.DueNow, int64(0))
	is.Equal(summary.Learned, int64(0))
	is.Equal(summary.ReviewedToday, int64(0))
	// Zero, not an error, on an empty window.
	is.Equal(summary.Success7, float64(0))
	is.Equal(summary.Success30, float64(0))
}

func TestDailyStats(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	userID, _, cardIDs := env.seedCards(ctx, t, "cesar@example.com", 2)

	// One success two days ago, then a success and a lapse today.
	env.nower.fakenow = testTime.Add(-48 * time.Hour)
	_, _, err := env.svc.RecordReview(ctx, userID, cardIDs[0], 5)
	is.NoErr(err)
	env.nower.fakenow = testTime
	_, _, err = env.svc.RecordReview(ctx, userID, cardIDs[1], 4)
	is.NoErr(err)
	_, _, err = env.svc.RecordReview(ctx, userID, cardIDs[1], 1)
	is.NoErr(err)

	stats, err := env.svc.DailyStats(ctx, userID, 30, "")
	is.NoErr(err)
	is.Equal(len(stats), 30)
	for i := 1; i < len(stats); i++ {
		is.True(stats[i].Day.After(stats[i-1].Day))
	}

	today := stats[29]
	is.Equal(today.ReviewsCount, int64(2))
	is.Equal(today.SuccessRate, 0.5)

	twoDaysAgo := stats[27]
	is.Equal(twoDaysAgo.ReviewsCount, int64(1))
	is.Equal(twoDaysAgo.SuccessRate, float64(1))

	is.Equal(stats[0].ReviewsCount, int64(0))
	is.Equal(stats[28].ReviewsCount, int64(0))
}

func TestDailyStatsNoHistory(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	userID, _, _ := env.seedCards(ctx, t, "nobody@example.com", 0)

	stats, err := env.svc.DailyStats(ctx, userID, 30, "")
	is.NoErr(err)
	is.Equal(len(stats), 30)
	for i := range stats {
		is.Equal(stats[i].ReviewsCount, int64(0))
		is.Equal(stats[i].SuccessRate, float64(0))
	}
}

func TestDeckProgress(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()
	userID, deckID, cardIDs := env.seedCards(ctx, t, "cesar@example.com", 2)

	emptyDeck, err := env.queries.CreateDeck(ctx, models.CreateDeckParams{UserID: userID, Name: "Empty"})
	is.NoErr(err)

	// Learn one card; the other stays due.
	_, _, err = env.svc.RecordReview(ctx, userID, cardIDs[0], 4)
	is.NoErr(err)

	progress, err := env.svc.DeckProgress(ctx, userID)
	is.NoErr(err)
	is.Equal(len(progress), 2)

	byID := map[int64]DeckProgress{}
	for _, p := range progress {
		byID[p.DeckID] = p
	}
	spanish := byID[deckID]
	is.Equal(spanish.Name, "Spanish")
	is.Equal(spanish.TotalCards, int64(2))
	is.Equal(spanish.LearnedCards, int64(1))
	is.Equal(spanish.DueNow, int64(1))

	empty := byID[emptyDeck]
	is.Equal(empty.TotalCards, int64(0))
	is.Equal(empty.LearnedCards, int64(0))
	is.Equal(empty.DueNow, int64(0))
}
