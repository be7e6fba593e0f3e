package models

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const addReview = `
INSERT INTO reviews (user_id, card_id, quality, reviewed_at)
VALUES ($1, $2, $3, $4)
`

type AddReviewParams struct {
	UserID     int64
	CardID     int64
	Quality    int16
	ReviewedAt pgtype.Timestamptz
}

func (q *Queries) AddReview(ctx context.Context, arg AddReviewParams) error {
	_, err := q.db.Exec(ctx, addReview, arg.UserID, arg.CardID, arg.Quality, arg.ReviewedAt)
	return err
}

const getReviewsForCard = `
SELECT id, user_id, card_id, quality, reviewed_at
FROM reviews
WHERE user_id = $1 AND card_id = $2
ORDER BY reviewed_at
`

type GetReviewsForCardParams struct {
	UserID int64
	CardID int64
}

func (q *Queries) GetReviewsForCard(ctx context.Context, arg GetReviewsForCardParams) ([]Review, error) {
	rows, err := q.db.Query(ctx, getReviewsForCard, arg.UserID, arg.CardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Review
	for rows.Next() {
		var i Review
		if err := rows.Scan(&i.ID, &i.UserID, &i.CardID, &i.Quality, &i.ReviewedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
