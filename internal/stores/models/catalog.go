package models

import (
	"context"
)

// The users/decks/cards catalog is owned by the note-management side of the
// system; the scheduling core only reads it. The inserts below exist for the
// vault importer and the test harness.

const createUser = `
INSERT INTO users (email) VALUES ($1)
ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
RETURNING id
`

func (q *Queries) CreateUser(ctx context.Context, email string) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createUser, email).Scan(&id)
	return id, err
}

const createDeck = `
INSERT INTO decks (user_id, name, description) VALUES ($1, $2, $3)
RETURNING id
`

type CreateDeckParams struct {
	UserID      int64
	Name        string
	Description *string
}

func (q *Queries) CreateDeck(ctx context.Context, arg CreateDeckParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createDeck, arg.UserID, arg.Name, arg.Description).Scan(&id)
	return id, err
}

const createCard = `
INSERT INTO cards (user_id, deck_id, front, back) VALUES ($1, $2, $3, $4)
RETURNING id
`

type CreateCardParams struct {
	UserID int64
	DeckID int64
	Front  string
	Back   string
}

func (q *Queries) CreateCard(ctx context.Context, arg CreateCardParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createCard, arg.UserID, arg.DeckID, arg.Front, arg.Back).Scan(&id)
	return id, err
}
