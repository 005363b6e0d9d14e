package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

// SeedCard inserts a never-studied card in deckID with NextReview = now.
// Modify the returned card through fn before it is written.
func SeedCard(t *testing.T, pool *pgxpool.Pool, deckID uuid.UUID, fn func(c *domain.Card)) *domain.Card {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	card := domain.NewCard(deckID, now)
	if fn != nil {
		fn(card)
	}

	tags := card.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO cards (id, deck_id, easiness_factor, interval_days, repetition,
		                    last_review_at, next_review_at, quality,
		                    total_reviews, correct_reviews, avg_response_ms, tags,
		                    created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		card.ID, card.DeckID, card.EasinessFactor, card.Interval, card.Repetition,
		card.LastReview, card.NextReview, int(card.Quality),
		card.TotalReviews, card.CorrectReviews, card.AverageResponseTime, tags,
		card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCard insert: %v", err)
	}

	return card
}

// SeedDeck inserts n never-studied cards in a fresh deck and returns the deck id.
func SeedDeck(t *testing.T, pool *pgxpool.Pool, n int) uuid.UUID {
	t.Helper()

	deckID := uuid.New()
	for range n {
		SeedCard(t, pool, deckID, nil)
	}
	return deckID
}
