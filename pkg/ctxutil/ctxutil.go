package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	deckIDKey ctxKey = "deck_id"
	runIDKey  ctxKey = "run_id"
)

// WithDeckID stores the deck being studied in the context.
func WithDeckID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, deckIDKey, id)
}

// DeckIDFromCtx extracts the deck ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func DeckIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(deckIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRunID stores the ID of one CLI invocation in the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx extracts the run ID from the context.
// Returns an empty string if absent.
func RunIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}
