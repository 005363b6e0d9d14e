package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithDeckID_And_DeckIDFromCtx(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	ctx := WithDeckID(context.Background(), id)

	got, ok := DeckIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for valid UUID")
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestDeckIDFromCtx_Missing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"empty context", context.Background()},
		{"nil uuid", WithDeckID(context.Background(), uuid.Nil)},
		{"wrong type", context.WithValue(context.Background(), ctxKey("deck_id"), "not-a-uuid")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := DeckIDFromCtx(tt.ctx)
			if ok {
				t.Fatal("expected ok=false")
			}
			if got != uuid.Nil {
				t.Fatalf("expected uuid.Nil, got %s", got)
			}
		})
	}
}

func TestWithRunID_And_RunIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithRunID(context.Background(), "run-123")

	if got := RunIDFromCtx(ctx); got != "run-123" {
		t.Fatalf("expected run-123, got %q", got)
	}
}

func TestRunIDFromCtx_Empty(t *testing.T) {
	t.Parallel()

	if got := RunIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
