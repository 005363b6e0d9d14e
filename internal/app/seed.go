package app

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

// SeedConfig controls synthetic deck generation.
type SeedConfig struct {
	DeckID    uuid.UUID
	Fresh     int // never-studied cards
	Reviewed  int // cards with a generated review history
	BatchSize int
	Seed      uint64 // same seed, same deck contents
	DryRun    bool
}

// SeedResult is the outcome of one SeedDeck run.
type SeedResult struct {
	Inserted int
	Batches  int
	Duration time.Duration
}

type cardBatchWriter interface {
	CreateBatch(ctx context.Context, cards []*domain.Card) error
}

// SeedDeck writes cfg.Fresh new cards and cfg.Reviewed cards with plausible
// SM-2 state into cfg.DeckID, in transactions of cfg.BatchSize cards.
func SeedDeck(ctx context.Context, log *slog.Logger, repo cardBatchWriter, cfg SeedConfig, now time.Time) (SeedResult, error) {
	start := time.Now()
	var res SeedResult

	if cfg.DeckID == uuid.Nil {
		return res, domain.NewValidationError("deck_id", "required")
	}
	if cfg.Fresh < 0 || cfg.Reviewed < 0 {
		return res, domain.NewValidationError("count", "must be non-negative")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}

	cards := GenerateCards(cfg, now)

	for i := 0; i < len(cards); i += cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		batch := cards[i:min(i+cfg.BatchSize, len(cards))]

		if !cfg.DryRun {
			if err := repo.CreateBatch(ctx, batch); err != nil {
				return res, fmt.Errorf("batch %d: %w", res.Batches+1, err)
			}
		}
		res.Inserted += len(batch)
		res.Batches++

		log.DebugContext(ctx, "seed batch written",
			slog.Int("batch", res.Batches),
			slog.Int("size", len(batch)),
			slog.Bool("dry_run", cfg.DryRun),
		)
	}

	res.Duration = time.Since(start)
	log.InfoContext(ctx, "deck seeded",
		slog.String("deck_id", cfg.DeckID.String()),
		slog.Int("inserted", res.Inserted),
		slog.Int("batches", res.Batches),
		slog.Bool("dry_run", cfg.DryRun),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

// GenerateCards builds the cards SeedDeck writes. Fresh cards come first
// and are due at now; reviewed cards are spread around now so some are
// overdue and some are due within the next days.
func GenerateCards(cfg SeedConfig, now time.Time) []*domain.Card {
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:8], cfg.Seed)
	src := rand.NewChaCha8(seed)
	g := &cardGen{src: src, rng: rand.New(src)}

	cards := make([]*domain.Card, 0, cfg.Fresh+cfg.Reviewed)
	for range cfg.Fresh {
		c := domain.NewCard(cfg.DeckID, now)
		c.ID = g.id()
		cards = append(cards, c)
	}
	for range cfg.Reviewed {
		cards = append(cards, g.reviewed(cfg.DeckID, now))
	}
	return cards
}

// cardGen draws ids and card state from one seeded stream.
type cardGen struct {
	src *rand.ChaCha8
	rng *rand.Rand
}

func (g *cardGen) id() uuid.UUID {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		// ChaCha8.Read never fails.
		panic(err)
	}
	return id
}

func (g *cardGen) reviewed(deckID uuid.UUID, now time.Time) *domain.Card {
	rng := g.rng

	total := 1 + rng.IntN(20)
	correct := rng.IntN(total + 1)
	repetition := rng.IntN(min(correct, 6) + 1)

	interval := 1
	switch {
	case repetition == 2:
		interval = 6
	case repetition > 2:
		interval = 6 + rng.IntN(60)
	}

	// Due anywhere from interval days ago to three days ahead.
	dueOffset := time.Duration(rng.Float64()*float64(interval+3)*24)*time.Hour - time.Duration(interval)*24*time.Hour
	next := now.Add(dueOffset)
	last := next.Add(-time.Duration(interval) * 24 * time.Hour)
	created := last.Add(-time.Duration(rng.IntN(30)+1) * 24 * time.Hour)

	ease := domain.DefaultEasinessFactor - 0.15*float64(total-correct) + 0.1*float64(correct)
	ease = math.Max(domain.MinEasinessFactor, math.Min(ease, 3.0))

	return &domain.Card{
		ID:                  g.id(),
		DeckID:              deckID,
		EasinessFactor:      math.Round(ease*100) / 100,
		Interval:            interval,
		Repetition:          repetition,
		LastReview:          &last,
		NextReview:          next,
		Quality:             domain.Quality(rng.IntN(6)),
		TotalReviews:        total,
		CorrectReviews:      correct,
		AverageResponseTime: float64(1500 + rng.IntN(6000)),
		CreatedAt:           created,
		UpdatedAt:           last,
	}
}
