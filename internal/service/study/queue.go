package study

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

// QueueOptions tunes the Queue Builder.
type QueueOptions struct {
	// ParallelThreshold is the card count at which the worker path is used.
	ParallelThreshold int
	// MaxWorkers caps the number of chunks.
	MaxWorkers int
}

// DefaultQueueOptions returns the standard queue tuning.
func DefaultQueueOptions() QueueOptions {
	return QueueOptions{ParallelThreshold: 5000, MaxWorkers: 8}
}

// QueueBuilder selects which cards are studied today.
// Burial state lives here and is shared by every Build call.
type QueueBuilder struct {
	mu     sync.RWMutex
	buried map[uuid.UUID]struct{}

	pool TaskPool
	opts QueueOptions
	now  func() time.Time
	log  *slog.Logger
}

// NewQueueBuilder creates a builder. A nil pool disables the parallel path.
func NewQueueBuilder(log *slog.Logger, pool TaskPool, opts QueueOptions) *QueueBuilder {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = DefaultQueueOptions().MaxWorkers
	}
	return &QueueBuilder{
		buried: make(map[uuid.UUID]struct{}),
		pool:   pool,
		opts:   opts,
		now:    time.Now,
		log:    log.With("component", "queue"),
	}
}

// ---------------------------------------------------------------------------
// Burial
// ---------------------------------------------------------------------------

// Bury hides the card from every Build until ResetBuried. The card itself is not touched.
func (b *QueueBuilder) Bury(id uuid.UUID) {
	b.mu.Lock()
	b.buried[id] = struct{}{}
	b.mu.Unlock()
}

// Unbury removes a single card from the burial set.
func (b *QueueBuilder) Unbury(id uuid.UUID) {
	b.mu.Lock()
	delete(b.buried, id)
	b.mu.Unlock()
}

func (b *QueueBuilder) IsBuried(id uuid.UUID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.buried[id]
	return ok
}

// BuriedCount returns the size of the burial set.
func (b *QueueBuilder) BuriedCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.buried)
}

// ResetBuried empties the burial set.
func (b *QueueBuilder) ResetBuried() {
	b.mu.Lock()
	clear(b.buried)
	b.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Build
// ---------------------------------------------------------------------------

// Build returns due cards of deckID (most overdue first, at most maxTotal),
// followed by fresh cards up to min(maxTotal - due, dailyNewLimit).
// The result does not depend on which path (sequential or parallel) ran.
func (b *QueueBuilder) Build(ctx context.Context, cards []*domain.Card, deckID uuid.UUID, dailyNewLimit, maxTotal int) ([]*domain.Card, error) {
	params := SelectParams{
		DeckID: deckID,
		Now:    b.now(),
		Buried: b.buriedSnapshot(),
	}

	if b.pool != nil && b.opts.ParallelThreshold > 0 && len(cards) >= b.opts.ParallelThreshold {
		partials, err := b.dispatch(ctx, cards, params)
		if err == nil {
			return assemble(cards, partials, dailyNewLimit, maxTotal), nil
		}
		b.log.WarnContext(ctx, "parallel queue build failed, falling back to sequential",
			slog.Int("cards", len(cards)),
			slog.String("error", err.Error()),
		)
	}

	if err := ctx.Err(); err != nil {
		return nil, domain.NewEngineError(domain.CodeQueueBuildFailed, "queue build aborted", err)
	}
	partial := selectChunk(cards, params)
	return assemble(cards, []PartialResult{partial}, dailyNewLimit, maxTotal), nil
}

func (b *QueueBuilder) buriedSnapshot() map[uuid.UUID]struct{} {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.buried)
}

// dispatch splits cards into contiguous chunks and runs them on the pool.
func (b *QueueBuilder) dispatch(ctx context.Context, cards []*domain.Card, params SelectParams) ([]PartialResult, error) {
	workers := min(runtime.GOMAXPROCS(0), b.opts.MaxWorkers)
	chunks := splitChunks(cards, workers)

	partials, err := b.pool.Dispatch(ctx, chunks, params)
	if err != nil {
		return nil, err
	}
	if len(partials) != len(chunks) {
		return nil, fmt.Errorf("task pool returned %d results for %d chunks", len(partials), len(chunks))
	}
	return partials, nil
}

// splitChunks partitions cards into at most n contiguous chunks.
func splitChunks(cards []*domain.Card, n int) []Chunk {
	if n < 1 {
		n = 1
	}
	size := (len(cards) + n - 1) / n
	if size == 0 {
		return nil
	}
	chunks := make([]Chunk, 0, n)
	for c := range slices.Chunk(cards, size) {
		chunks = append(chunks, Chunk(c))
	}
	return chunks
}

// assemble merges partial results in order and applies the global limits.
// Due ids are unioned, fresh ids concatenated; a duplicate id keeps its
// first position.
func assemble(cards []*domain.Card, partials []PartialResult, dailyNewLimit, maxTotal int) []*domain.Card {
	byID := make(map[uuid.UUID]*domain.Card, len(cards))
	for _, c := range cards {
		if c == nil {
			continue
		}
		if _, ok := byID[c.ID]; !ok {
			byID[c.ID] = c
		}
	}

	seen := make(map[uuid.UUID]struct{})
	var due, fresh []*domain.Card
	for _, p := range partials {
		for _, id := range p.Due {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if c := byID[id]; c != nil {
				due = append(due, c)
			}
		}
	}
	for _, p := range partials {
		for _, id := range p.Fresh {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if c := byID[id]; c != nil {
				fresh = append(fresh, c)
			}
		}
	}

	slices.SortStableFunc(due, func(a, b *domain.Card) int {
		return a.NextReview.Compare(b.NextReview)
	})

	maxTotal = max(maxTotal, 0)
	due = due[:min(len(due), maxTotal)]
	freshBudget := max(min(maxTotal-len(due), dailyNewLimit), 0)
	fresh = fresh[:min(len(fresh), freshBudget)]

	out := make([]*domain.Card, 0, len(due)+len(fresh))
	out = append(out, due...)
	return append(out, fresh...)
}
