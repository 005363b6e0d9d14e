package study

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

// Chunk is a read-only contiguous slice of the card list handed to one worker.
type Chunk []*domain.Card

// SelectParams is the per-build selection input. Every worker receives the
// same value; Buried is a private copy and must not be modified.
type SelectParams struct {
	DeckID uuid.UUID
	Now    time.Time
	Buried map[uuid.UUID]struct{}
}

// PartialResult is the due/fresh selection of one chunk, in chunk order.
type PartialResult struct {
	Due   []uuid.UUID
	Fresh []uuid.UUID
}

// TaskPool runs the per-chunk selection. Results must be returned indexed
// like chunks; any error discards all of them.
type TaskPool interface {
	Dispatch(ctx context.Context, chunks []Chunk, params SelectParams) ([]PartialResult, error)
}

// selectChunk is the pure per-chunk selection shared by every path.
// A never-reviewed card is always fresh, even once its NextReview has
// passed, so it counts against the new-card limit and is never due.
func selectChunk(chunk Chunk, params SelectParams) PartialResult {
	var res PartialResult
	for _, c := range chunk {
		if c == nil || c.DeckID != params.DeckID {
			continue
		}
		if _, buried := params.Buried[c.ID]; buried {
			continue
		}
		switch {
		case c.IsFresh():
			res.Fresh = append(res.Fresh, c.ID)
		case c.IsDue(params.Now):
			res.Due = append(res.Due, c.ID)
		}
	}
	return res
}

// ---------------------------------------------------------------------------
// errgroup-backed pool
// ---------------------------------------------------------------------------

// WorkerPool dispatches chunks to goroutines under an errgroup.
type WorkerPool struct {
	limit int
}

// NewWorkerPool creates a pool running at most limit chunks at once.
// limit <= 0 means one goroutine per chunk.
func NewWorkerPool(limit int) *WorkerPool {
	return &WorkerPool{limit: limit}
}

// Dispatch implements TaskPool.
func (p *WorkerPool) Dispatch(ctx context.Context, chunks []Chunk, params SelectParams) ([]PartialResult, error) {
	results := make([]PartialResult, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	if p.limit > 0 {
		g.SetLimit(p.limit)
	}

	for i, chunk := range chunks {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("worker %d: panic: %v", i, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = selectChunk(chunk, params)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
