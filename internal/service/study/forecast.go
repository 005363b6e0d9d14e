package study

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

// defaultAccuracyBias is used for cards that have never been reviewed.
const defaultAccuracyBias = 0.6

// ForecastOptions tunes the Forecast Generator.
type ForecastOptions struct {
	TTL               time.Duration
	Horizon           time.Duration
	ChunkSize         int
	MaxItems          int
	HighRiskThreshold float64
}

// DefaultForecastOptions returns the standard forecast tuning.
func DefaultForecastOptions() ForecastOptions {
	return ForecastOptions{
		TTL:               60 * time.Second,
		Horizon:           48 * time.Hour,
		ChunkSize:         250,
		MaxItems:          200,
		HighRiskThreshold: 0.6,
	}
}

type cardLister interface {
	GetAll(ctx context.Context) ([]*domain.Card, error)
}

// Forecaster estimates per-card forgetting risk and caches the result.
// Concurrent regenerations share a single in-flight computation.
type Forecaster struct {
	cards cardLister
	opts  ForecastOptions
	now   func() time.Time
	log   *slog.Logger

	mu      sync.Mutex
	cached  *domain.ForecastSnapshot
	expires time.Time
	risk    map[uuid.UUID]float64

	group singleflight.Group
}

// NewForecaster creates a Forecaster over the given card source.
func NewForecaster(log *slog.Logger, cards cardLister, opts ForecastOptions) *Forecaster {
	def := DefaultForecastOptions()
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = def.ChunkSize
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = def.MaxItems
	}
	return &Forecaster{
		cards: cards,
		opts:  opts,
		now:   time.Now,
		log:   log.With("component", "forecast"),
	}
}

// Forecast returns the cached snapshot unless it has expired or force is set.
// The returned Items slice is shared and must not be modified.
func (f *Forecaster) Forecast(ctx context.Context, force bool) (domain.ForecastSnapshot, error) {
	if !force {
		if snap, ok := f.fresh(); ok {
			return snap, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return domain.ForecastSnapshot{}, fmt.Errorf("forecast interrupted: %w", err)
	}

	// The generation is shared by every joined caller, so one caller giving
	// up only stops its own wait.
	ch := f.group.DoChan("forecast", func() (any, error) {
		return f.generate(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return domain.ForecastSnapshot{}, fmt.Errorf("forecast interrupted: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.ForecastSnapshot{}, res.Err
		}
		if res.Shared {
			f.log.DebugContext(ctx, "forecast served from in-flight generation")
		}
		return res.Val.(domain.ForecastSnapshot), nil
	}
}

// Latest returns the last generated snapshot, expired or not, or nil.
func (f *Forecaster) Latest() *domain.ForecastSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cached == nil {
		return nil
	}
	snap := *f.cached
	return &snap
}

// Risk looks up a card in the latest snapshot.
func (f *Forecaster) Risk(cardID uuid.UUID) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.risk[cardID]
	return r, ok
}

// Invalidate drops the cached snapshot so the next call regenerates.
func (f *Forecaster) Invalidate() {
	f.mu.Lock()
	f.expires = time.Time{}
	f.mu.Unlock()
}

func (f *Forecaster) fresh() (domain.ForecastSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cached == nil || !f.now().Before(f.expires) {
		return domain.ForecastSnapshot{}, false
	}
	return *f.cached, true
}

func (f *Forecaster) generate(ctx context.Context) (domain.ForecastSnapshot, error) {
	start := f.now()

	cards, err := f.cards.GetAll(ctx)
	if err != nil {
		return domain.ForecastSnapshot{}, fmt.Errorf("load cards: %w", err)
	}

	snap := domain.ForecastSnapshot{
		GeneratedAt:  start,
		HorizonHours: f.opts.Horizon.Hours(),
	}

	var (
		items   []domain.ForecastItem
		riskSum float64
	)
	for chunk := range slices.Chunk(cards, f.opts.ChunkSize) {
		if err := ctx.Err(); err != nil {
			return domain.ForecastSnapshot{}, fmt.Errorf("forecast interrupted: %w", err)
		}
		for _, c := range chunk {
			item, inHorizon, err := f.evaluate(c, start)
			if err != nil {
				snap.Skipped++
				f.log.DebugContext(ctx, "forecast skipped card", slog.String("error", err.Error()))
				continue
			}
			if !inHorizon {
				continue
			}
			items = append(items, item)
			riskSum += item.Risk
			if item.Risk >= f.opts.HighRiskThreshold {
				snap.HighRiskCount++
			}
		}
		runtime.Gosched()
	}

	if len(items) > 0 {
		snap.AverageRisk = riskSum / float64(len(items))
	}

	slices.SortStableFunc(items, func(a, b domain.ForecastItem) int {
		return cmp.Compare(b.Risk, a.Risk)
	})
	snap.Items = items[:min(len(items), f.opts.MaxItems)]

	risk := make(map[uuid.UUID]float64, len(snap.Items))
	for _, it := range snap.Items {
		risk[it.CardID] = it.Risk
	}

	f.mu.Lock()
	f.cached = &snap
	f.expires = start.Add(f.opts.TTL)
	f.risk = risk
	f.mu.Unlock()

	f.log.InfoContext(ctx, "forecast generated",
		slog.Int("cards", len(cards)),
		slog.Int("in_horizon", len(items)),
		slog.Int("high_risk", snap.HighRiskCount),
		slog.Int("skipped", snap.Skipped),
		slog.Float64("average_risk", snap.AverageRisk),
	)

	return snap, nil
}

// evaluate computes one card's item. A panic or a non-finite risk is
// reported as an error so that the card is skipped.
func (f *Forecaster) evaluate(c *domain.Card, now time.Time) (item domain.ForecastItem, inHorizon bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	dueIn := c.NextReview.Sub(now)
	if dueIn > f.opts.Horizon {
		return domain.ForecastItem{}, false, nil
	}

	risk := ForgettingRisk(c, now)
	if math.IsNaN(risk) || math.IsInf(risk, 0) {
		return domain.ForecastItem{}, false, fmt.Errorf("card %s: risk is not finite", c.ID)
	}

	return domain.ForecastItem{
		CardID:     c.ID,
		DueInHours: dueIn.Hours(),
		Risk:       risk,
	}, true, nil
}

// ForgettingRisk is the decay-curve risk of forgetting c at time now, in [0,1].
// Elapsed time counts from the last review, or from creation for cards
// that were never reviewed.
func ForgettingRisk(c *domain.Card, now time.Time) float64 {
	halfLife := float64(max(1, c.Interval)) * (c.EasinessFactor / domain.DefaultEasinessFactor)

	var since time.Time
	switch {
	case c.LastReview != nil:
		since = *c.LastReview
	case !c.CreatedAt.IsZero():
		since = c.CreatedAt
	default:
		since = now
	}
	elapsedDays := max(now.Sub(since), 0).Hours() / 24

	decay := math.Exp(-elapsedDays / halfLife)

	bias := defaultAccuracyBias
	if c.TotalReviews > 0 {
		bias = c.Accuracy()
	}

	return clamp01(1 - decay*(0.5+0.5*bias))
}
