package study

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

// Retune caps for each weight, applied before normalization.
const (
	maxDueWeight        = 0.6
	maxForecastWeight   = 0.4
	maxDifficultyWeight = 0.5
	maxRetentionWeight  = 0.4
)

// OrchestratorOptions tunes the feedback loop.
type OrchestratorOptions struct {
	FeedbackCapacity int
	MinSamples       int
	RetuneCooldown   time.Duration
	// StruggleQuality is the normalized mean quality below which the user
	// is considered to be struggling.
	StruggleQuality float64
	Step            float64
}

// DefaultOrchestratorOptions returns the standard feedback-loop tuning.
func DefaultOrchestratorOptions() OrchestratorOptions {
	return OrchestratorOptions{
		FeedbackCapacity: 500,
		MinSamples:       30,
		RetuneCooldown:   60 * time.Second,
		StruggleQuality:  0.6,
		Step:             0.05,
	}
}

// DefaultWeights returns the initial blend weights.
func DefaultWeights() domain.Weights {
	return domain.Weights{
		Due:          0.4,
		Difficulty:   0.2,
		Retention:    0.2,
		Forecast:     0.2,
		LeechPenalty: 0.3,
	}
}

// RankedCard is a card with the composite score it was ranked by.
type RankedCard struct {
	Card      *domain.Card
	Composite float64
	Factors   domain.ScoreFactors
	Risk      float64
	Leech     bool
}

// Orchestrator re-ranks candidate cards and retunes its weights from
// answer feedback. One instance per process.
type Orchestrator struct {
	opts OrchestratorOptions
	now  func() time.Time
	log  *slog.Logger

	mu         sync.Mutex
	weights    domain.Weights
	samples    []domain.FeedbackSample
	next       int // ring write position
	lastRetune time.Time
	predicted  map[uuid.UUID]float64
}

// NewOrchestrator creates an Orchestrator with DefaultWeights.
func NewOrchestrator(log *slog.Logger, opts OrchestratorOptions) *Orchestrator {
	if opts.FeedbackCapacity <= 0 {
		opts.FeedbackCapacity = DefaultOrchestratorOptions().FeedbackCapacity
	}
	return &Orchestrator{
		opts:      opts,
		now:       time.Now,
		log:       log.With("component", "orchestrator"),
		weights:   DefaultWeights(),
		samples:   make([]domain.FeedbackSample, 0, opts.FeedbackCapacity),
		predicted: make(map[uuid.UUID]float64),
	}
}

// Weights returns a copy of the current weights.
func (o *Orchestrator) Weights() domain.Weights {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.weights
}

// Rank orders cards by composite score, descending; ties keep input order.
// It never adds or drops cards. forecast and leeches may be nil.
func (o *Orchestrator) Rank(cards []*domain.Card, forecast *domain.ForecastSnapshot, leeches map[uuid.UUID]struct{}) []*domain.Card {
	ranked := o.RankDetailed(cards, forecast, leeches)
	out := make([]*domain.Card, len(ranked))
	for i, r := range ranked {
		out[i] = r.Card
	}
	return out
}

// RankDetailed is Rank with the per-card composite breakdown.
func (o *Orchestrator) RankDetailed(cards []*domain.Card, forecast *domain.ForecastSnapshot, leeches map[uuid.UUID]struct{}) []RankedCard {
	o.mu.Lock()
	w := o.weights
	o.mu.Unlock()

	risk := forecast.RiskByCard()
	scored := scoreFactors(cards, o.now())

	ranked := make([]RankedCard, len(scored))
	for i, sc := range scored {
		r := RankedCard{
			Card:    sc.Card,
			Factors: sc.Factors,
			Risk:    risk[sc.Card.ID],
		}
		_, r.Leech = leeches[sc.Card.ID]

		leech := 0.0
		if r.Leech {
			leech = 1
		}
		r.Composite = sc.Factors.Due*w.Due +
			sc.Factors.Difficulty*w.Difficulty +
			sc.Factors.Retention*w.Retention +
			r.Risk*w.Forecast -
			leech*w.LeechPenalty
		ranked[i] = r
	}

	slices.SortStableFunc(ranked, func(a, b RankedCard) int {
		return cmp.Compare(b.Composite, a.Composite)
	})

	predicted := make(map[uuid.UUID]float64, len(ranked))
	for _, r := range ranked {
		predicted[r.Card.ID] = r.Composite
	}
	o.mu.Lock()
	o.predicted = predicted
	o.mu.Unlock()

	return ranked
}

// Predicted returns the composite the card was last ranked with.
func (o *Orchestrator) Predicted(cardID uuid.UUID) (float64, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.predicted[cardID]
	return p, ok
}

// RecordFeedback appends one answer to the ring buffer and retunes the
// weights when enough samples have accumulated since the last retune and
// the cooldown has passed.
func (o *Orchestrator) RecordFeedback(predicted float64, quality domain.Quality, responseTime time.Duration) {
	sample := domain.FeedbackSample{
		Predicted:    predicted,
		Quality:      quality,
		ResponseTime: responseTime,
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.samples) < o.opts.FeedbackCapacity {
		o.samples = append(o.samples, sample)
	} else {
		o.samples[o.next] = sample
	}
	o.next = (o.next + 1) % o.opts.FeedbackCapacity

	o.maybeRetune()
}

// SampleCount returns the number of buffered feedback samples.
func (o *Orchestrator) SampleCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.samples)
}

// maybeRetune consumes the whole buffer: after a retune the next one
// needs MinSamples new answers. Must be called with o.mu held.
func (o *Orchestrator) maybeRetune() {
	if len(o.samples) < o.opts.MinSamples {
		return
	}
	now := o.now()
	if !o.lastRetune.IsZero() && now.Sub(o.lastRetune) < o.opts.RetuneCooldown {
		return
	}

	var sum float64
	for _, s := range o.samples {
		sum += s.Quality.Normalized()
	}
	mean := sum / float64(len(o.samples))

	w := o.weights
	struggling := mean < o.opts.StruggleQuality
	if struggling {
		w.Due = min(w.Due+o.opts.Step, maxDueWeight)
		w.Forecast = min(w.Forecast+o.opts.Step, maxForecastWeight)
	} else {
		w.Difficulty = min(w.Difficulty+o.opts.Step, maxDifficultyWeight)
		w.Retention = min(w.Retention+o.opts.Step, maxRetentionWeight)
	}
	o.weights = w.Normalize()
	o.lastRetune = now
	consumed := len(o.samples)
	o.samples = o.samples[:0]
	o.next = 0

	o.log.Info("orchestrator weights retuned",
		slog.Int("samples", consumed),
		slog.Float64("mean_quality", mean),
		slog.Bool("struggling", struggling),
		slog.Float64("due", o.weights.Due),
		slog.Float64("difficulty", o.weights.Difficulty),
		slog.Float64("retention", o.weights.Retention),
		slog.Float64("forecast", o.weights.Forecast),
	)
}
