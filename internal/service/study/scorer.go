package study

import (
	"cmp"
	"slices"
	"time"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

const (
	dueHorizon          = 7 * 24 * time.Hour
	hardEaseThreshold   = 2.4
	easyDifficultyScale = 0.7
)

// ScoreOptions are the scorer's clock and factor weights.
type ScoreOptions struct {
	Now              time.Time
	RecencyWeight    float64
	DifficultyWeight float64
	RetentionWeight  float64
}

// DefaultScoreOptions returns the standard weights at the given time.
func DefaultScoreOptions(now time.Time) ScoreOptions {
	return ScoreOptions{
		Now:              now,
		RecencyWeight:    0.5,
		DifficultyWeight: 0.3,
		RetentionWeight:  0.2,
	}
}

// ScoreCards scores every card and sorts by score descending.
// Ties keep input order. Nil cards are dropped.
func ScoreCards(cards []*domain.Card, opts ScoreOptions) []domain.ScoredCard {
	scored := scoreFactors(cards, opts.Now)
	for i := range scored {
		f := scored[i].Factors
		scored[i].Score = f.Due*opts.RecencyWeight + f.Difficulty*opts.DifficultyWeight + f.Retention*opts.RetentionWeight
	}
	slices.SortStableFunc(scored, func(a, b domain.ScoredCard) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return scored
}

// scoreFactors computes the three factors per card, in input order.
func scoreFactors(cards []*domain.Card, now time.Time) []domain.ScoredCard {
	maxInterval := 1
	for _, c := range cards {
		if c != nil {
			maxInterval = max(maxInterval, c.Interval)
		}
	}

	out := make([]domain.ScoredCard, 0, len(cards))
	for _, c := range cards {
		if c == nil {
			continue
		}
		out = append(out, domain.ScoredCard{
			Card: c,
			Factors: domain.ScoreFactors{
				Due:        dueFactor(c, now),
				Difficulty: difficultyFactor(c),
				Retention:  clamp01(1 - min(1, float64(c.Interval)/float64(maxInterval))),
			},
		})
	}
	return out
}

// dueFactor is 1 for due cards and decays linearly to 0 over a week.
func dueFactor(c *domain.Card, now time.Time) float64 {
	until := max(c.NextReview.Sub(now), 0)
	return clamp01(1 - min(1, float64(until)/float64(dueHorizon)))
}

func difficultyFactor(c *domain.Card) float64 {
	scale := easyDifficultyScale
	if c.EasinessFactor < hardEaseThreshold {
		scale = 1
	}
	return clamp01(min(1, scale/float64(max(1, c.TotalReviews))))
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
