package domain

import (
	"time"

	"github.com/google/uuid"
)

// SRSConfig holds scheduling parameters (pure domain type).
type SRSConfig struct {
	MinEaseFactor    float64
	MaxIntervalDays  int
	LeechMinReviews  int
	LeechMaxAccuracy float64 // leech when accuracy is strictly below this
	LeechSuspension  time.Duration
	NewCardsPerDay   int
	MaxQueueSize     int
	Timezone         string
}

// DefaultSRSConfig returns the standard SM-2 and leech policy parameters.
func DefaultSRSConfig() SRSConfig {
	return SRSConfig{
		MinEaseFactor:    MinEasinessFactor,
		MaxIntervalDays:  36500,
		LeechMinReviews:  8,
		LeechMaxAccuracy: 0.5,
		LeechSuspension:  7 * 24 * time.Hour,
		NewCardsPerDay:   20,
		MaxQueueSize:     100,
		Timezone:         "UTC",
	}
}

// ScheduleResult is the transcript of one scheduling decision.
// Card is the same (mutated) card that was scheduled.
type ScheduleResult struct {
	Card           *Card
	NextReview     time.Time
	Interval       int
	EasinessFactor float64
	Leech          bool // leech policy applied: card suspended
}

// ScoreFactors are the per-card inputs of the composite score, each in [0,1].
type ScoreFactors struct {
	Due        float64
	Difficulty float64
	Retention  float64
}

// ScoredCard is an ephemeral scoring result. Never persisted.
type ScoredCard struct {
	Card    *Card
	Score   float64
	Factors ScoreFactors
}

// ForecastItem is the forgetting risk of one card due within the horizon.
type ForecastItem struct {
	CardID     uuid.UUID
	DueInHours float64
	Risk       float64
}

// ForecastSnapshot is a cached, time-boxed forgetting-risk view.
// AverageRisk and HighRiskCount cover all cards in the horizon,
// Items only the riskiest ones.
type ForecastSnapshot struct {
	GeneratedAt   time.Time
	AverageRisk   float64
	HighRiskCount int
	HorizonHours  float64
	Items         []ForecastItem
	Skipped       int // cards that could not be evaluated
}

// RiskByCard indexes the snapshot items by card ID.
func (s *ForecastSnapshot) RiskByCard() map[uuid.UUID]float64 {
	if s == nil {
		return nil
	}
	m := make(map[uuid.UUID]float64, len(s.Items))
	for _, it := range s.Items {
		m[it.CardID] = it.Risk
	}
	return m
}

// Weights are the orchestrator's blend weights. Due, Difficulty, Retention
// and Forecast are additive and sum to 1 after normalization; LeechPenalty
// is subtracted and kept as-is.
type Weights struct {
	Due          float64
	Difficulty   float64
	Retention    float64
	Forecast     float64
	LeechPenalty float64
}

// Sum returns the sum of the four additive weights.
func (w Weights) Sum() float64 {
	return w.Due + w.Difficulty + w.Retention + w.Forecast
}

// Normalize rescales the additive weights to sum to 1.
// An all-zero set is left unchanged.
func (w Weights) Normalize() Weights {
	sum := w.Sum()
	if sum <= 0 {
		return w
	}
	w.Due /= sum
	w.Difficulty /= sum
	w.Retention /= sum
	w.Forecast /= sum
	return w
}

// FeedbackSample is one answered card as seen by the orchestrator.
type FeedbackSample struct {
	Predicted    float64
	Quality      Quality
	ResponseTime time.Duration
}
