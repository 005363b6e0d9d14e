package study

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
	"github.com/heartmarshall/flashcard-scheduler/internal/service/study/sm2"
)

// Scheduler applies one answer event to a card: SM-2 update, review
// counters, running response-time mean and the leech policy.
type Scheduler struct {
	params           sm2.Params
	leechMinReviews  int
	leechMaxAccuracy float64
	leechSuspension  time.Duration

	now func() time.Time
	log *slog.Logger
}

// NewScheduler creates a Scheduler from SRS parameters.
func NewScheduler(log *slog.Logger, cfg domain.SRSConfig) *Scheduler {
	minEase := cfg.MinEaseFactor
	if minEase <= 0 {
		minEase = domain.MinEasinessFactor
	}
	return &Scheduler{
		params: sm2.Params{
			MinEase:         minEase,
			MaxIntervalDays: cfg.MaxIntervalDays,
		},
		leechMinReviews:  cfg.LeechMinReviews,
		leechMaxAccuracy: cfg.LeechMaxAccuracy,
		leechSuspension:  cfg.LeechSuspension,
		now:              time.Now,
		log:              log.With("component", "scheduler"),
	}
}

// reviewOutcome is the complete next state of a card, computed before
// anything is written back.
type reviewOutcome struct {
	mem            sm2.State
	totalReviews   int
	correctReviews int
	avgResponse    float64
	tagLeech       bool
	suspended      bool
}

// Schedule grades card with quality and mutates it in place.
// An out-of-range quality leaves the card untouched and returns a
// QUALITY_OUT_OF_RANGE EngineError.
func (s *Scheduler) Schedule(card *domain.Card, quality domain.Quality, responseTime time.Duration) (domain.ScheduleResult, error) {
	if card == nil {
		return domain.ScheduleResult{}, domain.NewEngineError(domain.CodeScheduleFailed, "card is nil", nil)
	}
	if !quality.IsValid() {
		s.log.Warn("quality out of range",
			slog.String("card_id", card.ID.String()),
			slog.Int("quality", int(quality)),
		)
		return domain.ScheduleResult{}, domain.NewEngineError(
			domain.CodeQualityOutOfRange,
			fmt.Sprintf("quality %d is outside [0,5]", quality),
			nil,
		)
	}

	now := s.now()

	out, err := s.compute(card, quality, responseTime, now)
	if err != nil {
		s.log.Error("schedule failed",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()),
		)
		return domain.ScheduleResult{}, domain.NewEngineError(domain.CodeScheduleFailed, "compute next state", err)
	}

	lastReview := out.mem.LastReview
	card.EasinessFactor = out.mem.EasinessFactor
	card.Interval = out.mem.Interval
	card.Repetition = out.mem.Repetition
	card.LastReview = &lastReview
	card.NextReview = out.mem.NextReview
	card.Quality = quality
	card.TotalReviews = out.totalReviews
	card.CorrectReviews = out.correctReviews
	card.AverageResponseTime = out.avgResponse
	card.UpdatedAt = now
	if out.tagLeech {
		card.AddTag(domain.LeechTag)
		s.log.Info("card tagged as leech",
			slog.String("card_id", card.ID.String()),
			slog.Int("total_reviews", out.totalReviews),
			slog.Int("correct_reviews", out.correctReviews),
		)
	}

	return domain.ScheduleResult{
		Card:           card,
		NextReview:     card.NextReview,
		Interval:       card.Interval,
		EasinessFactor: card.EasinessFactor,
		Leech:          out.suspended,
	}, nil
}

// compute derives the next state without touching card.
func (s *Scheduler) compute(card *domain.Card, quality domain.Quality, responseTime time.Duration, now time.Time) (out reviewOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	prev := sm2.State{
		EasinessFactor: card.EasinessFactor,
		Interval:       card.Interval,
		Repetition:     card.Repetition,
		NextReview:     card.NextReview,
	}
	if card.LastReview != nil {
		prev.LastReview = *card.LastReview
	}

	out.mem = sm2.UpdateWithParams(s.params, prev, int(quality), now)
	if math.IsNaN(out.mem.EasinessFactor) || math.IsInf(out.mem.EasinessFactor, 0) {
		return reviewOutcome{}, fmt.Errorf("easiness factor is not finite: %v", out.mem.EasinessFactor)
	}

	out.totalReviews = card.TotalReviews + 1
	out.correctReviews = card.CorrectReviews
	if quality.IsSuccess() {
		out.correctReviews++
	}

	rt := float64(max(responseTime, 0)) / float64(time.Millisecond)
	out.avgResponse = card.AverageResponseTime + (rt-card.AverageResponseTime)/float64(out.totalReviews)

	if s.isLeech(out.totalReviews, out.correctReviews) {
		out.suspended = true
		out.tagLeech = !card.HasTag(domain.LeechTag)
		out.mem.NextReview = now.Add(s.leechSuspension)
	}

	return out, nil
}

func (s *Scheduler) isLeech(total, correct int) bool {
	if s.leechMinReviews <= 0 || total < s.leechMinReviews {
		return false
	}
	return float64(correct)/float64(total) < s.leechMaxAccuracy
}
