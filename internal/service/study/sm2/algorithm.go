// Package sm2 implements the SM-2 memory model update.
// It is the only place where ease and interval arithmetic is defined.
package sm2

import (
	"math"
	"time"
)

const (
	// DefaultEase is the ease of a card that has never been reviewed.
	DefaultEase = 2.5
	// MinEase is the floor for the easiness factor.
	MinEase = 1.3

	// FirstInterval and SecondInterval are the fixed intervals (days) after
	// the first and second consecutive successful reviews.
	FirstInterval  = 1
	SecondInterval = 6

	// PassingQuality is the lowest grade that counts as a successful recall.
	PassingQuality = 3
	// MaxQuality is the highest grade.
	MaxQuality = 5

	day = 24 * time.Hour
)

// State is the SM-2 memory state of a card.
type State struct {
	EasinessFactor float64
	Interval       int // days
	Repetition     int // consecutive successful reviews
	LastReview     time.Time
	NextReview     time.Time
}

// Params tunes the update. The zero value means MinEase and no interval cap.
type Params struct {
	MinEase         float64
	MaxIntervalDays int
}

// DefaultParams returns the standard SM-2 parameters.
func DefaultParams() Params {
	return Params{MinEase: MinEase}
}

// Update applies one review of the given quality (0..5) at time now.
// quality must already be validated by the caller.
func Update(state State, quality int, now time.Time) State {
	return UpdateWithParams(DefaultParams(), state, quality, now)
}

// UpdateWithParams is Update with explicit parameters.
func UpdateWithParams(params Params, state State, quality int, now time.Time) State {
	minEase := params.MinEase
	if minEase <= 0 {
		minEase = MinEase
	}

	next := State{
		EasinessFactor: NextEase(state.EasinessFactor, quality, minEase),
		LastReview:     now,
	}

	if quality < PassingQuality {
		next.Repetition = 0
		next.Interval = FirstInterval
	} else {
		next.Repetition = state.Repetition + 1
		next.Interval = NextInterval(state.Interval, next.Repetition, next.EasinessFactor)
	}

	if params.MaxIntervalDays > 0 && next.Interval > params.MaxIntervalDays {
		next.Interval = params.MaxIntervalDays
	}

	next.NextReview = now.Add(time.Duration(next.Interval) * day)
	return next
}

// NextEase computes the new easiness factor, floored at minEase.
//
//	EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
func NextEase(ease float64, quality int, minEase float64) float64 {
	if ease <= 0 {
		ease = DefaultEase
	}
	q := float64(MaxQuality - quality)
	ease += 0.1 - q*(0.08+q*0.02)
	return math.Max(ease, minEase)
}

// NextInterval computes the interval after a successful review.
// repetition is the new consecutive-success count (>= 1).
// From the third success on the interval grows geometrically and never shrinks.
func NextInterval(prevInterval, repetition int, ease float64) int {
	switch repetition {
	case 1:
		return FirstInterval
	case 2:
		return SecondInterval
	}

	prev := max(prevInterval, 1)
	grown := int(math.Round(float64(prev) * ease))
	return max(grown, prev)
}
