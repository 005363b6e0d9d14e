package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// LeechTag marks a card that keeps being failed despite many reviews.
const LeechTag = "leech"

// Default SM-2 memory state of a card that has never been reviewed.
const (
	DefaultEasinessFactor = 2.5
	MinEasinessFactor     = 1.3
	DefaultInterval       = 1
)

// Card is a flashcard together with its SM-2 memory state.
// Cards are owned by the repository; the scheduling engine mutates them in place.
type Card struct {
	ID     uuid.UUID
	DeckID uuid.UUID

	EasinessFactor float64
	Interval       int // days
	Repetition     int // consecutive successful reviews
	LastReview     *time.Time
	NextReview     time.Time
	Quality        Quality // last grade

	TotalReviews        int
	CorrectReviews      int
	AverageResponseTime float64 // milliseconds, running mean

	Tags []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCard returns a never-studied card in the given deck, due immediately.
func NewCard(deckID uuid.UUID, now time.Time) *Card {
	return &Card{
		ID:             uuid.New(),
		DeckID:         deckID,
		EasinessFactor: DefaultEasinessFactor,
		Interval:       DefaultInterval,
		NextReview:     now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsDue returns true if the card's next review is at or before now.
func (c *Card) IsDue(now time.Time) bool {
	return !c.NextReview.After(now)
}

// IsFresh returns true if the card has never been reviewed.
func (c *Card) IsFresh() bool {
	return c.TotalReviews == 0
}

// Accuracy returns CorrectReviews/TotalReviews, or 0 for a fresh card.
func (c *Card) Accuracy() float64 {
	if c.TotalReviews == 0 {
		return 0
	}
	return float64(c.CorrectReviews) / float64(c.TotalReviews)
}

// HasTag reports whether the card carries the given tag.
// Tags compare in their NormalizeTag form.
func (c *Card) HasTag(tag string) bool {
	tag = NormalizeTag(tag)
	return slices.ContainsFunc(c.Tags, func(t string) bool {
		return NormalizeTag(t) == tag
	})
}

// AddTag stores the normalized tag unless it is empty or already present.
// Reports whether it was added.
func (c *Card) AddTag(tag string) bool {
	tag = NormalizeTag(tag)
	if tag == "" || c.HasTag(tag) {
		return false
	}
	c.Tags = append(c.Tags, tag)
	return true
}

// IsLeech reports whether the card is tagged as a leech.
func (c *Card) IsLeech() bool {
	return c.HasTag(LeechTag)
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	cp := *c
	if c.LastReview != nil {
		t := *c.LastReview
		cp.LastReview = &t
	}
	cp.Tags = slices.Clone(c.Tags)
	return &cp
}
