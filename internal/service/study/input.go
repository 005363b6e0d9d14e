package study

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

const (
	maxQueueLimit     = 1000
	maxResponseTimeMs = 600_000
)

// GetQueueInput holds the parameters for building a study queue.
type GetQueueInput struct {
	DeckID uuid.UUID
	// DailyNewLimit caps fresh cards. nil means the configured default.
	DailyNewLimit *int
	// MaxTotal caps the whole queue. 0 means the configured default.
	MaxTotal int
}

// Validate checks all fields and collects all errors.
func (i *GetQueueInput) Validate() error {
	var errs []domain.FieldError

	if i.DeckID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "deck_id", Message: "required"})
	}
	if i.DailyNewLimit != nil && (*i.DailyNewLimit < 0 || *i.DailyNewLimit > maxQueueLimit) {
		errs = append(errs, domain.FieldError{Field: "daily_new_limit", Message: "must be between 0 and 1000"})
	}
	if i.MaxTotal < 0 || i.MaxTotal > maxQueueLimit {
		errs = append(errs, domain.FieldError{Field: "max_total", Message: "must be between 0 and 1000"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ReviewCardInput holds the parameters for answering a card.
// Quality is range-checked by the scheduler, not here.
type ReviewCardInput struct {
	CardID         uuid.UUID
	Quality        domain.Quality
	ResponseTimeMs int
}

// Validate checks all fields and collects all errors.
func (i *ReviewCardInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if i.ResponseTimeMs < 0 {
		errs = append(errs, domain.FieldError{Field: "response_time_ms", Message: "must be non-negative"})
	}
	if i.ResponseTimeMs > maxResponseTimeMs {
		errs = append(errs, domain.FieldError{Field: "response_time_ms", Message: "max 10 minutes"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
