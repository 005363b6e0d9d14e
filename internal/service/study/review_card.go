package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

// ReviewCard applies an answer to a card, persists it and feeds the
// outcome back to the orchestrator.
func (s *Service) ReviewCard(ctx context.Context, input ReviewCardInput) (domain.ScheduleResult, error) {
	if err := input.Validate(); err != nil {
		return domain.ScheduleResult{}, err
	}

	card, err := s.cards.GetByID(ctx, input.CardID)
	if err != nil {
		return domain.ScheduleResult{}, fmt.Errorf("get card: %w", err)
	}

	responseTime := time.Duration(input.ResponseTimeMs) * time.Millisecond

	result, err := s.scheduler.Schedule(card, input.Quality, responseTime)
	if err != nil {
		return domain.ScheduleResult{}, err
	}

	if err := s.cards.Update(ctx, card); err != nil {
		return domain.ScheduleResult{}, fmt.Errorf("update card: %w", err)
	}

	predicted, _ := s.orchestrator.Predicted(card.ID)
	s.orchestrator.RecordFeedback(predicted, input.Quality, responseTime)

	s.log.InfoContext(ctx, "card reviewed",
		slog.String("card_id", card.ID.String()),
		slog.Int("quality", int(input.Quality)),
		slog.Int("interval", result.Interval),
		slog.Float64("ease", result.EasinessFactor),
		slog.Bool("leech", result.Leech),
	)

	return result, nil
}
