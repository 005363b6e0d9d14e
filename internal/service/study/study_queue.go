package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

// GetStudyQueue selects today's cards for a deck and orders them for study.
func (s *Service) GetStudyQueue(ctx context.Context, input GetQueueInput) ([]*domain.Card, error) {
	ranked, err := s.GetRankedQueue(ctx, input)
	if err != nil {
		return nil, err
	}
	cards := make([]*domain.Card, len(ranked))
	for i, r := range ranked {
		cards[i] = r.Card
	}
	return cards, nil
}

// GetRankedQueue is GetStudyQueue with the composite breakdown per card.
func (s *Service) GetRankedQueue(ctx context.Context, input GetQueueInput) ([]RankedCard, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	newLimit := s.srs.NewCardsPerDay
	if input.DailyNewLimit != nil {
		newLimit = *input.DailyNewLimit
	}
	maxTotal := input.MaxTotal
	if maxTotal == 0 {
		maxTotal = s.srs.MaxQueueSize
	}

	s.rollBurials(ctx)

	deckCards, err := s.cards.GetByDeck(ctx, input.DeckID)
	if err != nil {
		return nil, fmt.Errorf("get deck cards: %w", err)
	}

	selected, err := s.queue.Build(ctx, deckCards, input.DeckID, newLimit, maxTotal)
	if err != nil {
		return nil, err
	}

	var forecast *domain.ForecastSnapshot
	if snap, err := s.forecaster.Forecast(ctx, false); err != nil {
		s.log.WarnContext(ctx, "forecast unavailable, ranking without risk", slog.String("error", err.Error()))
	} else {
		forecast = &snap
	}

	ranked := s.orchestrator.RankDetailed(selected, forecast, s.leechSet(ctx))

	s.log.InfoContext(ctx, "study queue built",
		slog.String("deck_id", input.DeckID.String()),
		slog.Int("deck_cards", len(deckCards)),
		slog.Int("queued", len(ranked)),
	)

	return ranked, nil
}

// leechSet loads the insight leech snapshot. Failures degrade to no leeches.
func (s *Service) leechSet(ctx context.Context) map[uuid.UUID]struct{} {
	if s.insights == nil {
		return nil
	}
	ids, err := s.insights.LeechCardIDs(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "leech insight unavailable", slog.String("error", err.Error()))
		return nil
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// BuryCard hides a card from study queues until the next local day
// or an explicit ResetBuried.
func (s *Service) BuryCard(ctx context.Context, cardID uuid.UUID) error {
	if cardID == uuid.Nil {
		return domain.NewValidationError("card_id", "required")
	}
	s.rollBurials(ctx)
	s.queue.Bury(cardID)
	s.log.InfoContext(ctx, "card buried", slog.String("card_id", cardID.String()))
	return nil
}

// UnburyCard returns a single buried card to the queue.
func (s *Service) UnburyCard(cardID uuid.UUID) {
	s.queue.Unbury(cardID)
}

// ResetBuried empties the burial set.
func (s *Service) ResetBuried() {
	s.queue.ResetBuried()
}

// GetForecast returns the forgetting forecast, regenerating it when the
// cache has expired or force is set.
func (s *Service) GetForecast(ctx context.Context, force bool) (domain.ForecastSnapshot, error) {
	snap, err := s.forecaster.Forecast(ctx, force)
	if err != nil {
		return domain.ForecastSnapshot{}, fmt.Errorf("forecast: %w", err)
	}
	return snap, nil
}
