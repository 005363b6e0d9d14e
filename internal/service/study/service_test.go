package study

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

// deckRepo returns a cardRepoMock serving cards for one deck.
func deckRepo(cards ...*domain.Card) *cardRepoMock {
	byID := make(map[uuid.UUID]*domain.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	return &cardRepoMock{
		GetAllFunc: func(ctx context.Context) ([]*domain.Card, error) {
			return cards, nil
		},
		GetByDeckFunc: func(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
			var out []*domain.Card
			for _, c := range cards {
				if c.DeckID == deckID {
					out = append(out, c)
				}
			}
			return out, nil
		},
		GetByIDFunc: func(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
			c, ok := byID[cardID]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return c, nil
		},
		UpdateFunc: func(ctx context.Context, card *domain.Card) error {
			return nil
		},
	}
}

func newTestService(repo cardRepo, insights insightProvider, clock *testClock) *Service {
	svc := NewService(slog.Default(), repo, insights, DefaultOptions())
	svc.SetClock(clock.Now)
	return svc
}

// ---------------------------------------------------------------------------
// GetStudyQueue
// ---------------------------------------------------------------------------

func TestService_GetStudyQueue_DueCappedByMaxTotal(t *testing.T) {
	t.Parallel()

	deck := uuid.New()
	var cards []*domain.Card
	for i := range 5 {
		cards = append(cards, dueCard(deck, time.Duration(i+1)*time.Hour))
	}
	repo := deckRepo(cards...)
	svc := newTestService(repo, nil, newTestClock(testNow))

	got, err := svc.GetStudyQueue(context.Background(), GetQueueInput{DeckID: deck, MaxTotal: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for _, c := range got {
		if !c.IsDue(testNow) {
			t.Errorf("card %s is not due", c.ID)
		}
	}
	if calls := repo.GetByDeckCalls(); len(calls) != 1 || calls[0].DeckID != deck {
		t.Errorf("GetByDeck calls = %+v", calls)
	}
}

func TestService_GetStudyQueue_DailyNewLimit(t *testing.T) {
	t.Parallel()

	deck := uuid.New()
	var cards []*domain.Card
	for range 5 {
		cards = append(cards, freshCard(deck))
	}
	svc := newTestService(deckRepo(cards...), nil, newTestClock(testNow))

	got, err := svc.GetStudyQueue(context.Background(), GetQueueInput{DeckID: deck, DailyNewLimit: ptr(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestService_GetStudyQueue_NewLimitForCardsCreatedEarlier(t *testing.T) {
	t.Parallel()

	deck := uuid.New()
	var cards []*domain.Card
	for range 5 {
		cards = append(cards, domain.NewCard(deck, testNow.Add(-time.Minute)))
	}
	svc := newTestService(deckRepo(cards...), nil, newTestClock(testNow))

	got, err := svc.GetStudyQueue(context.Background(), GetQueueInput{DeckID: deck, DailyNewLimit: ptr(2), MaxTotal: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want the daily new limit 2", len(got))
	}
	for _, c := range got {
		if !c.IsFresh() {
			t.Errorf("card %s is not fresh", c.ID)
		}
	}
}

func TestService_GetStudyQueue_ConfiguredDefaults(t *testing.T) {
	t.Parallel()

	deck := uuid.New()
	var cards []*domain.Card
	for range 30 {
		cards = append(cards, freshCard(deck))
	}
	for range 150 {
		cards = append(cards, dueCard(deck, time.Hour))
	}
	svc := newTestService(deckRepo(cards...), nil, newTestClock(testNow))

	got, err := svc.GetStudyQueue(context.Background(), GetQueueInput{DeckID: deck})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 100 {
		t.Errorf("len = %d, want the default max queue size 100", len(got))
	}

	svc2 := newTestService(deckRepo(cards[:30]...), nil, newTestClock(testNow))
	got, err = svc2.GetStudyQueue(context.Background(), GetQueueInput{DeckID: deck})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 20 {
		t.Errorf("len = %d, want the default new cards per day 20", len(got))
	}
}

func TestService_GetStudyQueue_ValidationError(t *testing.T) {
	t.Parallel()

	repo := &cardRepoMock{}
	svc := newTestService(repo, nil, newTestClock(testNow))

	_, err := svc.GetStudyQueue(context.Background(), GetQueueInput{MaxTotal: -1})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(repo.GetByDeckCalls()) != 0 {
		t.Error("repository must not be called on invalid input")
	}
}

func TestService_GetStudyQueue_RepoError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("db down")
	repo := &cardRepoMock{
		GetByDeckFunc: func(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
			return nil, repoErr
		},
	}
	svc := newTestService(repo, nil, newTestClock(testNow))

	_, err := svc.GetStudyQueue(context.Background(), GetQueueInput{DeckID: uuid.New()})
	if !errors.Is(err, repoErr) {
		t.Fatalf("err = %v, want wrapped repo error", err)
	}
}

func TestService_GetStudyQueue_LeechesRankedLast(t *testing.T) {
	t.Parallel()

	deck := uuid.New()
	leech, plain := twinCard(), twinCard()
	leech.DeckID, plain.DeckID = deck, deck

	insights := &insightProviderMock{
		LeechCardIDsFunc: func(ctx context.Context) ([]uuid.UUID, error) {
			return []uuid.UUID{leech.ID}, nil
		},
	}
	svc := newTestService(deckRepo(leech, plain), insights, newTestClock(testNow))

	got, err := svc.GetStudyQueue(context.Background(), GetQueueInput{DeckID: deck})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != plain || got[1] != leech {
		t.Errorf("order = %v, want plain then leech", cardIDs(got))
	}
	if len(insights.LeechCardIDsCalls()) != 1 {
		t.Errorf("LeechCardIDs calls = %d, want 1", len(insights.LeechCardIDsCalls()))
	}
}

func TestService_GetStudyQueue_DegradesWithoutForecastOrInsights(t *testing.T) {
	t.Parallel()

	deck := uuid.New()
	card := dueCard(deck, time.Hour)

	repo := deckRepo(card)
	repo.GetAllFunc = func(ctx context.Context) ([]*domain.Card, error) {
		return nil, errors.New("forecast source down")
	}
	insights := &insightProviderMock{
		LeechCardIDsFunc: func(ctx context.Context) ([]uuid.UUID, error) {
			return nil, errors.New("insights down")
		},
	}
	svc := newTestService(repo, insights, newTestClock(testNow))

	got, err := svc.GetStudyQueue(context.Background(), GetQueueInput{DeckID: deck})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != card {
		t.Errorf("got %v, want the due card", cardIDs(got))
	}
}

func TestService_GetRankedQueue_UsesForecastRisk(t *testing.T) {
	t.Parallel()

	deck := uuid.New()
	safe, risky := twinCard(), twinCard()
	safe.DeckID, risky.DeckID = deck, deck
	last := testNow.Add(-10 * 24 * time.Hour)
	risky.LastReview = &last
	justNow := testNow
	safe.LastReview = &justNow

	svc := newTestService(deckRepo(safe, risky), nil, newTestClock(testNow))

	ranked, err := svc.GetRankedQueue(context.Background(), GetQueueInput{DeckID: deck})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 2 || ranked[0].Card != risky {
		t.Fatalf("risky card should rank first: %+v", ranked)
	}
	if ranked[0].Risk <= ranked[1].Risk {
		t.Errorf("risk %v should exceed %v", ranked[0].Risk, ranked[1].Risk)
	}
}

// ---------------------------------------------------------------------------
// ReviewCard
// ---------------------------------------------------------------------------

func TestService_ReviewCard_Success(t *testing.T) {
	t.Parallel()

	deck := uuid.New()
	card := domain.NewCard(deck, testNow.Add(-time.Hour))
	repo := deckRepo(card)
	svc := newTestService(repo, nil, newTestClock(testNow))

	// Rank first so the answer carries a prediction.
	if _, err := svc.GetStudyQueue(context.Background(), GetQueueInput{DeckID: deck}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := svc.ReviewCard(context.Background(), ReviewCardInput{
		CardID:         card.ID,
		Quality:        domain.QualityPerfect,
		ResponseTimeMs: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Card != card || card.TotalReviews != 1 || card.CorrectReviews != 1 {
		t.Errorf("card not scheduled: %+v", card)
	}
	if !res.NextReview.After(testNow) {
		t.Errorf("next review %v not after now", res.NextReview)
	}
	updates := repo.UpdateCalls()
	if len(updates) != 1 || updates[0].Card != card {
		t.Fatalf("Update calls = %+v", updates)
	}
	if svc.orchestrator.SampleCount() != 1 {
		t.Errorf("feedback samples = %d, want 1", svc.orchestrator.SampleCount())
	}
}

func TestService_ReviewCard_QualityOutOfRange(t *testing.T) {
	t.Parallel()

	card := domain.NewCard(uuid.New(), testNow)
	repo := deckRepo(card)
	svc := newTestService(repo, nil, newTestClock(testNow))

	_, err := svc.ReviewCard(context.Background(), ReviewCardInput{CardID: card.ID, Quality: 7})
	if !errors.Is(err, domain.ErrQualityOutOfRange) {
		t.Fatalf("err = %v, want ErrQualityOutOfRange", err)
	}
	if len(repo.UpdateCalls()) != 0 {
		t.Error("card must not be persisted")
	}
	if card.TotalReviews != 0 {
		t.Error("card must not be mutated")
	}
	if svc.orchestrator.SampleCount() != 0 {
		t.Error("rejected answer must not be recorded as feedback")
	}
}

func TestService_ReviewCard_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(deckRepo(), nil, newTestClock(testNow))

	_, err := svc.ReviewCard(context.Background(), ReviewCardInput{CardID: uuid.New(), Quality: domain.QualityGood})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestService_ReviewCard_UpdateError(t *testing.T) {
	t.Parallel()

	card := domain.NewCard(uuid.New(), testNow)
	repo := deckRepo(card)
	updateErr := errors.New("write failed")
	repo.UpdateFunc = func(ctx context.Context, c *domain.Card) error {
		return updateErr
	}
	svc := newTestService(repo, nil, newTestClock(testNow))

	_, err := svc.ReviewCard(context.Background(), ReviewCardInput{CardID: card.ID, Quality: domain.QualityGood})
	if !errors.Is(err, updateErr) {
		t.Fatalf("err = %v, want wrapped update error", err)
	}
	if svc.orchestrator.SampleCount() != 0 {
		t.Error("unpersisted answer must not be recorded as feedback")
	}
}

func TestService_ReviewCard_ValidationError(t *testing.T) {
	t.Parallel()

	repo := &cardRepoMock{}
	svc := newTestService(repo, nil, newTestClock(testNow))

	_, err := svc.ReviewCard(context.Background(), ReviewCardInput{Quality: domain.QualityGood})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(repo.GetByIDCalls()) != 0 {
		t.Error("repository must not be called on invalid input")
	}
}

// ---------------------------------------------------------------------------
// Burial
// ---------------------------------------------------------------------------

func TestService_BuryCard_ExcludedUntilNextDay(t *testing.T) {
	t.Parallel()

	deck := uuid.New()
	buried, other := dueCard(deck, time.Hour), dueCard(deck, 2*time.Hour)
	clock := newTestClock(time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC))
	svc := newTestService(deckRepo(buried, other), nil, clock)
	ctx := context.Background()

	if err := svc.BuryCard(ctx, buried.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetStudyQueue(ctx, GetQueueInput{DeckID: deck})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != other {
		t.Fatalf("got %v, want only the unburied card", cardIDs(got))
	}

	clock.Advance(5 * time.Hour) // past UTC midnight
	got, err = svc.GetStudyQueue(ctx, GetQueueInput{DeckID: deck})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d cards, want burial cleared on the new day", len(got))
	}
}

func TestService_BuryCard_ResetAndUnbury(t *testing.T) {
	t.Parallel()

	deck := uuid.New()
	card := dueCard(deck, time.Hour)
	svc := newTestService(deckRepo(card), nil, newTestClock(testNow))
	ctx := context.Background()

	if err := svc.BuryCard(ctx, uuid.Nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}

	_ = svc.BuryCard(ctx, card.ID)
	svc.UnburyCard(card.ID)
	if svc.queue.IsBuried(card.ID) {
		t.Error("card should be unburied")
	}

	_ = svc.BuryCard(ctx, card.ID)
	svc.ResetBuried()
	if svc.queue.IsBuried(card.ID) {
		t.Error("reset should clear the burial set")
	}
}

func TestService_BurialsResetAt(t *testing.T) {
	t.Parallel()

	svc := newTestService(deckRepo(), nil, newTestClock(testNow))
	want := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	if got := svc.BurialsResetAt(); !got.Equal(want) {
		t.Errorf("BurialsResetAt() = %v, want %v", got, want)
	}
}

// ---------------------------------------------------------------------------
// GetForecast
// ---------------------------------------------------------------------------

func TestService_GetForecast(t *testing.T) {
	t.Parallel()

	card := reviewedCard(2, time.Hour, 1, 4, 1)
	repo := deckRepo(card)
	svc := newTestService(repo, nil, newTestClock(testNow))

	snap, err := svc.GetForecast(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0].CardID != card.ID {
		t.Errorf("items = %+v", snap.Items)
	}

	if _, err := svc.GetForecast(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.GetAllCalls()) != 1 {
		t.Errorf("GetAll calls = %d, want 1 (cached)", len(repo.GetAllCalls()))
	}
}

func TestService_GetForecast_Error(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("db down")
	repo := &cardRepoMock{
		GetAllFunc: func(ctx context.Context) ([]*domain.Card, error) {
			return nil, repoErr
		},
	}
	svc := newTestService(repo, nil, newTestClock(testNow))

	if _, err := svc.GetForecast(context.Background(), true); !errors.Is(err, repoErr) {
		t.Fatalf("err = %v, want wrapped repo error", err)
	}
}
