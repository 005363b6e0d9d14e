package study

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type cardRepo interface {
	GetAll(ctx context.Context) ([]*domain.Card, error)
	GetByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)
	GetByID(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)
	Update(ctx context.Context, card *domain.Card) error
}

type insightProvider interface {
	LeechCardIDs(ctx context.Context) ([]uuid.UUID, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Options groups the tuning of every engine component.
type Options struct {
	SRS          domain.SRSConfig
	Queue        QueueOptions
	Forecast     ForecastOptions
	Orchestrator OrchestratorOptions
}

// DefaultOptions returns the standard engine tuning.
func DefaultOptions() Options {
	return Options{
		SRS:          domain.DefaultSRSConfig(),
		Queue:        DefaultQueueOptions(),
		Forecast:     DefaultForecastOptions(),
		Orchestrator: DefaultOrchestratorOptions(),
	}
}

// Service is the scheduling engine: queue selection, ranking, review
// scheduling and forecasting over a card repository.
type Service struct {
	cards    cardRepo
	insights insightProvider
	log      *slog.Logger
	srs      domain.SRSConfig
	tz       *time.Location
	now      func() time.Time

	scheduler    *Scheduler
	queue        *QueueBuilder
	forecaster   *Forecaster
	orchestrator *Orchestrator

	burialMu  sync.Mutex
	burialDay time.Time
}

// NewService creates a new study Service. insights may be nil.
func NewService(
	log *slog.Logger,
	cards cardRepo,
	insights insightProvider,
	opts Options,
) *Service {
	log = log.With("service", "study")

	return &Service{
		cards:        cards,
		insights:     insights,
		log:          log,
		srs:          opts.SRS,
		tz:           ParseTimezone(opts.SRS.Timezone),
		now:          time.Now,
		scheduler:    NewScheduler(log, opts.SRS),
		queue:        NewQueueBuilder(log, NewWorkerPool(runtime.GOMAXPROCS(0)), opts.Queue),
		forecaster:   NewForecaster(log, cards, opts.Forecast),
		orchestrator: NewOrchestrator(log, opts.Orchestrator),
	}
}

// SetClock replaces the time source of the service and all its components.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
	s.scheduler.now = now
	s.queue.now = now
	s.forecaster.now = now
	s.orchestrator.now = now
}

// Weights returns the orchestrator's current blend weights.
func (s *Service) Weights() domain.Weights {
	return s.orchestrator.Weights()
}

// rollBurials empties the burial set once per local day.
func (s *Service) rollBurials(ctx context.Context) {
	day := DayStart(s.now(), s.tz)

	s.burialMu.Lock()
	defer s.burialMu.Unlock()

	if s.burialDay.Equal(day) {
		return
	}
	if !s.burialDay.IsZero() && s.queue.BuriedCount() > 0 {
		s.queue.ResetBuried()
		s.log.InfoContext(ctx, "burials reset for new day", slog.Time("day_start", day))
	}
	s.burialDay = day
}
