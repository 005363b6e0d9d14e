package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashcard-scheduler/internal/adapter/postgres"
	"github.com/heartmarshall/flashcard-scheduler/internal/adapter/postgres/card"
	"github.com/heartmarshall/flashcard-scheduler/internal/adapter/sqlite"
	"github.com/heartmarshall/flashcard-scheduler/internal/config"
	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
	"github.com/heartmarshall/flashcard-scheduler/internal/service/study"
)

// CardStore is the full card repository contract both adapters implement.
type CardStore interface {
	GetAll(ctx context.Context) ([]*domain.Card, error)
	GetByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)
	GetByID(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)
	Update(ctx context.Context, card *domain.Card) error
	Create(ctx context.Context, card *domain.Card) error
	CreateBatch(ctx context.Context, cards []*domain.Card) error
	Delete(ctx context.Context, cardID uuid.UUID) error
	LeechCardIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Compile-time interface assertions.
var (
	_ CardStore = (*card.Repo)(nil)
	_ CardStore = (*sqlite.CardRepo)(nil)
)

// Engine is one scheduling engine instance wired to its card store.
type Engine struct {
	Study *study.Service
	Cards CardStore
	Log   *slog.Logger

	closers []func()
}

// Open connects the configured card store, applies migrations and builds
// the study service. Callers must Close the engine.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Engine, error) {
	e := &Engine{Log: log}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		e.closers = append(e.closers, pool.Close)

		if err := postgres.Migrate(ctx, pool, log); err != nil {
			e.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		e.Cards = card.New(pool)

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		e.closers = append(e.closers, func() { _ = db.Close() })

		if err := sqlite.Migrate(ctx, db, log); err != nil {
			e.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		e.Cards = sqlite.NewCardRepo(db)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	e.Study = study.NewService(log, e.Cards, e.Cards, StudyOptions(cfg))

	log.InfoContext(ctx, "engine ready",
		slog.String("version", BuildVersion()),
		slog.String("driver", cfg.Database.Driver),
		slog.String("timezone", cfg.SRS.Timezone),
	)

	return e, nil
}

// Close releases the card store connections in reverse order of opening.
func (e *Engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// StudyOptions maps the loaded configuration onto engine tuning.
func StudyOptions(cfg *config.Config) study.Options {
	return study.Options{
		SRS: domain.SRSConfig{
			MinEaseFactor:    cfg.SRS.MinEaseFactor,
			MaxIntervalDays:  cfg.SRS.MaxIntervalDays,
			LeechMinReviews:  cfg.SRS.LeechMinReviews,
			LeechMaxAccuracy: cfg.SRS.LeechMaxAccuracy,
			LeechSuspension:  cfg.SRS.LeechSuspension,
			NewCardsPerDay:   cfg.SRS.NewCardsPerDay,
			MaxQueueSize:     cfg.SRS.MaxQueueSize,
			Timezone:         cfg.SRS.Timezone,
		},
		Queue: study.QueueOptions{
			ParallelThreshold: cfg.Queue.ParallelThreshold,
			MaxWorkers:        cfg.Queue.MaxWorkers,
		},
		Forecast: study.ForecastOptions{
			TTL:               cfg.Forecast.TTL,
			Horizon:           cfg.Forecast.Horizon,
			ChunkSize:         cfg.Forecast.ChunkSize,
			MaxItems:          cfg.Forecast.MaxItems,
			HighRiskThreshold: cfg.Forecast.HighRiskThreshold,
		},
		Orchestrator: study.OrchestratorOptions{
			FeedbackCapacity: cfg.Orchestrator.FeedbackCapacity,
			MinSamples:       cfg.Orchestrator.MinSamples,
			RetuneCooldown:   cfg.Orchestrator.RetuneCooldown,
			StruggleQuality:  cfg.Orchestrator.StruggleQuality,
			Step:             cfg.Orchestrator.Step,
		},
	}
}
