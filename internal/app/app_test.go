package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/flashcard-scheduler/internal/config"
	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
	"github.com/heartmarshall/flashcard-scheduler/internal/service/study"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			DSN:    filepath.Join(t.TempDir(), "cards.db"),
		},
		Log: config.LogConfig{Level: "error", Format: "json"},
		SRS: config.SRSConfig{
			MinEaseFactor:    1.3,
			MaxIntervalDays:  36500,
			LeechMinReviews:  8,
			LeechMaxAccuracy: 0.5,
			LeechSuspension:  7 * 24 * time.Hour,
			NewCardsPerDay:   4,
			MaxQueueSize:     10,
			Timezone:         "UTC",
		},
		Queue:    config.QueueConfig{ParallelThreshold: 5000, MaxWorkers: 8},
		Forecast: config.ForecastConfig{TTL: time.Minute, Horizon: 48 * time.Hour, ChunkSize: 100, MaxItems: 50, HighRiskThreshold: 0.6},
		Orchestrator: config.OrchestratorConfig{
			FeedbackCapacity: 100, MinSamples: 10, RetuneCooldown: time.Minute, StruggleQuality: 0.6, Step: 0.05,
		},
	}
}

func TestStudyOptions_MapsEverySection(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	opts := StudyOptions(cfg)

	assert.Equal(t, domain.SRSConfig{
		MinEaseFactor:    1.3,
		MaxIntervalDays:  36500,
		LeechMinReviews:  8,
		LeechMaxAccuracy: 0.5,
		LeechSuspension:  7 * 24 * time.Hour,
		NewCardsPerDay:   4,
		MaxQueueSize:     10,
		Timezone:         "UTC",
	}, opts.SRS)
	assert.Equal(t, study.QueueOptions{ParallelThreshold: 5000, MaxWorkers: 8}, opts.Queue)
	assert.Equal(t, 50, opts.Forecast.MaxItems)
	assert.Equal(t, 48*time.Hour, opts.Forecast.Horizon)
	assert.Equal(t, 10, opts.Orchestrator.MinSamples)
	assert.Equal(t, 0.05, opts.Orchestrator.Step)
}

func TestOpen_UnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	_, err := Open(context.Background(), cfg, discardLogger())
	assert.Error(t, err)
}

// TestOpen_SQLiteEndToEnd runs seed, queue and review against a real
// SQLite file through the composed engine.
func TestOpen_SQLiteEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	engine, err := Open(ctx, testConfig(t), discardLogger())
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	deckID := uuid.New()
	_, err = SeedDeck(ctx, discardLogger(), engine.Cards,
		SeedConfig{DeckID: deckID, Fresh: 10, Seed: 1}, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	queue, err := engine.Study.GetStudyQueue(ctx, study.GetQueueInput{DeckID: deckID})
	require.NoError(t, err)
	// Fresh cards due now count as due, so MaxQueueSize applies.
	assert.Len(t, queue, 10)

	first := queue[0]
	res, err := engine.Study.ReviewCard(ctx, study.ReviewCardInput{
		CardID:         first.ID,
		Quality:        domain.QualityPerfect,
		ResponseTimeMs: 1200,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Interval)

	stored, err := engine.Cards.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalReviews)
	assert.Equal(t, 1, stored.Repetition)
	assert.InDelta(t, 1200, stored.AverageResponseTime, 1e-9)
	assert.True(t, stored.NextReview.After(time.Now()))

	snap, err := engine.Study.GetForecast(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Skipped)
}
