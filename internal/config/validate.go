package config

import (
	"fmt"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver must be %q or %q (got %q)", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	if err := c.SRS.validate(); err != nil {
		return fmt.Errorf("srs: %w", err)
	}
	if err := c.Queue.validate(); err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	if err := c.Forecast.validate(); err != nil {
		return fmt.Errorf("forecast: %w", err)
	}
	if err := c.Orchestrator.validate(); err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}

	return nil
}

func (s *SRSConfig) validate() error {
	if s.MinEaseFactor <= 0 {
		return fmt.Errorf("min_ease_factor must be > 0 (got %v)", s.MinEaseFactor)
	}
	if s.MaxIntervalDays <= 0 {
		return fmt.Errorf("max_interval_days must be > 0 (got %d)", s.MaxIntervalDays)
	}
	if s.LeechMinReviews <= 0 {
		return fmt.Errorf("leech_min_reviews must be > 0 (got %d)", s.LeechMinReviews)
	}
	if s.LeechMaxAccuracy <= 0 || s.LeechMaxAccuracy > 1 {
		return fmt.Errorf("leech_max_accuracy must be in (0,1] (got %v)", s.LeechMaxAccuracy)
	}
	if s.LeechSuspension <= 0 {
		return fmt.Errorf("leech_suspension must be > 0 (got %v)", s.LeechSuspension)
	}
	if s.NewCardsPerDay < 0 {
		return fmt.Errorf("new_cards_per_day must be >= 0 (got %d)", s.NewCardsPerDay)
	}
	if s.MaxQueueSize <= 0 {
		return fmt.Errorf("max_queue_size must be > 0 (got %d)", s.MaxQueueSize)
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", s.Timezone, err)
	}
	return nil
}

func (q *QueueConfig) validate() error {
	if q.ParallelThreshold <= 0 {
		return fmt.Errorf("parallel_threshold must be > 0 (got %d)", q.ParallelThreshold)
	}
	if q.MaxWorkers <= 0 {
		return fmt.Errorf("max_workers must be > 0 (got %d)", q.MaxWorkers)
	}
	return nil
}

func (f *ForecastConfig) validate() error {
	if f.TTL <= 0 {
		return fmt.Errorf("ttl must be > 0 (got %v)", f.TTL)
	}
	if f.Horizon <= 0 {
		return fmt.Errorf("horizon must be > 0 (got %v)", f.Horizon)
	}
	if f.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be > 0 (got %d)", f.ChunkSize)
	}
	if f.MaxItems <= 0 {
		return fmt.Errorf("max_items must be > 0 (got %d)", f.MaxItems)
	}
	if f.HighRiskThreshold < 0 || f.HighRiskThreshold > 1 {
		return fmt.Errorf("high_risk_threshold must be in [0,1] (got %v)", f.HighRiskThreshold)
	}
	return nil
}

func (o *OrchestratorConfig) validate() error {
	if o.FeedbackCapacity <= 0 {
		return fmt.Errorf("feedback_capacity must be > 0 (got %d)", o.FeedbackCapacity)
	}
	if o.MinSamples <= 0 || o.MinSamples > o.FeedbackCapacity {
		return fmt.Errorf("min_samples must be in [1,%d] (got %d)", o.FeedbackCapacity, o.MinSamples)
	}
	if o.RetuneCooldown < 0 {
		return fmt.Errorf("retune_cooldown must be >= 0 (got %v)", o.RetuneCooldown)
	}
	if o.Step <= 0 || o.Step >= 1 {
		return fmt.Errorf("step must be in (0,1) (got %v)", o.Step)
	}
	return nil
}
