package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database     DatabaseConfig     `yaml:"database"`
	Log          LogConfig          `yaml:"log"`
	SRS          SRSConfig          `yaml:"srs"`
	Queue        QueueConfig        `yaml:"queue"`
	Forecast     ForecastConfig     `yaml:"forecast"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
}

// Supported card storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds card storage settings.
// Pool settings only apply to the postgres driver.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"             env:"DATABASE_DRIVER"             env-default:"sqlite"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-default:"flashcards.db"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SRSConfig holds SM-2 and leech policy parameters.
type SRSConfig struct {
	MinEaseFactor    float64       `yaml:"min_ease_factor"    env:"SRS_MIN_EASE"           env-default:"1.3"`
	MaxIntervalDays  int           `yaml:"max_interval_days"  env:"SRS_MAX_INTERVAL"       env-default:"36500"`
	LeechMinReviews  int           `yaml:"leech_min_reviews"  env:"SRS_LEECH_MIN_REVIEWS"  env-default:"8"`
	LeechMaxAccuracy float64       `yaml:"leech_max_accuracy" env:"SRS_LEECH_MAX_ACCURACY" env-default:"0.5"`
	LeechSuspension  time.Duration `yaml:"leech_suspension"   env:"SRS_LEECH_SUSPENSION"   env-default:"168h"`
	NewCardsPerDay   int           `yaml:"new_cards_per_day"  env:"SRS_NEW_CARDS_DAY"      env-default:"20"`
	MaxQueueSize     int           `yaml:"max_queue_size"     env:"SRS_MAX_QUEUE_SIZE"     env-default:"100"`
	Timezone         string        `yaml:"timezone"           env:"SRS_TIMEZONE"           env-default:"UTC"`
}

// QueueConfig holds study queue builder settings.
type QueueConfig struct {
	ParallelThreshold int `yaml:"parallel_threshold" env:"QUEUE_PARALLEL_THRESHOLD" env-default:"5000"`
	MaxWorkers        int `yaml:"max_workers"        env:"QUEUE_MAX_WORKERS"        env-default:"8"`
}

// ForecastConfig holds forgetting-risk forecast settings.
type ForecastConfig struct {
	TTL               time.Duration `yaml:"ttl"                 env:"FORECAST_TTL"                 env-default:"60s"`
	Horizon           time.Duration `yaml:"horizon"             env:"FORECAST_HORIZON"             env-default:"48h"`
	ChunkSize         int           `yaml:"chunk_size"          env:"FORECAST_CHUNK_SIZE"          env-default:"250"`
	MaxItems          int           `yaml:"max_items"           env:"FORECAST_MAX_ITEMS"           env-default:"200"`
	HighRiskThreshold float64       `yaml:"high_risk_threshold" env:"FORECAST_HIGH_RISK_THRESHOLD" env-default:"0.6"`
}

// OrchestratorConfig holds adaptive ranking and self-tuning settings.
type OrchestratorConfig struct {
	FeedbackCapacity int           `yaml:"feedback_capacity" env:"ORCHESTRATOR_FEEDBACK_CAPACITY" env-default:"500"`
	MinSamples       int           `yaml:"min_samples"       env:"ORCHESTRATOR_MIN_SAMPLES"       env-default:"30"`
	RetuneCooldown   time.Duration `yaml:"retune_cooldown"   env:"ORCHESTRATOR_RETUNE_COOLDOWN"   env-default:"60s"`
	StruggleQuality  float64       `yaml:"struggle_quality"  env:"ORCHESTRATOR_STRUGGLE_QUALITY"  env-default:"0.6"`
	Step             float64       `yaml:"step"              env:"ORCHESTRATOR_STEP"              env-default:"0.05"`
}

// Location returns the configured study timezone, UTC if it cannot be loaded.
func (s SRSConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
