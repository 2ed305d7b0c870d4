package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rsplitstone/compcase-backend/internal/data/db"
	"github.com/Rsplitstone/compcase-backend/internal/platform/config"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	LogMode string `env:"LOG_MODE" envDefault:"development"`

	DBDriver         string `env:"DB_DRIVER" envDefault:"postgres"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresName     string `env:"POSTGRES_NAME" envDefault:"compcase"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	SQLitePath       string `env:"SQLITE_PATH" envDefault:"compcase.db"`

	SummarizerMode           string `env:"SUMMARIZER_MODE" envDefault:"http"`
	SummarizerBaseURL        string `env:"SUMMARIZER_BASE_URL" envDefault:"http://localhost:8001"`
	SummarizerAPIKey         string `env:"SUMMARIZER_API_KEY"`
	SummarizerTimeoutSeconds int    `env:"SUMMARIZER_TIMEOUT_SECONDS" envDefault:"30"`
	SummaryBatchConcurrency  int    `env:"SUMMARY_BATCH_CONCURRENCY" envDefault:"4"`

	BenefitScheduleFile string `env:"BENEFIT_SCHEDULE_FILE"`

	SweepEnabled         bool `env:"SWEEP_ENABLED" envDefault:"false"`
	SweepIntervalSeconds int  `env:"SWEEP_INTERVAL_SECONDS" envDefault:"3600"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisChannel  string `env:"REDIS_CHANNEL" envDefault:"compcase.events"`

	OtelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OtelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	OtelServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"compcase-backend"`
	OtelSampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
	Environment     string  `env:"APP_ENV" envDefault:"development"`

	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.normalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	c.SummarizerMode = strings.ToLower(strings.TrimSpace(c.SummarizerMode))
	switch c.SummarizerMode {
	case "http", "mock":
	default:
		return fmt.Errorf("SUMMARIZER_MODE must be http or mock, got %q", c.SummarizerMode)
	}
	if c.SummarizerTimeoutSeconds <= 0 {
		c.SummarizerTimeoutSeconds = 30
	}
	if c.SummaryBatchConcurrency <= 0 {
		c.SummaryBatchConcurrency = 1
	}
	if c.SweepIntervalSeconds <= 0 {
		c.SweepIntervalSeconds = 3600
	}
	return nil
}

func (c Config) SummarizerTimeout() time.Duration {
	return time.Duration(c.SummarizerTimeoutSeconds) * time.Second
}

func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

func (c Config) Postgres() db.PostgresConfig {
	return db.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		Name:     c.PostgresName,
		SSLMode:  c.PostgresSSLMode,
	}
}
