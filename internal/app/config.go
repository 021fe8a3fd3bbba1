package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/nedgladstone/cardball/internal/data/db"
	"github.com/nedgladstone/cardball/internal/observability"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogMode  string `env:"LOG_MODE" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver         string        `env:"DB_DRIVER" envDefault:"sqlite"`
	SQLiteDSN        string        `env:"SQLITE_DSN" envDefault:"file:cardball.db?_pragma=foreign_keys(1)"`
	PostgresHost     string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string        `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string        `env:"POSTGRES_USER" envDefault:"cardball"`
	PostgresPassword string        `env:"POSTGRES_PASSWORD"`
	PostgresName     string        `env:"POSTGRES_NAME" envDefault:"cardball"`
	DBSlowQuery      time.Duration `env:"DB_SLOW_QUERY" envDefault:"200ms"`

	// Empty disables the redis bus; events then stay inside this process.
	RedisAddr    string `env:"REDIS_ADDR"`
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"cardball"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsAddr    string `env:"METRICS_ADDR" envDefault:":9090"`

	OtelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OtelServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"cardball"`
	OtelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	OtelSampleRatio float64 `env:"OTEL_SAMPLER_RATIO" envDefault:"1"`
	Environment     string  `env:"APP_ENV" envDefault:"development"`
	Version         string  `env:"APP_VERSION" envDefault:"dev"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// GameMutationAttempts bounds reapplying a mutation after a lost version race.
	GameMutationAttempts int `env:"GAME_MUTATION_ATTEMPTS" envDefault:"3"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", db.DriverSQLite, db.DriverPostgres, cfg.DBDriver)
	}
	if cfg.GameMutationAttempts < 1 {
		return Config{}, fmt.Errorf("GAME_MUTATION_ATTEMPTS must be at least 1, got %d", cfg.GameMutationAttempts)
	}
	return cfg, nil
}

func (c Config) DB() db.Config {
	return db.Config{
		Driver:        c.DBDriver,
		SQLiteDSN:     c.SQLiteDSN,
		PostgresDSN:   db.PostgresDSN(c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresName),
		SlowThreshold: c.DBSlowQuery,
	}
}

func (c Config) Otel() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.OtelEnabled,
		ServiceName: c.OtelServiceName,
		Environment: c.Environment,
		Version:     c.Version,
		Endpoint:    c.OtelEndpoint,
		Insecure:    c.OtelInsecure,
		SampleRatio: c.OtelSampleRatio,
	}
}
