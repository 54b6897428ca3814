// Package config reads storefront settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type StorageBackend string

const (
	BackendFile     StorageBackend = "file"
	BackendMemory   StorageBackend = "memory"
	BackendRedis    StorageBackend = "redis"
	BackendPostgres StorageBackend = "postgres"
)

type Config struct {
	APIBaseURL string        `env:"API_BASE_URL,default=http://localhost:8080"`
	APITimeout time.Duration `env:"API_TIMEOUT,default=30s"`

	StorageBackend StorageBackend `env:"STORAGE_BACKEND,default=file"`
	StorageDir     string         `env:"STORAGE_DIR,default=.storefront"`
	RedisURL       string         `env:"REDIS_URL"`
	RedisTTL       time.Duration  `env:"REDIS_TTL,default=0s"`
	PostgresURL    string         `env:"POSTGRES_URL"`

	KafkaBrokers string `env:"KAFKA_BROKERS"`
	EventsTopic  string `env:"EVENTS_TOPIC,default=storefront.events"`
	EventsGroup  string `env:"EVENTS_GROUP,default=storefront-review"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
	AppEnv   string `env:"APP_ENV,default=development"`

	OTLPEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT,default=localhost:4317"`
	TracingEnabled bool   `env:"TRACING_ENABLED,default=false"`

	Port string `env:"PORT,default=8080"`
}

// Load reads envFiles (missing files are ignored; already set variables win)
// and decodes the environment into a Config.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendFile:
		if c.StorageDir == "" {
			return errors.New("STORAGE_DIR is required for the file backend")
		}
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis backend")
		}
	case BackendPostgres:
		if c.PostgresURL == "" {
			return errors.New("POSTGRES_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.APITimeout)
	}
	return nil
}

// Brokers splits KAFKA_BROKERS on commas. Empty means events are disabled.
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
