package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-simpler.org/env"
)

const (
	BackendHugot = "hugot"
	BackendVader = "vader"

	// VaderModelName is reported by /model/info and namespaces cache keys for the lexicon backend.
	VaderModelName = "vader"
)

type Config struct {
	Port     string `env:"PORT" default:"8000"`
	LogLevel string `env:"LOG_LEVEL" default:"info"`

	ModelBackend string `env:"MODEL_BACKEND" default:"hugot"`
	ModelName    string `env:"MODEL_NAME" default:"distilbert-base-uncased-finetuned-sst-2-english"`
	ModelRepo    string `env:"MODEL_REPO" default:"KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"`
	ModelDir     string `env:"MODEL_DIR" default:"./models"`

	ValkeyAddress  string        `env:"VALKEY_INIT_ADDRESS"`
	ValkeyPassword string        `env:"VALKEY_PASSWORD"`
	ValkeyTLS      bool          `env:"VALKEY_TLS" default:"false"`
	CacheTTL       time.Duration `env:"CACHE_TTL" default:"24h"`

	KafkaBroker       string        `env:"KAFKA_BROKER"`
	KafkaResultsTopic string        `env:"KAFKA_RESULTS_TOPIC" default:"sentiment-results"`
	KafkaInitTimeout  time.Duration `env:"KAFKA_INIT_TIMEOUT" default:"10s"`

	// Space separated. "*" allows every origin.
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" default:"*"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads the configuration from the environment. Call LoadEnv first to
// pick up an env file.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", cfg.Port)
	}

	switch cfg.ModelBackend {
	case BackendHugot, BackendVader:
	default:
		return fmt.Errorf("MODEL_BACKEND must be %q or %q, got %q", BackendHugot, BackendVader, cfg.ModelBackend)
	}

	if cfg.ModelName == "" {
		return errors.New("MODEL_NAME is required")
	}
	if cfg.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}
	if cfg.KafkaInitTimeout <= 0 {
		return errors.New("KAFKA_INIT_TIMEOUT must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// ModelID is the model name served by the configured backend. MODEL_NAME only
// describes the transformer model.
func (c *Config) ModelID() string {
	if c.ModelBackend == BackendVader {
		return VaderModelName
	}
	return c.ModelName
}

// CacheNamespace keeps predictions of different backends and model repos apart
// when they share a Valkey instance.
func (c *Config) CacheNamespace() string {
	if c.ModelBackend == BackendVader {
		return VaderModelName
	}
	return c.ModelBackend + ":" + c.ModelRepo
}

func (c *Config) CacheEnabled() bool {
	return c.ValkeyAddress != ""
}

func (c *Config) EventsEnabled() bool {
	return c.KafkaBroker != ""
}
