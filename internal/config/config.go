// Package config loads service configuration in three layers: built-in
// defaults, an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/scoring"
)

type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Neo4j         Neo4jConfig         `koanf:"neo4j"`
	Redis         RedisConfig         `koanf:"redis"`
	Postgres      PostgresConfig      `koanf:"postgres"`
	Observability ObservabilityConfig `koanf:"observability"`
	Scoring       scoring.Config      `koanf:"scoring"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	Environment     string        `koanf:"environment"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitRPS    float64       `koanf:"rate_limit_rps"`
	RateLimitBurst  int           `koanf:"rate_limit_burst"`
	// DefaultLimit caps ranked lists when the request gives no limit. 0 means no cap.
	DefaultLimit int `koanf:"default_limit"`
}

type Neo4jConfig struct {
	URI                string `koanf:"uri"`
	User               string `koanf:"user"`
	Password           string `koanf:"password"`
	Database           string `koanf:"database"`
	MaxPoolSize        int    `koanf:"max_pool_size"`
	TimeoutSeconds     int    `koanf:"timeout_seconds"`
	BreakerFailures    uint32 `koanf:"breaker_failures"`
	BreakerOpenSeconds int    `koanf:"breaker_open_seconds"`
}

func (c Neo4jConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Neo4jConfig) BreakerOpenFor() time.Duration {
	return time.Duration(c.BreakerOpenSeconds) * time.Second
}

// RedisConfig enables the ranked-list cache when Addr is set.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// PostgresConfig enables the recommendation audit trail when DSN is set.
type PostgresConfig struct {
	DSN string `koanf:"dsn"`
}

type ObservabilityConfig struct {
	LogMode         string  `koanf:"log_mode"`
	LogLevel        string  `koanf:"log_level"`
	MetricsEnabled  bool    `koanf:"metrics_enabled"`
	OtelEnabled     bool    `koanf:"otel_enabled"`
	OtelEndpoint    string  `koanf:"otel_endpoint"`
	OtelInsecure    bool    `koanf:"otel_insecure"`
	OtelSampleRatio float64 `koanf:"otel_sample_ratio"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Environment:     "development",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"http://localhost:3000"},
			RateLimitRPS:    20,
			RateLimitBurst:  40,
		},
		Neo4j: Neo4jConfig{
			User:               "neo4j",
			MaxPoolSize:        50,
			TimeoutSeconds:     10,
			BreakerFailures:    5,
			BreakerOpenSeconds: 30,
		},
		Redis: RedisConfig{
			CacheTTL: 10 * time.Minute,
		},
		Observability: ObservabilityConfig{
			LogMode:         "development",
			MetricsEnabled:  true,
			OtelSampleRatio: 0.1,
		},
		Scoring: scoring.DefaultConfig(),
	}
}

// Validate checks settings every command needs.
func (c *Config) Validate() error {
	if c.Neo4j.TimeoutSeconds <= 0 || c.Neo4j.MaxPoolSize <= 0 {
		return fmt.Errorf("config: neo4j timeout and pool size must be positive: %w", apperr.ErrInvalidArgument)
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("config: rate limit must not be negative: %w", apperr.ErrInvalidArgument)
	}
	if c.Server.DefaultLimit < 0 {
		return fmt.Errorf("config: default limit must not be negative: %w", apperr.ErrInvalidArgument)
	}
	if c.Observability.OtelSampleRatio < 0 || c.Observability.OtelSampleRatio > 1 {
		return fmt.Errorf("config: otel sample ratio must be in [0,1]: %w", apperr.ErrInvalidArgument)
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// RequireGraph fails when no Neo4j URI is configured.
func (c *Config) RequireGraph() error {
	if strings.TrimSpace(c.Neo4j.URI) == "" {
		return fmt.Errorf("config: NEO4J_URI is required: %w", apperr.ErrInvalidArgument)
	}
	return nil
}
