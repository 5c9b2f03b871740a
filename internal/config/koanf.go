package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{"config.yaml", "/etc/tutormatch/config.yaml"}

// Load reads defaults, then the YAML file at path (or the first default path
// that exists when path is empty), then environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitCommaSeparated(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// splitCommaSeparated turns a string value from the environment into a slice.
func splitCommaSeparated(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

var envMappings = map[string]string{
	"http_addr":        "server.addr",
	"app_env":          "server.environment",
	"cors_origins":     "server.cors_origins",
	"rate_limit_rps":   "server.rate_limit_rps",
	"rate_limit_burst": "server.rate_limit_burst",
	"default_limit":    "server.default_limit",

	"neo4j_uri":                  "neo4j.uri",
	"neo4j_user":                 "neo4j.user",
	"neo4j_password":             "neo4j.password",
	"neo4j_database":             "neo4j.database",
	"neo4j_max_pool_size":        "neo4j.max_pool_size",
	"neo4j_timeout_seconds":      "neo4j.timeout_seconds",
	"neo4j_breaker_failures":     "neo4j.breaker_failures",
	"neo4j_breaker_open_seconds": "neo4j.breaker_open_seconds",

	"redis_addr":      "redis.addr",
	"redis_password":  "redis.password",
	"redis_db":        "redis.db",
	"redis_cache_ttl": "redis.cache_ttl",

	"postgres_dsn": "postgres.dsn",

	"log_mode":                    "observability.log_mode",
	"log_level":                   "observability.log_level",
	"metrics_enabled":             "observability.metrics_enabled",
	"otel_enabled":                "observability.otel_enabled",
	"otel_exporter_otlp_endpoint": "observability.otel_endpoint",
	"otel_exporter_otlp_insecure": "observability.otel_insecure",
	"otel_sampler_ratio":          "observability.otel_sample_ratio",
}

// envTransformFunc maps flat env names to config paths. SCORING_WEIGHTS_STYLE
// becomes scoring.weights.style and SCORING_GPA_TOLERANCE scoring.gpa_tolerance.
// Unknown variables are dropped.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	if rest, ok := strings.CutPrefix(key, "scoring_"); ok && rest != "" {
		if w, ok := strings.CutPrefix(rest, "weights_"); ok {
			return "scoring.weights." + w
		}
		return "scoring." + rest
	}
	return ""
}
