// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/seedrec/internal/seedrec"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config/config.yaml",
	"/etc/seedrec/config.yaml",
}

// ConfigPathEnvVar names the environment variable holding the config path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
			ShutdownTimeout:   15 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
			MaxBodyBytes:      1 << 20,
			MaxUploadBytes:    10 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Traits: TraitsConfig{
			Path:     "data/traits.csv",
			Watch:    true,
			Debounce: 500 * time.Millisecond,
		},
		Yield: YieldConfig{
			ArtifactsDir:       "data/models",
			Timeout:            2 * time.Second,
			CacheSize:          8,
			BreakerMaxFailures: 5,
			BreakerOpenTimeout: 30 * time.Second,
			PredictionRate:     500,
			PredictionBurst:    100,
		},
		Scoring: *seedrec.DefaultConfig(),
	}
}

const textureSynonymsKey = "scoring.texture_synonyms"

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// Load reads configuration from defaults, the first config file found and
// the environment, then validates it.
func Load() (*Config, error) {
	return LoadFile(FindConfigFile())
}

// LoadFile is Load with an explicit YAML path. An empty path skips the
// file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		// A texture table in the file replaces the built-in one as a whole.
		if fk.Exists(textureSynonymsKey) {
			k.Delete(textureSynonymsKey)
		}
		if err := k.Merge(fk); err != nil {
			return nil, fmt.Errorf("failed to merge config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
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

// FindConfigFile returns CONFIG_PATH if it exists, else the first of
// DefaultConfigPaths that exists, else "".
func FindConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are keys whose environment value is a comma separated list.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		var items []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		if err := k.Set(path, items); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variables to config keys.
// Variables not listed are ignored.
var envMappings = map[string]string{
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_read_timeout":   "server.read_timeout",
	"http_write_timeout":  "server.write_timeout",
	"http_idle_timeout":   "server.idle_timeout",
	"shutdown_timeout":    "server.shutdown_timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",
	"max_body_bytes":      "server.max_body_bytes",
	"max_upload_bytes":    "server.max_upload_bytes",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"traits_path":          "traits.path",
	"traits_watch":         "traits.watch",
	"traits_debounce":      "traits.debounce",
	"traits_poll_interval": "traits.poll_interval",

	"yield_artifacts_dir":        "yield.artifacts_dir",
	"yield_timeout":              "yield.timeout",
	"yield_cache_size":           "yield.cache_size",
	"yield_cache_ttl":            "yield.cache_ttl",
	"yield_breaker_max_failures": "yield.breaker_max_failures",
	"yield_breaker_open_timeout": "yield.breaker_open_timeout",
	"yield_prediction_rate":      "yield.prediction_rate",
	"yield_prediction_burst":     "yield.prediction_burst",

	"scoring_weight_ph":          "scoring.weights.ph",
	"scoring_weight_texture":     "scoring.weights.texture",
	"scoring_weight_maturity":    "scoring.weights.maturity",
	"scoring_weight_zone":        "scoring.weights.zone",
	"scoring_ph_falloff":         "scoring.tolerances.ph_falloff",
	"scoring_maturity_window":    "scoring.tolerances.maturity_window",
	"scoring_zone_penalty":       "scoring.tolerances.zone_penalty",
	"scoring_yield_weight":       "scoring.hybrid_weights.yield_weight",
	"scoring_suitability_weight": "scoring.hybrid_weights.suitability_weight",
	"scoring_default_k":          "scoring.limits.default_k",
	"scoring_max_k":              "scoring.limits.max_k",
	"scoring_max_predictions":    "scoring.limits.max_concurrent_predictions",
	"scoring_prediction_timeout": "scoring.limits.prediction_timeout",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls onChange with the freshly loaded configuration each
// time path changes, or onError when the new file does not load or
// validate. The returned function stops watching.
func WatchConfigFile(path string, onChange func(*Config), onError func(error)) (func() error, error) {
	provider := file.Provider(path)
	err := provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			onError(fmt.Errorf("watch %s: %w", path, err))
			return
		}
		cfg, err := LoadFile(path)
		if err != nil {
			onError(err)
			return
		}
		onChange(cfg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return provider.Unwatch, nil
}
