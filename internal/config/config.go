// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/seedrec/internal/seedrec"
	"github.com/tomtom215/seedrec/internal/yield"
)

// Config holds all seedrec configuration.
//
// Loading order (koanf v2):
//  1. Built-in defaults
//  2. Optional YAML file (CONFIG_PATH or one of DefaultConfigPaths)
//  3. Environment variables listed in envMappings
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Invalid configuration")
//	}
//	engine, err := seedrec.NewEngine(&cfg.Scoring, repo, gateway, logger)
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Logging LoggingConfig  `koanf:"logging"`
	Traits  TraitsConfig   `koanf:"traits"`
	Yield   YieldConfig    `koanf:"yield"`
	Scoring seedrec.Config `koanf:"scoring"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"gt=0"`

	// MaxUploadBytes caps traits CSV uploads.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0"`
}

// Addr returns host:port for net/http.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// TraitsConfig locates the traits CSV and controls hot reload.
type TraitsConfig struct {
	Path string `koanf:"path" validate:"required"`

	// Watch reloads the table when the file changes on disk.
	Watch bool `koanf:"watch"`

	// Debounce coalesces bursts of file events into one reload.
	Debounce time.Duration `koanf:"debounce" validate:"gte=0"`

	// PollInterval additionally reloads on a timer. Zero disables polling.
	PollInterval time.Duration `koanf:"poll_interval" validate:"gte=0"`
}

// YieldConfig holds yield model gateway settings. An empty ArtifactsDir
// disables hybrid scoring.
type YieldConfig struct {
	ArtifactsDir       string        `koanf:"artifacts_dir"`
	Timeout            time.Duration `koanf:"timeout" validate:"gt=0"`
	CacheSize          int           `koanf:"cache_size" validate:"gte=1"`
	CacheTTL           time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures" validate:"gte=1"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout" validate:"gt=0"`

	// PredictionRate is predictions per second per crop; negative disables
	// throttling.
	PredictionRate  float64 `koanf:"prediction_rate"`
	PredictionBurst int     `koanf:"prediction_burst" validate:"gte=1"`
}

// GatewayOptions converts the section into yield gateway options.
func (y *YieldConfig) GatewayOptions() yield.Options {
	return yield.Options{
		Timeout:            y.Timeout,
		CacheSize:          y.CacheSize,
		CacheTTL:           y.CacheTTL,
		BreakerMaxFailures: y.BreakerMaxFailures,
		BreakerOpenTimeout: y.BreakerOpenTimeout,
		PredictionRate:     y.PredictionRate,
		PredictionBurst:    y.PredictionBurst,
	}
}

// String summarizes the configuration for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("server=%s traits=%s watch=%t artifacts=%q log=%s/%s",
		c.Server.Addr(), c.Traits.Path, c.Traits.Watch, c.Yield.ArtifactsDir, c.Logging.Level, c.Logging.Format)
}
