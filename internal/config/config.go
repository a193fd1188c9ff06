// Package config loads service configuration from environment variables with
// validated defaults. Every knob works out of the box; environment variables
// override for deployment.
package config

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "cardfeed/pkg/config"

	"github.com/robfig/cron/v3"
)

// Fetch modes select how feed documents are retrieved.
const (
	FetchModeDirect = "direct"
	FetchModeRelay  = "relay"
)

// Config is the root service configuration.
type Config struct {
	Server   ServerConfig
	Fetch    FetchConfig
	Cache    CacheConfig
	Prefetch PrefetchConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port the API listens on. Default: 8080
	Port int

	// ReadTimeout / WriteTimeout bound request handling.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// RequestTimeout bounds one aggregation request end to end.
	RequestTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// FetchConfig holds feed retrieval settings.
type FetchConfig struct {
	// Mode is "direct" or "relay". Default: direct
	Mode string

	// HTTPTimeout is the shared HTTP client timeout.
	HTTPTimeout time.Duration

	// RelayAttemptTimeout bounds each individual relay attempt.
	RelayAttemptTimeout time.Duration

	// RelayConfigFile optionally points at a YAML relay chain definition.
	// Empty means the built-in chain.
	RelayConfigFile string
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	// TTL is how long aggregation results stay fresh.
	TTL time.Duration
}

// PrefetchConfig holds the background cache warming schedule.
type PrefetchConfig struct {
	// Enabled toggles prefetching. Default: true
	Enabled bool

	// Schedule is a cron expression (robfig/cron syntax, @every allowed).
	Schedule string

	// Countries to warm. Default: ["us"]
	Countries []string

	// Categories to warm, by name. Empty means all.
	Categories []string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            pkgconfig.GetEnvInt("PORT", 8080),
			ReadTimeout:     pkgconfig.GetEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    pkgconfig.GetEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			RequestTimeout:  pkgconfig.GetEnvDuration("SERVER_REQUEST_TIMEOUT", 45*time.Second),
			ShutdownTimeout: pkgconfig.GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Fetch: FetchConfig{
			Mode:                pkgconfig.GetEnvString("FETCH_MODE", FetchModeDirect),
			HTTPTimeout:         pkgconfig.GetEnvDuration("FETCH_HTTP_TIMEOUT", 30*time.Second),
			RelayAttemptTimeout: pkgconfig.GetEnvDuration("FETCH_RELAY_ATTEMPT_TIMEOUT", 10*time.Second),
			RelayConfigFile:     pkgconfig.GetEnvString("FETCH_RELAY_CONFIG_FILE", ""),
		},
		Cache: CacheConfig{
			TTL: pkgconfig.GetEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		Prefetch: PrefetchConfig{
			Enabled:    pkgconfig.GetEnvBool("PREFETCH_ENABLED", true),
			Schedule:   pkgconfig.GetEnvString("PREFETCH_SCHEDULE", "@every 10m"),
			Countries:  pkgconfig.GetEnvStringList("PREFETCH_COUNTRIES", []string{"us"}),
			Categories: pkgconfig.GetEnvStringList("PREFETCH_CATEGORIES", nil),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	for name, d := range map[string]time.Duration{
		"SERVER_READ_TIMEOUT":         c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":        c.Server.WriteTimeout,
		"SERVER_REQUEST_TIMEOUT":      c.Server.RequestTimeout,
		"SERVER_SHUTDOWN_TIMEOUT":     c.Server.ShutdownTimeout,
		"FETCH_HTTP_TIMEOUT":          c.Fetch.HTTPTimeout,
		"FETCH_RELAY_ATTEMPT_TIMEOUT": c.Fetch.RelayAttemptTimeout,
		"CACHE_TTL":                   c.Cache.TTL,
	} {
		if err := pkgconfig.ValidatePositiveDuration(d); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	// One relay attempt must fit inside the overall HTTP budget, or a single
	// slow relay starves the rest of the chain.
	if err := pkgconfig.ValidateDurationRange(c.Fetch.RelayAttemptTimeout, time.Second, c.Fetch.HTTPTimeout); err != nil {
		return fmt.Errorf("FETCH_RELAY_ATTEMPT_TIMEOUT: %w", err)
	}

	switch c.Fetch.Mode {
	case FetchModeDirect, FetchModeRelay:
	default:
		return fmt.Errorf("FETCH_MODE must be %q or %q, got %q",
			FetchModeDirect, FetchModeRelay, c.Fetch.Mode)
	}

	if c.Prefetch.Enabled {
		if _, err := cron.ParseStandard(strings.TrimSpace(c.Prefetch.Schedule)); err != nil {
			return fmt.Errorf("PREFETCH_SCHEDULE: %w", err)
		}
		if len(c.Prefetch.Countries) == 0 {
			return fmt.Errorf("PREFETCH_COUNTRIES must not be empty when prefetch is enabled")
		}
	}
	return nil
}
