package config

import (
	"os"
	"strings"
)

// Config contains runtime configuration required by the service.
//
// DBURL and RedisURL are feature toggles, not requirements: without DBURL the
// service runs memory-only (history queries return empty results, not
// errors); without RedisURL the hosted-relay fan-out path stays off and
// clients rely on the SSE stream plus polling.
type Config struct {
	Addr      string
	DBURL     string
	RedisURL  string
	LogLevel  string
	LogFormat string
}

// HasDatabase reports whether durable persistence is configured.
func (c Config) HasDatabase() bool { return c.DBURL != "" }

// HasRelay reports whether the hosted relay path is configured.
func (c Config) HasRelay() bool { return c.RedisURL != "" }

// Load reads values from environment variables, applying defaults so the
// service runs out-of-the-box with nothing set.
func Load() Config {
	cfg := Config{
		Addr:      strings.TrimSpace(os.Getenv("ADDR")),
		DBURL:     strings.TrimSpace(os.Getenv("DB_URL")),
		RedisURL:  strings.TrimSpace(os.Getenv("REDIS_URL")),
		LogLevel:  strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		LogFormat: strings.TrimSpace(os.Getenv("LOG_FORMAT")),
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	return cfg
}
