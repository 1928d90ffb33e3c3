package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("DB_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.HasDatabase())
	assert.False(t, cfg.HasRelay())
}

func TestLoad_FeatureToggles(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/counter")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg := Load()

	assert.True(t, cfg.HasDatabase())
	assert.True(t, cfg.HasRelay())
}

func TestLoad_TrimsWhitespace(t *testing.T) {
	t.Setenv("ADDR", "  :9090  ")

	assert.Equal(t, ":9090", Load().Addr)
}
