package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "questboard.db", cfg.DatabaseURL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("QUESTBOARD_HTTP_ADDR", ":9090")
	t.Setenv("QUESTBOARD_SWEEP_INTERVAL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
}
