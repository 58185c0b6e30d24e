package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PULSO_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8002, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.InDelta(t, 45.0, cfg.DefaultAOV, 1e-9)
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PULSO_DATA_DIR", t.TempDir())
	t.Setenv("PULSO_PORT", "9100")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("PULSO_DEFAULT_AOV", "52.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.InDelta(t, 52.5, cfg.DefaultAOV, 1e-9)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PULSO_DATA_DIR", t.TempDir())
	t.Setenv("PULSO_PORT", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsNonPositiveAOV(t *testing.T) {
	cfg := &Config{Port: 8002, DefaultAOV: 0}
	assert.Error(t, cfg.Validate())
}
