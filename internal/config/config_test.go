package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, "http://localhost:8000", cfg.PropagationBaseURL)
	assert.Equal(t, time.Second, cfg.SensorInterval)
	assert.Equal(t, 5*time.Second, cfg.TelemetryInterval)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 300, cfg.RateLimitPerMinute)
	assert.Equal(t, 30, cfg.RateLimitBurst)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SNOWCORE_API_BASE_URL", "http://api.internal:9000")
	t.Setenv("SNOWCORE_PROPAGATION_BASE_URL", "http://gnn.internal:9100")
	t.Setenv("SNOWCORE_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:9000", cfg.APIBaseURL)
	assert.Equal(t, "http://gnn.internal:9100", cfg.PropagationBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "listen_addr: \":4400\"\nsensor_interval: 250ms\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":4400", cfg.ListenAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.SensorInterval)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.TelemetryInterval)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SNOWCORE_LOG_LEVEL", "loud")

	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadRejectsMalformedURL(t *testing.T) {
	t.Setenv("SNOWCORE_API_BASE_URL", "not a url")

	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
