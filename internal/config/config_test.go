package config

import (
	"GlobalpingCLI/internal/shared/constants"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, constants.HTTPTimeout, cfg.API.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Poll.Interval)
	assert.Zero(t, cfg.Poll.MaxAttempts)
	assert.Zero(t, cfg.Poll.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.False(t, cfg.History.HistoryEnabled())
	assert.False(t, cfg.MQTT.PublishEnabled())
	assert.Equal(t, constants.DefaultMQTTTopic, cfg.MQTT.Topic)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
api:
  url: http://localhost:3000/v1
  token: abc
poll:
  interval: 250ms
  max_attempts: 20
  timeout: 1m
cache:
  backend: redis
redis:
  addr: redis:6379
  db: 2
history:
  dsn: postgres://localhost/globalping
mqtt:
  broker: tcp://localhost:1883
`)

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/v1", cfg.API.URL)
	assert.Equal(t, "abc", cfg.API.Token)
	assert.Equal(t, PollConfig{Interval: 250 * time.Millisecond, MaxAttempts: 20, Timeout: time.Minute}, cfg.Poll)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.True(t, cfg.History.HistoryEnabled())
	assert.True(t, cfg.MQTT.PublishEnabled())

	opts := cfg.Redis.GetRedisOptions()
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "api:\n  token: from-file\n")
	t.Setenv("GLOBALPING_API_TOKEN", "from-env")
	t.Setenv("GLOBALPING_POLL_INTERVAL", "1s")

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.API.Token)
	assert.Equal(t, time.Second, cfg.Poll.Interval)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad scheme", "api:\n  url: ftp://example.com\n", "invalid api url"},
		{"negative interval", "poll:\n  interval: -1s\n", "invalid poll interval"},
		{"negative attempts", "poll:\n  max_attempts: -1\n", "invalid poll max attempts"},
		{"unknown format", "logging:\n  format: xml\n", "invalid logging format"},
		{"unknown cache", "cache:\n  backend: disk\n", "invalid cache backend"},
		{"redis without addr", "cache:\n  backend: redis\nredis:\n  addr: \"\"\n", "redis address is required"},
		{"broker without topic", "mqtt:\n  broker: tcp://localhost:1883\n  topic: \"\"\n", "mqtt topic is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(New(), writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
