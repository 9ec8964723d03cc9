package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads the YAML file", func(t *testing.T) {
		// Given: a config file overriding a few values
		path := writeConfig(t, `
log-level: debug
http-port: "8080"
redis:
  host: cache
  snapshot-ttl: 5m
ai:
  delay-min: 100ms
  delay-max: 200ms
  medium-probability: 0.25
`)

		// When: loading it
		conf, err := Load(path)

		// Then: file values win and the rest falls back to defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, "cache:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "tictactoe:sessions", conf.Redis.Channel)
		assert.Equal(t, 5*time.Minute, conf.Redis.SnapshotTTL)
		assert.Equal(t, 100*time.Millisecond, conf.AI.DelayMin)
		assert.Equal(t, 200*time.Millisecond, conf.AI.DelayMax)
		assert.InDelta(t, 0.25, conf.AI.MediumProbability, 1e-9)
	})

	t.Run("Falls back to defaults without a file", func(t *testing.T) {
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, 300*time.Millisecond, conf.AI.DelayMin)
		assert.Equal(t, 600*time.Millisecond, conf.AI.DelayMax)
		assert.InDelta(t, 0.5, conf.AI.MediumProbability, 1e-9)
	})

	t.Run("Rejects an inverted delay range", func(t *testing.T) {
		path := writeConfig(t, `
ai:
  delay-min: 2s
  delay-max: 1s
`)

		_, err := Load(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid ai delay range")
	})

	t.Run("Rejects a probability outside [0, 1]", func(t *testing.T) {
		path := writeConfig(t, `
ai:
  medium-probability: 1.5
`)

		_, err := Load(path)

		require.Error(t, err)
	})
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "ai: [")

	config, err := Load(path)

	require.Error(t, err)
	assert.Nil(t, config)
}
