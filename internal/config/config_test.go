package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvAsDuration(t *testing.T) {
	t.Run("valid duration", func(t *testing.T) {
		t.Setenv("TEST_DUR", "250ms")
		assert.Equal(t, 250*time.Millisecond, getEnvAsDuration("TEST_DUR", time.Second))
	})

	t.Run("invalid duration returns default", func(t *testing.T) {
		t.Setenv("TEST_DUR_BAD", "soon")
		assert.Equal(t, time.Second, getEnvAsDuration("TEST_DUR_BAD", time.Second))
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Client.ServerURL)
	assert.Equal(t, "https://duckduckgo.com", cfg.Client.DefaultURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Client.MoveDebounce)
	assert.Equal(t, 5, cfg.Host.FPS)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
client:
  server_url: https://browsers.internal:9000/api
  default_url: https://example.com
  move_debounce: 200ms
host:
  fps: 10
  quality: 70
`), 0o600)
	require.NoError(t, err)

	t.Setenv("BROWSERCONTROL_FPS", "12")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://browsers.internal:9000/api", cfg.Client.ServerURL)
	assert.Equal(t, "https://example.com", cfg.Client.DefaultURL)
	assert.Equal(t, 200*time.Millisecond, cfg.Client.MoveDebounce)
	assert.Equal(t, 12, cfg.Host.FPS)
	assert.Equal(t, 70, cfg.Host.Quality)
}

func TestLoadRejectsBadServerURL(t *testing.T) {
	t.Setenv("BROWSERCONTROL_SERVER_URL", "ftp://nope")
	_, err := Load("")
	require.Error(t, err)
}

func TestStreamURL(t *testing.T) {
	t.Run("http becomes ws", func(t *testing.T) {
		c := ClientConfig{ServerURL: "http://localhost:8000"}
		got, err := c.StreamURL("abc123")
		require.NoError(t, err)
		assert.Equal(t, "ws://localhost:8000/stream/abc123", got)
	})

	t.Run("https with base path becomes wss", func(t *testing.T) {
		c := ClientConfig{ServerURL: "https://host/api/"}
		got, err := c.StreamURL("abc123")
		require.NoError(t, err)
		assert.Equal(t, "wss://host/api/stream/abc123", got)
	})
}
