package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWritesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	Reset()

	require.NoError(t, Initialize(""))

	_, err := os.Stat(filepath.Join(home, ".go_pool", "config.yaml"))
	require.NoError(t, err, "default config file is created")

	cfg := Get()
	assert.Equal(t, 10000, cfg.Pool.MaxSize)
	assert.Zero(t, cfg.Pool.Prewarm)
	assert.Zero(t, cfg.Pool.DefaultLifetime)
	assert.Equal(t, "templates", cfg.Templates.Path)
	assert.Equal(t, 60, cfg.Loop.TickRate)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 1600, cfg.Server.Port)
	assert.Equal(t, ":9108", cfg.Metrics.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "human", cfg.Log.Format)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GOPOOL_POOL_MAX_SIZE", "64")
	t.Setenv("GOPOOL_POOL_DEFAULT_LIFETIME", "2s")
	t.Setenv("GOPOOL_SERVER_ENABLED", "false")
	Reset()

	require.NoError(t, Initialize(""))

	cfg := Get()
	assert.Equal(t, 64, cfg.Pool.MaxSize)
	assert.Equal(t, 2*time.Second, cfg.Pool.DefaultLifetime)
	assert.False(t, cfg.Server.Enabled)
}

func TestExplicitConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	Reset()

	path := filepath.Join(t.TempDir(), "pool.yaml")
	content := "pool:\n  max_size: 32\n  prewarm: 4\nloop:\n  tick_rate: 30\nmetrics:\n  addr: \"\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, Initialize(path))

	cfg := Get()
	assert.Equal(t, 32, cfg.Pool.MaxSize)
	assert.Equal(t, 4, cfg.Pool.Prewarm)
	assert.Equal(t, 30, cfg.Loop.TickRate)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.Equal(t, "templates", cfg.Templates.Path, "unset keys keep defaults")
}

func TestMissingExplicitFileFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	Reset()

	assert.Error(t, Initialize(filepath.Join(t.TempDir(), "absent.yaml")))
}
