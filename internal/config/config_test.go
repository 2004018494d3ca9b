package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tictoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TICTOC_ADDR", "")
	t.Setenv("TICTOC_LOG_LEVEL", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
addr: ":9000"
computer_first: true
seed: 17
heartbeat_interval: 5s
log_level: debug
`)
	t.Setenv("PORT", "")
	t.Setenv("TICTOC_ADDR", "")
	t.Setenv("TICTOC_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.True(t, cfg.ComputerFirst)
	assert.Equal(t, int64(17), cfg.Seed)
	assert.Equal(t, 5*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestPortOverride(t *testing.T) {
	t.Setenv("PORT", "7777")
	t.Setenv("TICTOC_ADDR", "")
	t.Setenv("TICTOC_LOG_LEVEL", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Addr)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TICTOC_ADDR", "")
	t.Setenv("TICTOC_LOG_LEVEL", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "addr: [oops"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "log_level: loud"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "heartbeat_interval: 0s"))
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Dev = true
	cfg.LogLevel = "debug"
	log, err := cfg.Logger()
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(-1))
}
