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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "127.0.0.1:8000", cfg.HTTPServer.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, ":memory:", cfg.Storage.Path)
	assert.Empty(t, cfg.Roster.Seed)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
http_server:
  address: "0.0.0.0:9000"
  write_timeout: 3s
storage:
  backend: "sqlite"
roster:
  seed: ["Alice", "Bob"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "0.0.0.0:9000", cfg.HTTPServer.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTPServer.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.ReadTimeout, "unset keys keep their default")
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, ":memory:", cfg.Storage.Path)
	assert.Equal(t, []string{"Alice", "Bob"}, cfg.Roster.Seed)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
http_server:
  address: "127.0.0.1:8000"
`)
	t.Setenv("HTTP_SERVER_ADDR", "127.0.0.1:8081")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8081", cfg.HTTPServer.Addr)
}

func TestLoadSeedFromEnv(t *testing.T) {
	t.Setenv("ROSTER_SEED", "Alice,Bob")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, cfg.Roster.Seed)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "does not exist")
}

func TestLoadUnknownBackend(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: "postgres"
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown storage backend")
}
