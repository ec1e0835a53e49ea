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

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: dev
http_server:
  address: localhost:8082
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, ":memory:", cfg.StoragePath)
	assert.False(t, cfg.Seed)
	assert.Equal(t, "localhost:8082", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadReadsEveryKey(t *testing.T) {
	path := writeConfig(t, `
env: prod
storage_backend: sqlite
storage_path: /tmp/students.db
seed: true
http_server:
  address: 0.0.0.0:9000
  read_timeout: 3s
  write_timeout: 4s
  idle_timeout: 30s
  shutdown_timeout: 1s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, "/tmp/students.db", cfg.StoragePath)
	assert.True(t, cfg.Seed)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 4*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.IdleTimeout)
	assert.Equal(t, time.Second, cfg.ShutdownTimeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("HTTP_SERVER_ADDR", "127.0.0.1:7000")
	path := writeConfig(t, `
env: dev
http_server:
  address: localhost:8082
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Addr)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("missing required env", func(t *testing.T) {
		path := writeConfig(t, `
http_server:
  address: localhost:8082
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		path := writeConfig(t, `
env: dev
storage_backend: postgres
http_server:
  address: localhost:8082
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, `unknown storage_backend "postgres"`)
	})
}
