package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadBackendConfig(t *testing.T) {
	path := writeFile(t, `
env: prod
storage_path: storage/storage.db
branches: [CS, EE]
http_server:
  address: localhost:8082
`)

	var cfg Config
	require.NoError(t, Read(path, &cfg))

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "storage/storage.db", cfg.StoragePath)
	assert.Equal(t, []string{"CS", "EE"}, cfg.Branches)
	assert.Equal(t, "localhost:8082", cfg.HTTPServer.Addr)
}

func TestReadBackendConfigMissingRequired(t *testing.T) {
	path := writeFile(t, "env: dev\n")

	var cfg Config
	assert.Error(t, Read(path, &cfg))
}

func TestReadClientDefaults(t *testing.T) {
	path := writeFile(t, "base_url: http://localhost:8082/api\n")

	var cfg Client
	require.NoError(t, Read(path, &cfg))

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.AckDelay)
	assert.Equal(t, 5, cfg.Table.PageLength)
	assert.Equal(t, []int{5, 10, 20, -1}, cfg.Table.PageLengths)
}

func TestReadMissingFile(t *testing.T) {
	var cfg Client
	err := Read(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
