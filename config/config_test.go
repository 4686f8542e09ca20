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
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contenido := `
server:
  port: 8080
database:
  dsn: "host=localhost user=frigorid dbname=frigorid"
auth:
  jwt_secret: "secreto"
sweep:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(contenido), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Sweep.Enabled)
	assert.Equal(t, time.Hour, cfg.Sweep.Interval)
	assert.Equal(t, 2, cfg.Sweep.AnticipationDays)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, float64(10), cfg.Server.RateLimitPerSec)
	assert.Equal(t, 60, cfg.Server.CacheTTLSeconds)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/no/existe/config.yaml")
	require.Error(t, err)
}
