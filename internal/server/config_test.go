package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.HTTP.Addr)
	assert.Equal(t, DefaultRateLimit, cfg.HTTP.PreviewRateLimit)
	assert.Equal(t, Duration(DefaultJobDelay), cfg.Import.JobDelay)
	assert.Empty(t, cfg.Auth.Secret)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9090"
auth:
  secret: hush
  tokenTTL: 1h
import:
  jobDelay: 10ms
pages:
  seed: [Home, Dragons]
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "hush", cfg.Auth.Secret)
	assert.Equal(t, time.Hour, time.Duration(cfg.Auth.TokenTTL))
	assert.Equal(t, 10*time.Millisecond, time.Duration(cfg.Import.JobDelay))
	assert.Equal(t, []string{"Home", "Dragons"}, cfg.Pages.Seed)
}

func TestLoadConfigEnvSecretWins(t *testing.T) {
	t.Setenv(envAuthSecret, "from-env")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
}
