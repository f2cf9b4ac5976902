package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "https://data-api.polymarket.com", cfg.Clients.Polymarket.BaseURL)
	assert.Equal(t, 500, cfg.Wallet.ActivityLimit)
	assert.Equal(t, 50, cfg.Wallet.RecentActivity)
	assert.Equal(t, 10, cfg.Wallet.LookupBatchSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Wallet.GetLookupBatchDelay())
	assert.Equal(t, 30*time.Second, cfg.Clients.Polymarket.GetTimeout())
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("POLYFOLIO_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_InvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("POLYFOLIO_PORT", "not-a-port")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "polyfolio.toml")
	content := `
environment = "production"

[server]
port = 4242

[clients.polymarket]
base_url = "http://localhost:9999/"
rate_limit = 3
timeout = "5s"

[wallet]
lookup_batch_size = 4
lookup_batch_delay = "250ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("POLYFOLIO_RATE_LIMIT", "7")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 4242, cfg.Server.Port)
	assert.Equal(t, "http://localhost:9999", cfg.Clients.Polymarket.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 7, cfg.Clients.Polymarket.RateLimit, "env wins over file")
	assert.Equal(t, 5*time.Second, cfg.Clients.Polymarket.GetTimeout())
	assert.Equal(t, 4, cfg.Wallet.LookupBatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Wallet.GetLookupBatchDelay())
	// untouched sections keep their defaults
	assert.Equal(t, 500, cfg.Wallet.ActivityLimit)
}

func TestLoadConfig_MissingFileSkipped(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"), "")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport ="), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_ClampsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clamp.toml")
	content := `
[clients.polymarket]
rate_limit = 0

[wallet]
activity_limit = 5000
recent_activity = -1
lookup_batch_size = 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Clients.Polymarket.RateLimit)
	assert.Equal(t, 500, cfg.Wallet.ActivityLimit)
	assert.Equal(t, 50, cfg.Wallet.RecentActivity)
	assert.Equal(t, 10, cfg.Wallet.LookupBatchSize)
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("POLYFOLIO_TEST_DOTENV=from-file\nPOLYFOLIO_TEST_DOTENV_SET=from-file\n"), 0o644))

	t.Setenv("POLYFOLIO_TEST_DOTENV_SET", "from-env")
	t.Cleanup(func() { os.Unsetenv("POLYFOLIO_TEST_DOTENV") })

	LoadDotEnv(path, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "from-file", os.Getenv("POLYFOLIO_TEST_DOTENV"))
	assert.Equal(t, "from-env", os.Getenv("POLYFOLIO_TEST_DOTENV_SET"))
}
