package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	EnvFile,
	"LIFTSYNC_API_URL", "LIFTSYNC_TOKEN", "LIFTSYNC_TIMEOUT", "LIFTSYNC_LOG_LEVEL",
	"LIFTSYNC_STALE_TIME", "LIFTSYNC_FEED_PAGE_SIZE",
	"LIFTSYNC_SERVER_ADDR", "LIFTSYNC_SERVER_SECRET", "LIFTSYNC_SERVER_SEED",
}

// setupTestConfig points HOME and the working directory at a temporary
// directory and clears the LIFTSYNC_ variables for the duration of the test.
func setupTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	setupTestConfig(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.HasToken())
}

func TestLoadPrecedence(t *testing.T) {
	dir := setupTestConfig(t)
	writeFile(t, filepath.Join(dir, ".config", "liftsync", "config.toml"), `
api_url = "https://lift.example.com/api/"
token = "from-file"
timeout = "30s"
feed_page_size = 50

[server]
addr = ":8080"
`)
	writeFile(t, filepath.Join(dir, ".env"), "LIFTSYNC_TOKEN=from-dotenv\nLIFTSYNC_LOG_LEVEL=debug\n")
	t.Setenv("LIFTSYNC_TIMEOUT", "5s")
	t.Setenv("LIFTSYNC_SERVER_SECRET", "shh")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://lift.example.com/api", cfg.APIURL)
	assert.Equal(t, "from-dotenv", cfg.Token)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 50, cfg.FeedPageSize)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "shh", cfg.Server.Secret)
	assert.True(t, cfg.HasToken())
}

func TestDotenvDoesNotOverrideEnvironment(t *testing.T) {
	dir := setupTestConfig(t)
	writeFile(t, filepath.Join(dir, ".env"), "LIFTSYNC_TOKEN=from-dotenv\n")
	t.Setenv("LIFTSYNC_TOKEN", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Token)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := setupTestConfig(t)
	path := filepath.Join(dir, "custom.toml")
	t.Setenv(EnvFile, path)

	_, err := Load()
	require.Error(t, err, "a missing explicit config file must fail")

	writeFile(t, path, "stale_time = \"1m\"\n")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.StaleTime)

	writeFile(t, path, "timeout = \"soon\"\n")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadInvalidEnv(t *testing.T) {
	setupTestConfig(t)
	t.Setenv("LIFTSYNC_FEED_PAGE_SIZE", "lots")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"relative url", func(c *Config) { c.APIURL = "/api" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"negative stale time", func(c *Config) { c.StaleTime = -time.Second }, true},
		{"page size too large", func(c *Config) { c.FeedPageSize = 101 }, true},
		{"page size zero", func(c *Config) { c.FeedPageSize = 0 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
