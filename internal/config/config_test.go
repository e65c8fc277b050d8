package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// no leadburr.yaml in an empty dir
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, []string{"duckduckgo", "bing", "mojeek", "searxng"}, cfg.Search.Engines)
	assert.Equal(t, 10*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 30, cfg.Search.Target)
	assert.Equal(t, 40, cfg.Search.Cap)
	assert.Equal(t, time.Second, cfg.Search.MinDelay)
	assert.Equal(t, 3*time.Second, cfg.Search.MaxDelay)
	assert.Equal(t, "https://searx.be/search", cfg.Search.SearxngURL)
	assert.Equal(t, 3, cfg.Enrich.Workers)
	assert.Equal(t, 5*time.Second, cfg.Enrich.Timeout)
	assert.Equal(t, "specific", cfg.Enrich.EmailPreference)
	assert.Zero(t, cfg.Enrich.RPS)
	assert.False(t, cfg.Enrich.RespectRobots)
	assert.Equal(t, "chrome", cfg.HTTP.Fingerprint)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `
log:
  level: debug
  format: json
store:
  driver: sqlite
  dsn: leads.db
search:
  engines: [bing, brave]
  target: 10
  cap: 15
  min_delay: 500ms
  brave_api_key: secret
  denylist: [yellowpages.ca]
enrich:
  workers: 5
  email_preference: role
  proxies:
    - http://127.0.0.1:8080
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leadburr.yaml"), []byte(yaml), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "leads.db", cfg.Store.DSN)
	assert.Equal(t, []string{"bing", "brave"}, cfg.Search.Engines)
	assert.Equal(t, 10, cfg.Search.Target)
	assert.Equal(t, 15, cfg.Search.Cap)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.MinDelay)
	assert.Equal(t, "secret", cfg.Search.BraveAPIKey)
	assert.Equal(t, []string{"yellowpages.ca"}, cfg.Search.Denylist)
	assert.Equal(t, 5, cfg.Enrich.Workers)
	assert.Equal(t, "role", cfg.Enrich.EmailPreference)
	assert.Equal(t, []string{"http://127.0.0.1:8080"}, cfg.Enrich.Proxies)
	assert.NoError(t, cfg.Validate())
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: redis\n  dsn: redis://localhost:6379/0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Driver)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEADBURR_STORE_DRIVER", "postgres")
	t.Setenv("LEADBURR_SEARCH_TARGET", "12")
	t.Setenv("LEADBURR_ENRICH_RESPECT_ROBOTS", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 12, cfg.Search.Target)
	assert.True(t, cfg.Enrich.RespectRobots)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leadburr.yaml"), []byte("log: [unclosed"), 0o644))

	_, err := Load("")
	assert.Error(t, err)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown engine", func(c *Config) { c.Search.Engines = []string{"google"} }, `unknown engine "google"`},
		{"no engines", func(c *Config) { c.Search.Engines = nil }, "search.engines is empty"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }, `unknown store driver "mongo"`},
		{"bad preference", func(c *Config) { c.Enrich.EmailPreference = "any" }, "email preference"},
		{"bad fingerprint", func(c *Config) { c.HTTP.Fingerprint = "netscape" }, "unknown profile"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
		{"zero target", func(c *Config) { c.Search.Target = 0 }, "must be positive"},
		{"cap below target", func(c *Config) { c.Search.Cap = 10 }, "below search.target"},
		{"delays inverted", func(c *Config) { c.Search.MaxDelay = 0 }, "max_delay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)

	buf.Reset()
	logger, err = NewLogger(LogConfig{}, &buf)
	require.NoError(t, err)
	logger.Info("plain")
	assert.True(t, strings.Contains(buf.String(), "msg=plain"))

	_, err = NewLogger(LogConfig{Format: "xml"}, &buf)
	assert.Error(t, err)
	_, err = NewLogger(LogConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
}
