// Package config loads leadburr settings from a YAML file, LEADBURR_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/FranksOps/leadburr/internal/extract"
	"github.com/FranksOps/leadburr/internal/fingerprint"
	"github.com/FranksOps/leadburr/internal/serp"
	"github.com/FranksOps/leadburr/internal/storage/backend"
)

// Config holds the full application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	Search  SearchConfig  `mapstructure:"search"`
	Enrich  EnrichConfig  `mapstructure:"enrich"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StoreConfig selects the lead store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// SearchConfig configures the engines and the aggregation loop.
type SearchConfig struct {
	Engines     []string      `mapstructure:"engines"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Target      int           `mapstructure:"target"`
	Cap         int           `mapstructure:"cap"`
	MinDelay    time.Duration `mapstructure:"min_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
	SearxngURL  string        `mapstructure:"searxng_url"`
	BraveAPIKey string        `mapstructure:"brave_api_key"`
	// Denylist entries are added to the built-in domain denylist.
	Denylist []string `mapstructure:"denylist"`
}

// EnrichConfig configures page fetching and extraction.
type EnrichConfig struct {
	Workers         int           `mapstructure:"workers"`
	Timeout         time.Duration `mapstructure:"timeout"`
	EmailPreference string        `mapstructure:"email_preference"`
	RPS             float64       `mapstructure:"rps"`
	Burst           int           `mapstructure:"burst"`
	RespectRobots   bool          `mapstructure:"respect_robots"`
	Proxies         []string      `mapstructure:"proxies"`
	ProxyFile       string        `mapstructure:"proxy_file"`
}

// HTTPConfig is shared by engine requests and page fetches.
type HTTPConfig struct {
	Fingerprint string   `mapstructure:"fingerprint"`
	UserAgents  []string `mapstructure:"user_agents"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "")
	v.SetDefault("search.engines", []string{"duckduckgo", "bing", "mojeek", "searxng"})
	v.SetDefault("search.timeout", 10*time.Second)
	v.SetDefault("search.target", 30)
	v.SetDefault("search.cap", 40)
	v.SetDefault("search.min_delay", time.Second)
	v.SetDefault("search.max_delay", 3*time.Second)
	v.SetDefault("search.searxng_url", "https://searx.be/search")
	v.SetDefault("search.brave_api_key", "")
	v.SetDefault("search.denylist", []string{})
	v.SetDefault("enrich.workers", 3)
	v.SetDefault("enrich.timeout", 5*time.Second)
	v.SetDefault("enrich.email_preference", "specific")
	v.SetDefault("enrich.rps", 0)
	v.SetDefault("enrich.burst", 1)
	v.SetDefault("enrich.respect_robots", false)
	v.SetDefault("enrich.proxies", []string{})
	v.SetDefault("enrich.proxy_file", "")
	v.SetDefault("http.fingerprint", "chrome")
	v.SetDefault("http.user_agents", []string{})
	v.SetDefault("metrics.addr", "")
}

// Load reads configuration from path, or leadburr.yaml in the working
// directory when path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("leadburr")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LEADBURR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if len(c.Search.Engines) == 0 {
		return errors.New("config: search.engines is empty")
	}
	for _, name := range c.Search.Engines {
		if !serp.Known(name) {
			return fmt.Errorf("config: unknown engine %q", name)
		}
	}
	if !backend.Supported(c.Store.Driver) {
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if _, err := extract.ParseEmailPreference(c.Enrich.EmailPreference); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := fingerprint.ParseProfile(c.HTTP.Fingerprint); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if c.Search.Target <= 0 || c.Search.Cap <= 0 {
		return errors.New("config: search.target and search.cap must be positive")
	}
	if c.Search.Cap < c.Search.Target {
		return fmt.Errorf("config: search.cap %d is below search.target %d", c.Search.Cap, c.Search.Target)
	}
	if c.Search.MaxDelay < c.Search.MinDelay {
		return errors.New("config: search.max_delay is below search.min_delay")
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("config: parse log level: %w", err)
	}
	return level, nil
}

// NewLogger builds a text or JSON slog logger writing to w.
func NewLogger(cfg LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("config: unknown log format %q", cfg.Format)
	}
	return slog.New(handler), nil
}
