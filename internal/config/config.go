// Package config loads liftsync settings from defaults, an optional TOML file,
// a local .env file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

const (
	EnvPrefix  = "LIFTSYNC_"
	EnvFile    = "LIFTSYNC_CONFIG"
	DefaultURL = "http://localhost:5000/api"
)

// Config holds all application configuration
type Config struct {
	APIURL       string        `env:"API_URL"`
	Token        string        `env:"TOKEN"`
	Timeout      time.Duration `env:"TIMEOUT"`
	LogLevel     string        `env:"LOG_LEVEL"`
	StaleTime    time.Duration `env:"STALE_TIME"`
	FeedPageSize int           `env:"FEED_PAGE_SIZE"`
	Server       ServerConfig  `envPrefix:"SERVER_"`
}

// ServerConfig configures the development API server.
type ServerConfig struct {
	Addr   string `env:"ADDR"`
	Secret string `env:"SECRET"`
	Seed   bool   `env:"SEED"`
}

func Default() Config {
	return Config{
		APIURL:       DefaultURL,
		Timeout:      15 * time.Second,
		LogLevel:     "info",
		FeedPageSize: 20,
		Server:       ServerConfig{Addr: ":5000"},
	}
}

// Path returns the config file location: $LIFTSYNC_CONFIG if set, else
// ~/.config/liftsync/config.toml. explicit reports whether it came from the
// environment.
func Path() (path string, explicit bool) {
	if p := os.Getenv(EnvFile); p != "" {
		return p, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".config", "liftsync", "config.toml"), false
}

// Load builds the configuration. A missing default config file is not an
// error; a missing file named by $LIFTSYNC_CONFIG is.
func Load() (*Config, error) {
	loadDotenv(".env")

	cfg := Default()
	if p, explicit := Path(); p != "" {
		if err := loadFile(p, &cfg); err != nil {
			if !explicit && errors.Is(err, os.ErrNotExist) {
				err = nil
			}
			if err != nil {
				return nil, err
			}
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &cfg, nil
}

// fileConfig mirrors Config as written in TOML. Durations are strings such
// as "15s".
type fileConfig struct {
	APIURL       *string `toml:"api_url"`
	Token        *string `toml:"token"`
	Timeout      *string `toml:"timeout"`
	LogLevel     *string `toml:"log_level"`
	StaleTime    *string `toml:"stale_time"`
	FeedPageSize *int    `toml:"feed_page_size"`
	Server       struct {
		Addr   *string `toml:"addr"`
		Secret *string `toml:"secret"`
		Seed   *bool   `toml:"seed"`
	} `toml:"server"`
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	setString(&cfg.APIURL, fc.APIURL)
	setString(&cfg.Token, fc.Token)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.Server.Addr, fc.Server.Addr)
	setString(&cfg.Server.Secret, fc.Server.Secret)
	if fc.FeedPageSize != nil {
		cfg.FeedPageSize = *fc.FeedPageSize
	}
	if fc.Server.Seed != nil {
		cfg.Server.Seed = *fc.Server.Seed
	}
	if err := setDuration(&cfg.Timeout, fc.Timeout); err != nil {
		return fmt.Errorf("%s: timeout: %w", path, err)
	}
	if err := setDuration(&cfg.StaleTime, fc.StaleTime); err != nil {
		return fmt.Errorf("%s: stale_time: %w", path, err)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

// loadDotenv reads a local .env file without overriding variables that are
// already set. It is a no-op when the file is absent.
func loadDotenv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// Validate checks the values the client cannot run without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url must be an absolute URL, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.StaleTime < 0 {
		return fmt.Errorf("stale_time must not be negative, got %s", c.StaleTime)
	}
	if c.FeedPageSize < 1 || c.FeedPageSize > 100 {
		return fmt.Errorf("feed_page_size must be between 1-100, got %d", c.FeedPageSize)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// HasToken returns true if an API token is configured
func (c *Config) HasToken() bool {
	return c.Token != ""
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
