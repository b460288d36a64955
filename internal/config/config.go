// Package config loads afresh settings. Defaults are overlaid by
// $AFRESH_HOME/config.toml, then by AFRESH_* environment variables; the CLI
// applies its flags last.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Auth     AuthConfig     `toml:"auth"`
	Ledger   LedgerConfig   `toml:"ledger"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type ServerConfig struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	IdleTimeout     time.Duration `toml:"idle_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	// OriginPatterns lists hosts allowed to open cross-origin WebSockets.
	OriginPatterns []string `toml:"origin_patterns"`
	// ClaimsPerMinute caps claim attempts per user.
	ClaimsPerMinute int `toml:"claims_per_minute"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxFiles   int    `toml:"max_files"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

type AuthConfig struct {
	Secret   string        `toml:"secret"`
	Issuer   string        `toml:"issuer"`
	TokenTTL time.Duration `toml:"token_ttl"`
}

type LedgerConfig struct {
	// Fulfillment is "immediate" or "manual".
	Fulfillment     string        `toml:"fulfillment"`
	ConflictBackoff time.Duration `toml:"conflict_backoff"`
	// Timezone is the IANA zone "today" is computed in.
	Timezone string `toml:"timezone"`
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

func DefaultConfig() Config {
	home := Home()
	return Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			ClaimsPerMinute: 10,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(home, "afresh.db"),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxFiles:   5,
			MaxAgeDays: 28,
		},
		Auth: AuthConfig{
			Issuer:   "afresh",
			TokenTTL: 30 * 24 * time.Hour,
		},
		Ledger: LedgerConfig{
			Fulfillment:     "immediate",
			ConflictBackoff: 25 * time.Millisecond,
			Timezone:        "UTC",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads the TOML file at path (or $AFRESH_HOME/config.toml when path is
// empty), applies environment overrides and validates the result. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = filepath.Join(Home(), "config.toml")
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("AFRESH_HOST", &c.Server.Host)
	str("AFRESH_DB_PATH", &c.Database.Path)
	str("AFRESH_LOG_LEVEL", &c.Logging.Level)
	str("AFRESH_LOG_FORMAT", &c.Logging.Format)
	str("AFRESH_LOG_FILE", &c.Logging.File)
	str("AFRESH_JWT_SECRET", &c.Auth.Secret)
	str("AFRESH_FULFILLMENT", &c.Ledger.Fulfillment)
	str("AFRESH_TIMEZONE", &c.Ledger.Timezone)

	if v := os.Getenv("AFRESH_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AFRESH_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("AFRESH_METRICS"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AFRESH_METRICS: %w", err)
		}
		c.Metrics.Enabled = enabled
	}
	return nil
}

// Validate checks values that would otherwise fail later at startup.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	switch c.Ledger.Fulfillment {
	case "immediate", "manual":
	default:
		return fmt.Errorf("ledger.fulfillment must be immediate or manual, got %q", c.Ledger.Fulfillment)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	return nil
}

// Location resolves the ledger timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Ledger.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ledger.timezone: %w", err)
	}
	return loc, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Home returns the afresh data directory.
func Home() string {
	if env := os.Getenv("AFRESH_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".afresh")
}
