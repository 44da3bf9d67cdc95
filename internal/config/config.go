// Package config loads console configuration from YAML with environment
// variable overrides. Secrets live in .env locally and in real env vars in
// deployment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the console and its tooling.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Polling  PollingConfig  `yaml:"polling"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	StubAPI  StubAPIConfig  `yaml:"stub_api"`
}

// APIConfig holds the campaign backend connection settings.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PollingConfig holds the live-update poller settings.
type PollingConfig struct {
	IntervalMS int `yaml:"interval_ms"`
	// TerminalPollBudget > 0 stops polling after that many polls observing
	// a terminal campaign; 0 polls until the view goes away.
	TerminalPollBudget int `yaml:"terminal_poll_budget"`
}

// Interval returns the poll cadence as a duration.
func (c PollingConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// SnapshotConfig holds the Redis warm-start cache settings.
type SnapshotConfig struct {
	Enabled    bool   `yaml:"enabled"`
	RedisAddr  string `yaml:"redis_addr"`
	RedisDB    int    `yaml:"redis_db"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// TTL returns the snapshot expiry as a duration.
func (c SnapshotConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// StubAPIConfig holds the local development backend settings. An empty
// DatabaseURL keeps the stub in-memory.
type StubAPIConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	DatabaseURL string `yaml:"database_url"`
	AuthToken   string `yaml:"auth_token"`
}

// Load reads configuration from a YAML file and applies defaults. A missing
// file is not an error; the console runs fine on defaults plus env vars.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults only.
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8085"
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 15
	}
	if c.Polling.IntervalMS == 0 {
		c.Polling.IntervalMS = 2000
	}
	if c.Snapshot.RedisAddr == "" {
		c.Snapshot.RedisAddr = "localhost:6379"
	}
	if c.Snapshot.TTLMinutes == 0 {
		c.Snapshot.TTLMinutes = 60
	}
	if c.StubAPI.ListenAddr == "" {
		c.StubAPI.ListenAddr = ":8085"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is loaded first, so secrets can live there
// locally without touching the YAML.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CAMPAIGN_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("CAMPAIGN_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Polling.IntervalMS = n
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Snapshot.RedisAddr = v
		cfg.Snapshot.Enabled = true
	}
	if v := os.Getenv("STUB_API_ADDR"); v != "" {
		cfg.StubAPI.ListenAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.StubAPI.DatabaseURL = v
	}
	if v := os.Getenv("STUB_API_TOKEN"); v != "" {
		cfg.StubAPI.AuthToken = v
	}
	return cfg, nil
}
