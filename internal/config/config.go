package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/undokit/pkg/adapters/redis"
	"github.com/aretw0/undokit/pkg/history"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config is the structure of undokit.yaml.
type Config struct {
	History HistoryConfig `yaml:"history" json:"history"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Store   StoreConfig   `yaml:"store" json:"store"`
}

// HistoryConfig configures every document history.
type HistoryConfig struct {
	Limit          int           `yaml:"limit" json:"limit"`
	CoalesceWindow time.Duration `yaml:"coalesce_window" json:"coalesce_window"`
}

// LogConfig selects the logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // text | json
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// StoreConfig selects where documents live.
type StoreConfig struct {
	Driver string      `yaml:"driver" json:"driver"`
	Redis  RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig configures the redis driver.
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	Lock     bool          `yaml:"lock" json:"lock"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		History: HistoryConfig{
			Limit:          history.DefaultLimit,
			CoalesceWindow: 750 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Store: StoreConfig{
			Driver: DriverMemory,
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Prefix:  redis.DefaultPrefix,
				Timeout: redis.DefaultTimeout,
			},
		},
	}
}

// Load reads a YAML or JSON file over the defaults. Durations are written
// as strings ("750ms", "2s") in both formats. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	// JSON is valid YAML, and yaml.v3 reads "750ms" into a time.Duration.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the hosts cannot honour.
func (c Config) Validate() error {
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}
	if c.History.CoalesceWindow < 0 {
		return fmt.Errorf("history.coalesce_window must not be negative, got %s", c.History.CoalesceWindow)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	return nil
}
