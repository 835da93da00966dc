package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"EODFeed/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		RateLimitRPS    float64       `yaml:"rate_limit_rps"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Data struct {
		Loader          string `yaml:"loader"`
		Root            string `yaml:"root"`
		Extension       string `yaml:"extension"`
		NativeTimeframe string `yaml:"native_timeframe"`
		DateColumn      string `yaml:"date_column"`
		DateFormat      string `yaml:"date_format"`
	} `yaml:"data"`
	Batch struct {
		Workers int `yaml:"workers"`
	} `yaml:"batch"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	ClickHouse struct {
		Host        string        `yaml:"host"`
		Port        int           `yaml:"port"`
		Database    string        `yaml:"database"`
		User        string        `yaml:"user"`
		Password    string        `yaml:"password"`
		Table       string        `yaml:"table"`
		DialTimeout time.Duration `yaml:"dial_timeout"`
		ReadTimeout time.Duration `yaml:"read_timeout"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("DATA_LOADER"); v != "" {
		c.Data.Loader = v
	}
	if v := os.Getenv("DATA_ROOT"); v != "" {
		c.Data.Root = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Data.Loader == "" {
		return fmt.Errorf("data.loader is required")
	}
	if c.Data.Loader != "eodfile" && c.Data.Loader != "clickhouse" {
		return fmt.Errorf("data.loader must be 'eodfile' or 'clickhouse', got '%s'", c.Data.Loader)
	}
	switch c.Data.NativeTimeframe {
	case "", "daily", "weekly", "monthly", "quarterly":
	default:
		return fmt.Errorf("data.native_timeframe must be a known timeframe, got '%s'", c.Data.NativeTimeframe)
	}
	if c.Data.Loader == "eodfile" && c.Data.Root == "" {
		return fmt.Errorf("data.root is required for the eodfile loader")
	}
	if c.Data.Loader == "clickhouse" {
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for the clickhouse loader")
		}
		if c.ClickHouse.Table == "" {
			return fmt.Errorf("clickhouse.table is required for the clickhouse loader")
		}
	}
	return nil
}
