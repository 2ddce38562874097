// Package config loads application configuration from an optional YAML file and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"stock_correlation/internal/platform/externalapi/twelvedata"
	"stock_correlation/internal/platform/externalapi/yahoo"
)

// Supported market-data providers.
const (
	ProviderTwelveData = "twelvedata"
	ProviderYahoo      = "yahoo"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Provider   string            `yaml:"provider"`
	TwelveData twelvedata.Config `yaml:"twelvedata"`
	Yahoo      yahoo.Config      `yaml:"yahoo"`
	Symbols    struct {
		NasdaqListed string `yaml:"nasdaq_listed"`
		OtherListed  string `yaml:"other_listed"`
	} `yaml:"symbols"`
	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
	} `yaml:"rate_limit"`
	Fetch struct {
		Concurrency int `yaml:"concurrency"`
	} `yaml:"fetch"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Password string `yaml:"password"`
	} `yaml:"redis"`
}

// Default returns the configuration used when neither file nor environment sets a value.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8002"
	cfg.Provider = ProviderTwelveData
	cfg.TwelveData = twelvedata.DefaultConfig()
	cfg.Yahoo = yahoo.DefaultConfig()
	cfg.Symbols.NasdaqListed = "nasdaq_listed.psv"
	cfg.Symbols.OtherListed = "other_listed.psv"
	cfg.Fetch.Concurrency = 1
	return cfg
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	setString(&cfg.Server.Addr, "SERVER_ADDR")
	setString(&cfg.Provider, "MARKET_PROVIDER")
	setString(&cfg.TwelveData.APIKey, "TWELVE_DATA_API_KEY")
	setString(&cfg.TwelveData.BaseURL, "TWELVE_DATA_BASE_URL")
	setString(&cfg.Yahoo.BaseURL, "YAHOO_BASE_URL")
	setString(&cfg.Symbols.NasdaqListed, "NASDAQ_LISTED_FILE")
	setString(&cfg.Symbols.OtherListed, "OTHER_LISTED_FILE")
	setString(&cfg.Redis.Host, "REDIS_HOST")
	setString(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if err := setInt(&cfg.RateLimit.PerMinute, "RATE_LIMIT_PER_MINUTE"); err != nil {
		return nil, err
	}
	if err := setInt(&cfg.Fetch.Concurrency, "FETCH_CONCURRENCY"); err != nil {
		return nil, err
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderTwelveData, ProviderYahoo:
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("config: fetch.concurrency must be >= 1, got %d", c.Fetch.Concurrency)
	}
	return nil
}

// RedisEnabled reports whether a Redis host is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}
