// Package common provides shared utilities for Polyfolio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Polyfolio
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Clients     ClientsConfig `toml:"clients"`
	Wallet      WalletConfig  `toml:"wallet"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Polymarket PolymarketConfig `toml:"polymarket"`
}

// PolymarketConfig holds Polymarket data API configuration
type PolymarketConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
	RateLimit int    `toml:"rate_limit"` // requests per second
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *PolymarketConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// WalletConfig controls how wallet data is fetched and assembled
type WalletConfig struct {
	ActivityLimit    int    `toml:"activity_limit"`     // records requested from /activity
	RecentActivity   int    `toml:"recent_activity"`    // records kept in the normalized activity log
	LookupBatchSize  int    `toml:"lookup_batch_size"`  // market lookups issued per batch
	LookupBatchDelay string `toml:"lookup_batch_delay"` // pause between lookup batches
	LookupMarkets    bool   `toml:"lookup_markets"`     // resolve market details for ids without a title
}

// GetLookupBatchDelay parses and returns the delay between lookup batches
func (c *WalletConfig) GetLookupBatchDelay() time.Duration {
	d, err := time.ParseDuration(c.LookupBatchDelay)
	if err != nil {
		return 100 * time.Millisecond
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Clients: ClientsConfig{
			Polymarket: PolymarketConfig{
				BaseURL:   "https://data-api.polymarket.com",
				UserAgent: "Polyfolio/1.0",
				RateLimit: 10,
				Timeout:   "30s",
			},
		},
		Wallet: WalletConfig{
			ActivityLimit:    500,
			RecentActivity:   50,
			LookupBatchSize:  10,
			LookupBatchDelay: "100ms",
			LookupMarkets:    true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Outputs:  []string{"console"},
			FilePath: "./logs/polyfolio.log",
		},
	}
}

// LoadDotEnv loads variables from .env files into the process environment.
// Variables already set in the environment are never overridden and missing
// files are ignored.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	normalizeConfig(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("POLYFOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("POLYFOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("POLYFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("POLYFOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if u := os.Getenv("POLYFOLIO_DATA_API_URL"); u != "" {
		config.Clients.Polymarket.BaseURL = u
	}

	if rl := os.Getenv("POLYFOLIO_RATE_LIMIT"); rl != "" {
		if n, err := strconv.Atoi(rl); err == nil {
			config.Clients.Polymarket.RateLimit = n
		}
	}

	if bs := os.Getenv("POLYFOLIO_LOOKUP_BATCH_SIZE"); bs != "" {
		if n, err := strconv.Atoi(bs); err == nil {
			config.Wallet.LookupBatchSize = n
		}
	}
}

// normalizeConfig clamps values that would otherwise break the wallet service.
func normalizeConfig(config *Config) {
	config.Clients.Polymarket.BaseURL = strings.TrimRight(config.Clients.Polymarket.BaseURL, "/")
	if config.Clients.Polymarket.RateLimit <= 0 {
		config.Clients.Polymarket.RateLimit = 10
	}
	if config.Wallet.ActivityLimit <= 0 || config.Wallet.ActivityLimit > 1000 {
		config.Wallet.ActivityLimit = 500
	}
	if config.Wallet.RecentActivity <= 0 {
		config.Wallet.RecentActivity = 50
	}
	if config.Wallet.LookupBatchSize <= 0 {
		config.Wallet.LookupBatchSize = 10
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
