// Package config provides configuration management for the Spreadline pipeline.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields. A missing config file is not an error; defaults plus environment
// variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SPREADLINE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "spreadline")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("odds_api.sport", "basketball_ncaab")
	v.SetDefault("odds_api.region", "us")
	v.SetDefault("odds_api.primary_bookmaker", "draftkings")
	v.SetDefault("odds_api.scores_days_from", 1)
	v.SetDefault("odds_api.timeout_seconds", 30)
	// One best-effort attempt per run; the next scheduled run is the retry.
	v.SetDefault("odds_api.max_retries", 0)
	v.SetDefault("odds_api.rate_limit", 1.0)

	v.SetDefault("scheduler.timezone", "America/New_York")
	v.SetDefault("scheduler.odds_fetch_crons", []string{
		"0 6 * * *", "0 12 * * *", "0 18 * * *", "0 23 * * *",
	})
	v.SetDefault("scheduler.score_sync_crons", []string{
		"0 1 * * *", "0 7 * * *", "0 10 * * *", "0 13 * * *",
		"0 16 * * *", "0 19 * * *", "0 22 * * *",
	})

	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.max_entries", 1000)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", "8080")
}
