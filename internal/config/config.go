// Package config provides configuration management for the Spreadline pipeline.
package config

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	OddsAPI   OddsAPIConfig   `mapstructure:"odds_api" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// OddsAPIConfig represents The Odds API provider configuration
type OddsAPIConfig struct {
	BaseURL          string  `mapstructure:"base_url" validate:"required,url"`
	APIKey           string  `mapstructure:"api_key" validate:"required"`
	Sport            string  `mapstructure:"sport" validate:"required"`
	Region           string  `mapstructure:"region" validate:"required"`
	PrimaryBookmaker string  `mapstructure:"primary_bookmaker"`
	ScoresDaysFrom   int     `mapstructure:"scores_days_from" validate:"gte=1,lte=3"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries       int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit        float64 `mapstructure:"rate_limit" validate:"gt=0"`
}

// SchedulerConfig represents the fixed local-time job triggers.
// Cron specs fire in the configured time zone, not UTC.
type SchedulerConfig struct {
	Timezone       string   `mapstructure:"timezone" validate:"required,timezone"`
	OddsFetchCrons []string `mapstructure:"odds_fetch_crons" validate:"required,min=1,dive,cronspec"`
	ScoreSyncCrons []string `mapstructure:"score_sync_crons" validate:"required,min=1,dive,cronspec"`
}

// CacheConfig represents aggregate cache configuration
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxEntries int `mapstructure:"max_entries" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    string `mapstructure:"port"`
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
