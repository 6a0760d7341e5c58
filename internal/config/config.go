package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration. All of it is
// optional tuning; the five secrets live in the environment, not here.
type Config struct {
	Version  string         `yaml:"version"`
	Sync     SyncConfig     `yaml:"sync"`
	Token    TokenConfig    `yaml:"token"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// SyncConfig contains sync window configuration.
type SyncConfig struct {
	// WindowDays is the trailing window size including today.
	// Default: 7
	WindowDays int `yaml:"window_days"`
}

// TokenConfig contains token refresh retry configuration.
type TokenConfig struct {
	// RetryAttempts is the total number of refresh attempts for transient
	// failures. Permanent failures never retry. Default: 3
	RetryAttempts int `yaml:"retry_attempts"`
	// RetryDelay is the fixed delay between refresh attempts.
	// Default: 5s
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// HTTPConfig contains HTTP client configuration.
type HTTPConfig struct {
	// Timeout bounds every outbound request. Default: 20s
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig contains run-metrics configuration. A batch job cannot be
// scraped, so metrics are pushed once per run when a gateway is configured.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	JobName        string `yaml:"job_name"`
}

// TelegramConfig contains the optional end-of-run notification settings.
type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// Validate validates the configuration and applies defaults.
func (c *Config) Validate() error {
	if c.Sync.WindowDays == 0 {
		c.Sync.WindowDays = 7
	}
	if c.Sync.WindowDays < 1 {
		return fmt.Errorf("sync: window_days must be at least 1")
	}

	if c.Token.RetryAttempts == 0 {
		c.Token.RetryAttempts = 3
	}
	if c.Token.RetryAttempts < 1 {
		return fmt.Errorf("token: retry_attempts must be at least 1")
	}
	if c.Token.RetryDelay == 0 {
		c.Token.RetryDelay = 5 * time.Second
	}
	if c.Token.RetryDelay < 0 {
		return fmt.Errorf("token: retry_delay cannot be negative")
	}

	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 20 * time.Second
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http: timeout cannot be negative")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: level must be one of: debug, info, warn, error")
	}

	if c.Metrics.JobName == "" {
		c.Metrics.JobName = "fitsync"
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram: bot_token is required when enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram: chat_id is required when enabled")
		}
	}

	return nil
}
