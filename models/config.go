// Package models holds configuration and job state for the bot.
package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"srt-translator/internal/translate"
)

// Config holds application settings, loaded from a TOML file with
// environment variable overrides for the deployment-sensitive values.
type Config struct {
	// Telegram settings
	TelegramToken string `toml:"telegram_token"`
	WebhookURL    string `toml:"webhook_url"` // empty means long polling
	ListenPort    int    `toml:"listen_port"` // webhook listener port

	// Translation settings (google, openai)
	TranslationProvider string `toml:"translation_provider"`
	OpenAIKey           string `toml:"openai_key"`
	DefaultSourceLang   string `toml:"default_source_lang"`

	// Pipeline tuning
	BatchSize         int     `toml:"batch_size"`
	MaxRetries        int     `toml:"max_retries"`
	RetryDelaySeconds float64 `toml:"retry_delay_seconds"`
	PauseMinSeconds   float64 `toml:"pause_min_seconds"`
	PauseMaxSeconds   float64 `toml:"pause_max_seconds"`

	// JobTimeoutMinutes caps a single translation job.
	JobTimeoutMinutes int `toml:"job_timeout_minutes"`

	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() *Config {
	return &Config{
		ListenPort:          8443,
		TranslationProvider: "google",
		DefaultSourceLang:   "auto",
		BatchSize:           5,
		MaxRetries:          3,
		RetryDelaySeconds:   2,
		PauseMinSeconds:     0.3,
		PauseMaxSeconds:     1.5,
		JobTimeoutMinutes:   15,
		LogLevel:            "info",
	}
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "srt-translator", "config.toml")
}

// LoadConfig loads configuration from the default path.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(ConfigPath())
}

// LoadConfigFrom loads configuration from path, starting from defaults.
// A missing file is not an error; environment overrides are applied last
// so containers can run without any file at all.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.TelegramToken = token
	}
	if url := os.Getenv("WEBHOOK_URL"); url != "" {
		c.WebhookURL = url
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.ListenPort = p
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.OpenAIKey = key
	}
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("telegram bot token is required (set telegram_token or TELEGRAM_BOT_TOKEN)")
	}
	if c.TranslationProvider == "openai" && c.OpenAIKey == "" {
		return errors.New("openai provider requires an API key (set openai_key or OPENAI_API_KEY)")
	}
	return nil
}

// PipelineOptions converts the config's tuning values to pipeline options.
func (c *Config) PipelineOptions() translate.Options {
	return translate.Options{
		BatchSize:  c.BatchSize,
		MaxRetries: c.MaxRetries,
		RetryDelay: time.Duration(c.RetryDelaySeconds * float64(time.Second)),
		PauseMin:   time.Duration(c.PauseMinSeconds * float64(time.Second)),
		PauseMax:   time.Duration(c.PauseMaxSeconds * float64(time.Second)),
	}
}

// JobTimeout returns the caller-level timeout wrapping one translation job.
func (c *Config) JobTimeout() time.Duration {
	if c.JobTimeoutMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.JobTimeoutMinutes) * time.Minute
}
