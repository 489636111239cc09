// Package config provides YAML-based configuration loading for kcalbot.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level kcalbot configuration, loaded from kcalbot.yaml.
type Config struct {
	Platform          string          `yaml:"platform"` // "discord" or "slack"
	Discord           DiscordConfig   `yaml:"discord"`
	Slack             SlackConfig     `yaml:"slack"`
	Storage           StorageConfig   `yaml:"storage"`
	SessionTTLMinutes int             `yaml:"session_ttl_minutes"` // -1 disables expiry, 0 means default
	Digest            DigestConfig    `yaml:"digest"`
	Dashboard         DashboardConfig `yaml:"dashboard"`
}

// DiscordConfig holds Discord gateway credentials.
type DiscordConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"` // default channel for digests
}

// SlackConfig holds Slack Socket Mode credentials.
type SlackConfig struct {
	AppToken  string `yaml:"app_token"` // xapp-...
	BotToken  string `yaml:"bot_token"` // xoxb-...
	ChannelID string `yaml:"channel_id"`
}

// StorageConfig selects and configures the entry store backend.
type StorageConfig struct {
	Driver   string `yaml:"driver"` // "sqlite" (default) or "mysql"
	Path     string `yaml:"path"`   // sqlite file path
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// DigestConfig controls the scheduled daily summary post.
type DigestConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"` // 5-field cron expression
}

// DashboardConfig holds the read-only web dashboard settings.
type DashboardConfig struct {
	Port int `yaml:"port"`
}

// SessionTTL returns the dialogue session time-to-live, or 0 when expiry
// is disabled (session_ttl_minutes: -1).
func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLMinutes < 0 {
		return 0
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		c.Storage.Path = "kcalbot.db"
	}
	if c.Storage.Driver == "mysql" {
		if c.Storage.Host == "" {
			c.Storage.Host = "127.0.0.1"
		}
		if c.Storage.Port == 0 {
			c.Storage.Port = 3306
		}
		if c.Storage.Database == "" {
			c.Storage.Database = "kcalbot"
		}
		if c.Storage.User == "" {
			c.Storage.User = "root"
		}
	}
	if c.SessionTTLMinutes == 0 {
		c.SessionTTLMinutes = 30
	}
	if c.Digest.Cron == "" {
		c.Digest.Cron = "0 9 * * *"
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
}

// validate checks that all configured sections are consistent. Platform is
// only required when starting the bot, so it is checked there; here we only
// verify that a configured platform carries its credentials.
func (c *Config) validate() error {
	var errs []string
	switch c.Storage.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("storage.driver %q is not supported (sqlite, mysql)", c.Storage.Driver))
	}
	switch c.Platform {
	case "":
	case "discord":
		if c.Discord.BotToken == "" {
			errs = append(errs, "discord.bot_token is required for platform discord")
		}
	case "slack":
		if c.Slack.BotToken == "" {
			errs = append(errs, "slack.bot_token is required for platform slack")
		}
		if c.Slack.AppToken == "" {
			errs = append(errs, "slack.app_token is required for platform slack")
		}
	default:
		errs = append(errs, fmt.Sprintf("platform %q is not supported (discord, slack)", c.Platform))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
