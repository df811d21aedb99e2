package config

import (
	"log/slog"
	"strings"
)

// StatsDConfig controls emission of auth metrics to a StatsD sink.
type StatsDConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Address string `env:"ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix  string `env:"PREFIX"  envDefault:"console"`
}

// Sanitize disables emission when no address is configured.
func (c *StatsDConfig) Sanitize() {
	c.Address = strings.TrimSpace(c.Address)
	c.Prefix = strings.TrimSpace(c.Prefix)
	if c.Address == "" {
		c.Enabled = false
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *StatsDConfig) IsEnabled() bool {
	return c.Enabled && c.Address != ""
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// Sanitize normalises the level name; unknown names fall back to info.
func (c *LogConfig) Sanitize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Level = "info"
	}
}

// SlogLevel maps the configured level to a slog.Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
