// Package config loads server configuration from file, environment and
// flags.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Config holds everything the server and CLI need to run.
type Config struct {
	// Host is the bind address; empty means all interfaces.
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// DatabasePath is the SQLite file, or ":memory:".
	DatabasePath string `koanf:"database_path"`

	// DefaultAlias handles queries whose first word matches no alias.
	DefaultAlias string `koanf:"default_alias"`

	// SeedsFile optionally points at a YAML file of global bookmarks. The
	// server imports it at startup and re-imports on change.
	SeedsFile string `koanf:"seeds_file"`

	// SessionSecret signs session cookies. Generated per process when
	// empty, which invalidates sessions across restarts.
	SessionSecret string `koanf:"session_secret"`

	LogLevel string `koanf:"log_level"`
}

// Addr returns the host:port to listen on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Logger builds a text logger at the configured level. Unknown levels fall
// back to info.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	return nil
}
