// Package config provides configuration management for brewops.
// Configurations are loaded from TOML files with XDG-compliant paths.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Config holds the complete application configuration.
type Config struct {
	Brewery  BreweryConfig  `toml:"brewery"`
	Display  DisplayConfig  `toml:"display"`
	Logging  LoggingConfig  `toml:"logging"`
	Database DatabaseConfig `toml:"database"`
	API      APIConfig      `toml:"api"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// MaxJournalWindow is the largest journal page the ledger serves.
const MaxJournalWindow = 100

// BreweryConfig selects the tenant and the acting user of this process.
type BreweryConfig struct {
	Name          string `toml:"name"`
	User          string `toml:"user"`
	DefaultUnit   string `toml:"default_unit"`
	JournalWindow int    `toml:"journal_window"`
}

// DisplayConfig controls TUI appearance.
type DisplayConfig struct {
	Theme      Theme  `toml:"theme"`
	DateFormat string `toml:"date_format"`
	TimeFormat string `toml:"time_format"`
}

// Theme defines the terminal color palette.
type Theme string

const (
	ThemeAmber Theme = "amber"
	ThemeGreen Theme = "green"
)

// LoggingConfig controls application logging.
type LoggingConfig struct {
	Level LogLevel `toml:"level"`
	File  string   `toml:"file"`
}

// LogLevel defines logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// DatabaseConfig controls SQLite database settings.
type DatabaseConfig struct {
	Path                string `toml:"path"`
	BackupOnStart       bool   `toml:"backup_on_start"`
	BackupIntervalHours int    `toml:"backup_interval_hours"`
	BackupRetentionDays int    `toml:"backup_retention_days"`
}

// APIConfig controls the HTTP tool bridge.
type APIConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

// MetricsConfig controls the Prometheus endpoint served by the API.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Brewery.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("brewery: %w", err))
	}

	if err := c.Display.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}

	if err := c.API.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("api: %w", err))
	}

	if err := c.Metrics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks that the brewery configuration is valid.
func (b *BreweryConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(b.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}

	if strings.TrimSpace(b.User) == "" {
		errs = append(errs, errors.New("user is required"))
	}

	if b.JournalWindow < 0 || b.JournalWindow > MaxJournalWindow {
		errs = append(errs, fmt.Errorf("journal_window must be between 0 and %d", MaxJournalWindow))
	}

	return errors.Join(errs...)
}

// Validate checks that the display configuration is valid.
func (d *DisplayConfig) Validate() error {
	switch d.Theme {
	case "", ThemeAmber, ThemeGreen:
		return nil
	}
	return fmt.Errorf("invalid theme: %s", d.Theme)
}

// Validate checks that the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	switch l.Level {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	}
	return fmt.Errorf("invalid log level: %s", l.Level)
}

// Validate checks that the database configuration is valid.
func (d *DatabaseConfig) Validate() error {
	var errs []error

	if d.Path == "" {
		errs = append(errs, errors.New("path is required"))
	}

	if d.BackupIntervalHours < 0 {
		errs = append(errs, errors.New("backup_interval_hours must be non-negative"))
	}

	if d.BackupRetentionDays < 0 {
		errs = append(errs, errors.New("backup_retention_days must be non-negative"))
	}

	return errors.Join(errs...)
}

// Validate checks that the API configuration is valid.
func (a *APIConfig) Validate() error {
	if !a.Enabled {
		return nil
	}
	if a.Listen == "" {
		return errors.New("listen is required when the api is enabled")
	}
	if _, _, err := net.SplitHostPort(a.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", a.Listen, err)
	}
	return nil
}

// Validate checks that the metrics configuration is valid.
func (m *MetricsConfig) Validate() error {
	if m.Enabled && !strings.HasPrefix(m.Path, "/") {
		return fmt.Errorf("path must start with /: %q", m.Path)
	}
	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Brewery: BreweryConfig{
			Name:          "Моя пивоварня",
			User:          "admin",
			DefaultUnit:   "кг",
			JournalWindow: 50,
		},
		Display: DisplayConfig{
			Theme:      ThemeAmber,
			DateFormat: "2006-01-02",
			TimeFormat: "15:04:05",
		},
		Logging: LoggingConfig{
			Level: LogLevelInfo,
			File:  "logs/brewops.log",
		},
		Database: DatabaseConfig{
			Path:                "brewops.db",
			BackupOnStart:       false,
			BackupIntervalHours: 24,
			BackupRetentionDays: 30,
		},
		API: APIConfig{
			Enabled: false,
			Listen:  "127.0.0.1:8088",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
