// Package internal provides the application configuration and the
// wiring that assembles the record stores, managers and search index.
package internal

import (
	"log/slog"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Data   DataConfig        `yaml:"data"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Data.Validate(); err != nil {
		return err
	}
	return c.SQLite.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// DataConfig holds the directories backing each record kind plus the
// presentation-layer output directories.
type DataConfig struct {
	Protocols   string `yaml:"protocols"`
	Experiments string `yaml:"experiments"`
	Samples     string `yaml:"samples"`
	Templates   string `yaml:"templates"`
	Reports     string `yaml:"reports"`
}

// Validate validates the data directory configuration.
func (c *DataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Protocols, validation.Required),
		validation.Field(&c.Experiments, validation.Required),
		validation.Field(&c.Samples, validation.Required),
		validation.Field(&c.Templates, validation.Required),
		validation.Field(&c.Reports, validation.Required),
	)
}

// LedgerPath returns the shared samples ledger file inside the
// samples directory.
func (c *DataConfig) LedgerPath() string {
	return filepath.Join(c.Samples, "inventory.json")
}

// SQLiteConfig holds the search index database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Data: DataConfig{
			Protocols:   "./protocols",
			Experiments: "./experiments",
			Samples:     "./samples",
			Templates:   "./templates",
			Reports:     "./reports",
		},
		SQLite: SQLiteConfig{
			Path: "./labkit.db",
		},
	}
}
