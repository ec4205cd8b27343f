package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Store backends.
const (
	StoreBackendSQLite = "sqlite"
	StoreBackendFS     = "fs"
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Store StoreConfig       `yaml:"store"`
	Notes NotesConfig       `yaml:"notes"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Notes.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel string     `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// SlogLevel converts the configured log level to a slog.Level.
// An empty level means info.
func (c *ApplicationConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
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

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig selects and locates the backing note store.
//
// Backend controls where notes are persisted:
//   - "sqlite" (default): single database file; range queries use a
//     native index scan.
//   - "fs": one file per note under a root directory; range queries
//     scan every stored date.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = StoreBackendSQLite
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(StoreBackendSQLite, StoreBackendFS)),
		validation.Field(&c.Path, validation.Required),
	)
}

// NotesConfig holds note query behavior.
type NotesConfig struct {
	WeekStartsOn string `yaml:"week_starts_on"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	// Normalise empty value to the default week start.
	if c.WeekStartsOn == "" {
		c.WeekStartsOn = "monday"
	}
	c.WeekStartsOn = strings.ToLower(c.WeekStartsOn)
	if _, ok := weekdays[c.WeekStartsOn]; !ok {
		return fmt.Errorf("notes: unknown week start day %q", c.WeekStartsOn)
	}
	return nil
}

// WeekStart returns the configured first day of the week.
func (c *NotesConfig) WeekStart() time.Weekday {
	if d, ok := weekdays[c.WeekStartsOn]; ok {
		return d
	}
	return time.Monday
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: "info",
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Backend: StoreBackendSQLite,
			Path:    "./dagbok.db",
		},
		Notes: NotesConfig{
			WeekStartsOn: "monday",
		},
	}
}
