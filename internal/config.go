package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/time/rate"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Scheduler SchedulerConfig   `yaml:"scheduler"`
	Export    ExportConfig      `yaml:"export"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Scheduler.Validate(); err != nil {
		return err
	}
	return c.Export.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel    slog.Level      `yaml:"log_level"`
	LogFile     LogFileConfig   `yaml:"log_file"`
	HTTP        HTTPConfig      `yaml:"http"`
	CORSOrigins []string        `yaml:"cors_origins"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.LogFile.Validate(); err != nil {
		return err
	}
	return c.RateLimit.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// LogFileConfig enables an additional rotated JSON log file. An empty Path
// keeps logging on stdout only.
type LogFileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Validate validates the log file configuration.
func (c *LogFileConfig) Validate() error {
	if c.Path == "" {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxSizeMB, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxBackups, validation.Min(0)),
		validation.Field(&c.MaxAgeDays, validation.Min(0)),
	)
}

// RateLimitConfig throttles check-ins and notification generation. A zero
// RPS disables limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Validate validates the rate limit configuration.
func (c *RateLimitConfig) Validate() error {
	if c.RPS < 0 {
		return errors.New("rate_limit: rps must not be negative")
	}
	if c.RPS == 0 {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Burst, validation.Required, validation.Min(1)),
	)
}

// Limiter returns the configured limiter, or nil when limiting is disabled.
func (c *RateLimitConfig) Limiter() *rate.Limiter {
	if c.RPS <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.RPS), c.Burst)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SchedulerConfig controls the periodic reminder and at-risk generation.
type SchedulerConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// Validate validates the scheduler configuration.
func (c *SchedulerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Interval, validation.Required, validation.Min(time.Minute)),
	)
}

// ExportConfig holds where data exports are written. Keep bounds how many
// archives are retained; zero keeps all of them.
type ExportConfig struct {
	Dir  string `yaml:"dir"`
	Keep int    `yaml:"keep"`
}

// Validate validates the export configuration.
func (c *ExportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Keep, validation.Min(0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			LogFile: LogFileConfig{
				MaxSizeMB:  10,
				MaxBackups: 3,
				MaxAgeDays: 28,
			},
			HTTP: HTTPConfig{
				Port: 51731,
			},
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://127.0.0.1:5173",
				"http://localhost:51731",
				"http://127.0.0.1:51731",
				"app://.",
				"file://",
			},
			RateLimit: RateLimitConfig{
				RPS:   5,
				Burst: 10,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./lifeflow.db",
		},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Interval: time.Hour,
		},
		Export: ExportConfig{
			Dir:  "./exports",
			Keep: 20,
		},
	}
}
