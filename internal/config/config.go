// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and the environment over those defaults.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"time"
)

// Supported values for enumerated fields.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	FormatText = "text"
	FormatJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBDriver selects the record store: sqlite or postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the driver-specific data source name.
	DBDSN string `koanf:"db_dsn"`

	// DBConnectTimeoutMS bounds the startup connection retries.
	DBConnectTimeoutMS int `koanf:"db_connect_timeout_ms"`

	// ReferencePath optionally points at a YAML baseline table; the
	// built-in table is used when empty.
	ReferencePath string `koanf:"reference_path"`

	// TrainingsPath optionally points at a YAML training catalog installed
	// into an empty store.
	TrainingsPath string `koanf:"trainings_path"`

	// CohortLimit caps the per-subject list of cohort analytics.
	CohortLimit int `koanf:"cohort_limit"`

	// AnalyticsRPS and AnalyticsBurst throttle GET /analytics. A
	// non-positive rate disables throttling.
	AnalyticsRPS   float64 `koanf:"analytics_rps"`
	AnalyticsBurst int     `koanf:"analytics_burst"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          FormatText,
		Addr:               ":9080",
		DBDriver:           DriverSQLite,
		DBDSN:              "file:fitscore.db?_pragma=busy_timeout(5000)",
		DBConnectTimeoutMS: 10_000,
		CohortLimit:        50,
		AnalyticsRPS:       10,
		AnalyticsBurst:     20,
		ShutdownTimeoutMS:  5_000,
	}
}

// ConnectTimeout returns DBConnectTimeoutMS as a duration.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.DBConnectTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres:
		return fmt.Errorf("%w: unsupported db_driver %q", ErrInvalidConfig, c.DBDriver)
	case c.DBDSN == "":
		return fmt.Errorf("%w: db_dsn must not be empty", ErrInvalidConfig)
	case c.DBConnectTimeoutMS <= 0:
		return fmt.Errorf("%w: db_connect_timeout_ms must be positive", ErrInvalidConfig)
	case c.LogFormat != FormatText && c.LogFormat != FormatJSON:
		return fmt.Errorf("%w: unsupported log_format %q", ErrInvalidConfig, c.LogFormat)
	case c.CohortLimit <= 0:
		return fmt.Errorf("%w: cohort_limit must be positive", ErrInvalidConfig)
	case c.AnalyticsRPS > 0 && c.AnalyticsBurst < 1:
		return fmt.Errorf("%w: analytics_burst must be at least 1", ErrInvalidConfig)
	case c.ShutdownTimeoutMS <= 0:
		return fmt.Errorf("%w: shutdown_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
