package repository

import (
	"database/sql"
	"time"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Option applies a configuration option to the SQLStore.
type Option func(*SQLStore)

// WithDriver selects the database driver.
func WithDriver(driver string) Option {
	return func(s *SQLStore) {
		if driver != "" {
			s.driver = driver
		}
	}
}

// WithDSN sets the data source name.
func WithDSN(dsn string) Option {
	return func(s *SQLStore) {
		if dsn != "" {
			s.dsn = dsn
		}
	}
}

// WithConnectTimeout bounds how long Open retries the initial ping.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *SQLStore) {
		if d > 0 {
			s.connectTimeout = d
		}
	}
}

// WithDB uses an already opened handle instead of opening one.
func WithDB(db *sql.DB, driver string) Option {
	return func(s *SQLStore) {
		if db != nil {
			s.db = db
			s.driver = driver
		}
	}
}
