package repository

import (
	"time"

	"github.com/okian/careertrack/pkg/logger"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Option applies a configuration option to Open.
type Option func(*options)

type options struct {
	driver          string
	dsn             string
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	slowQuery       time.Duration
	log             logger.Logger
}

func defaultOptions() options {
	return options{
		driver:          DriverSQLite,
		dsn:             "file::memory:",
		maxOpenConns:    10,
		maxIdleConns:    5,
		connMaxLifetime: 5 * time.Minute,
		slowQuery:       200 * time.Millisecond,
	}
}

// WithDriver selects "postgres" or "sqlite".
func WithDriver(driver string) Option {
	return func(o *options) {
		if driver != "" {
			o.driver = driver
		}
	}
}

// WithDSN sets the driver-specific data source name.
func WithDSN(dsn string) Option {
	return func(o *options) {
		if dsn != "" {
			o.dsn = dsn
		}
	}
}

// WithPool sizes the connection pool. SQLite always uses one connection.
func WithPool(maxOpen, maxIdle int, maxLifetime time.Duration) Option {
	return func(o *options) {
		if maxOpen > 0 {
			o.maxOpenConns = maxOpen
		}
		if maxIdle >= 0 {
			o.maxIdleConns = maxIdle
		}
		if maxLifetime > 0 {
			o.connMaxLifetime = maxLifetime
		}
	}
}

// WithSlowQueryThreshold sets the duration above which queries log a warning.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.slowQuery = d
		}
	}
}

// WithLogger routes SQL logging to l.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
