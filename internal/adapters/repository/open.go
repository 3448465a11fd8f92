package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/pkg/logger"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Open connects to the configured database and returns a GormStore.
// The schema is not touched; call Migrate for that.
func Open(ctx context.Context, opts ...Option) (*GormStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get().Named("store")
	}

	var dialector gorm.Dialector
	switch o.driver {
	case DriverPostgres:
		dialector = postgres.Open(o.dsn)
	case DriverSQLite:
		db, err := openSQLite(o.dsn)
		if err != nil {
			return nil, err
		}
		dialector = sqlite.New(sqlite.Config{DriverName: "sqlite", Conn: db})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newSQLLogger(o.log, o.slowQuery),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStore, o.driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: pool: %w", ErrStore, err)
	}
	if o.driver == DriverPostgres {
		sqlDB.SetMaxOpenConns(o.maxOpenConns)
		sqlDB.SetMaxIdleConns(o.maxIdleConns)
		sqlDB.SetConnMaxLifetime(o.connMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrStore, o.driver, err)
	}

	o.log.Info(ctx, "store opened", logger.String("driver", o.driver))
	return &GormStore{db: db, log: o.log, driver: o.driver}, nil
}

// openSQLite opens a single-connection pool so the pragmas stick and
// writers serialize.
func openSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", ErrStore, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrStore, p, err)
		}
	}
	return db, nil
}

// Migrate creates or updates the plan, task and reward tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&model.CareerPlan{},
		&model.CareerTask{},
		&model.CareerReward{},
	)
	if err != nil {
		return fmt.Errorf("%w: migrate: %w", ErrStore, err)
	}
	s.log.Info(ctx, "schema migrated")
	return nil
}
