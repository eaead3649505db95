// Package database opens the gorm connection used by the repositories.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog/internal/platform/observability"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver string
	DSN    string
	// SlowThreshold marks queries logged at warn level. Defaults to 200ms.
	SlowThreshold time.Duration
}

// Open connects with the configured driver, routes gorm's logging through
// log and registers tracing and Server-Timing callbacks as obs allows.
func Open(cfg Config, log *slog.Logger, obs *observability.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.Discard
	if log != nil {
		threshold := cfg.SlowThreshold
		if threshold == 0 {
			threshold = 200 * time.Millisecond
		}
		gormLogger = logger.NewSlogLogger(log, logger.Config{
			SlowThreshold:             threshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	if isMemorySQLite(cfg) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// every pooled connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}

	if err := observability.RegisterGORMCallbacks(db, obs); err != nil {
		return nil, fmt.Errorf("register tracing callbacks: %w", err)
	}
	if obs.ServerTimingEnabled() {
		if err := observability.RegisterServerTimingCallbacks(db); err != nil {
			return nil, fmt.Errorf("register server timing callbacks: %w", err)
		}
	}
	return db, nil
}

func dialectorFor(cfg Config) (gorm.Dialector, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	switch cfg.Driver {
	case DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	case DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func isMemorySQLite(cfg Config) bool {
	return cfg.Driver == DriverSQLite && strings.Contains(cfg.DSN, ":memory:")
}

// Ping checks the underlying connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
