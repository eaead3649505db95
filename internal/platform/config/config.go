package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	ServerTiming    bool
}

// Database selects the gorm dialector and connection.
type Database struct {
	Driver      string
	DSN         string
	AutoMigrate bool
	Seed        bool
	// Tracing adds a span per SQL statement.
	Tracing bool
}

// Corona configures the statistics API client.
type Corona struct {
	BaseURL        string
	Timeout        time.Duration
	DefaultCountry string
}

// Log configures the process logger.
type Log struct {
	Level  slog.Level
	Format string
}

// Config is the full process configuration.
type Config struct {
	Server   Server
	Database Database
	Corona   Corona
	Log      Log
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	return Load(os.Getenv)
}

// Load builds a Config from getenv. Unset variables take their defaults;
// malformed ones are reported.
func Load(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var cfg Config
	var err error

	cfg.Server.Addr = env("CATALOG_ADDR", ":8080")
	if cfg.Server.ShutdownTimeout, err = duration(env("CATALOG_SHUTDOWN_TIMEOUT", "10s"), "CATALOG_SHUTDOWN_TIMEOUT"); err != nil {
		return Config{}, err
	}
	if cfg.Server.ServerTiming, err = boolean(env("CATALOG_SERVER_TIMING", "false"), "CATALOG_SERVER_TIMING"); err != nil {
		return Config{}, err
	}

	cfg.Database.Driver = strings.ToLower(env("CATALOG_DB_DRIVER", DriverSQLite))
	switch cfg.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return Config{}, fmt.Errorf("CATALOG_DB_DRIVER: unsupported driver %q", cfg.Database.Driver)
	}
	cfg.Database.DSN = env("CATALOG_DB_DSN", "file:catalog.db?cache=shared")
	if cfg.Database.AutoMigrate, err = boolean(env("CATALOG_DB_AUTOMIGRATE", "true"), "CATALOG_DB_AUTOMIGRATE"); err != nil {
		return Config{}, err
	}
	if cfg.Database.Seed, err = boolean(env("CATALOG_DB_SEED", "false"), "CATALOG_DB_SEED"); err != nil {
		return Config{}, err
	}
	if cfg.Database.Tracing, err = boolean(env("CATALOG_DB_TRACING", "false"), "CATALOG_DB_TRACING"); err != nil {
		return Config{}, err
	}

	cfg.Corona.BaseURL = env("CORONA_BASE_URL", "https://corona.lmao.ninja/v2")
	cfg.Corona.DefaultCountry = env("CORONA_DEFAULT_COUNTRY", "Denmark")
	if raw := env("CORONA_TIMEOUT", ""); raw != "" {
		if cfg.Corona.Timeout, err = duration(raw, "CORONA_TIMEOUT"); err != nil {
			return Config{}, err
		}
	}

	if err = cfg.Log.Level.UnmarshalText([]byte(env("CATALOG_LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("CATALOG_LOG_LEVEL: %w", err)
	}
	cfg.Log.Format = strings.ToLower(env("CATALOG_LOG_FORMAT", "json"))
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return Config{}, fmt.Errorf("CATALOG_LOG_FORMAT: unsupported format %q", cfg.Log.Format)
	}

	return cfg, nil
}

func duration(raw, key string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

func boolean(raw, key string) (bool, error) {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
