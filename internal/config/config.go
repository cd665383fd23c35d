// Package config parses service configuration and the league data file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/utakatalp/league-projections/internal/montecarlo"
)

// Config holds server configuration.
type Config struct {
	Addr        string        `env:"LEAGUE_HTTP_ADDR" envDefault:":8080"`
	DBDriver    string        `env:"LEAGUE_DB_DRIVER" envDefault:"memory"`
	SQLiteFile  string        `env:"LEAGUE_SQLITE_FILE" envDefault:"league.db"`
	PostgresDSN string        `env:"LEAGUE_POSTGRES_DSN"`
	DataFile    string        `env:"LEAGUE_DATA_FILE"`
	NumSims     int           `env:"LEAGUE_NUM_SIMS" envDefault:"2000"`
	Debounce    time.Duration `env:"LEAGUE_DEBOUNCE" envDefault:"150ms"`
	Seed        int64         `env:"LEAGUE_SEED" envDefault:"0"`
	TopN        int           `env:"LEAGUE_TOP_N" envDefault:"4"`
	QualifyN    int           `env:"LEAGUE_QUALIFY_N" envDefault:"8"`
	BottomN     int           `env:"LEAGUE_BOTTOM_N" envDefault:"3"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Parse parses environment and flags into a Config.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "Snapshot store: memory, sqlite or postgres")
	fs.StringVar(&cfg.SQLiteFile, "sqlite-file", cfg.SQLiteFile, "SQLite database path")
	fs.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "Postgres connection string")
	fs.StringVar(&cfg.DataFile, "data", cfg.DataFile, "Teams and fixtures file (.yaml, .yml or .json)")
	fs.IntVar(&cfg.NumSims, "sims", cfg.NumSims, "Monte Carlo iterations per projection")
	fs.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "Quiet period before recomputing projections")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Sampler seed, 0 seeds from the clock")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.NumSims <= 0 {
		errs = append(errs, fmt.Errorf("num sims must be positive, got %d", c.NumSims))
	}
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce must not be negative, got %s", c.Debounce))
	}
	if c.TopN <= 0 || c.QualifyN <= 0 || c.BottomN <= 0 {
		errs = append(errs, fmt.Errorf("thresholds must be positive, got top=%d qualify=%d bottom=%d", c.TopN, c.QualifyN, c.BottomN))
	}
	return errors.Join(errs...)
}

// Thresholds returns the projection cut-offs.
func (c Config) Thresholds() montecarlo.Thresholds {
	return montecarlo.Thresholds{Top: c.TopN, Qualify: c.QualifyN, Bottom: c.BottomN}
}
