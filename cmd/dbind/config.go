package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/calumari/dbind"
)

// config holds optional overrides read from the environment. With nothing set
// the defaults reproduce the plain three-argument behavior.
type config struct {
	Strategy    dbind.Strategy `env:"DBIND_STRATEGY" envDefault:"flat"`
	Marker      string         `env:"DBIND_MARKER" envDefault:"d"`
	StripMarker bool           `env:"DBIND_STRIP_MARKER" envDefault:"false"`
	Root        string         `env:"DBIND_ROOT"`
	LogLevel    slog.Level     `env:"DBIND_LOG_LEVEL" envDefault:"info"`
}

// loadDotenv loads a .env file from the working directory when one exists.
// Variables already set in the environment take precedence.
func loadDotenv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// loadConfig parses the configuration from environ, or from the process
// environment when environ is nil.
func loadConfig(environ map[string]string) (config, error) {
	var cfg config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c config) binder() (*dbind.Binder, error) {
	return dbind.New(
		dbind.WithStrategy(c.Strategy),
		dbind.WithMarker(c.Marker),
		dbind.WithStripMarker(c.StripMarker),
		dbind.WithRoot(c.Root),
	)
}
