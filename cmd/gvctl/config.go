package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	APIURL        string        `env:"API_URL" envDefault:"http://localhost:8080"`
	SessionFile   string        `env:"SESSION_FILE"`
	SessionWindow time.Duration `env:"SESSION_WINDOW" envDefault:"5m"`
	CheckInterval time.Duration `env:"CHECK_INTERVAL" envDefault:"60s"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
}

// loadConfig reads GVCTL_* variables. A .env file in the working directory,
// when present, is loaded first and never overrides the real environment.
func loadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "GVCTL_"}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve session file: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, "gvctl", "session.json")
	}

	return &cfg, nil
}
