// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/fld.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// PublicURL is the externally reachable base URL used to build player
	// join links and QR codes. Falls back to the listen address when empty.
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`

	// CORSOrigins lists allowed browser origins for the console and player
	// SPAs when they are served from another host during development.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// MasterEmail/MasterPassword seed the first console login when the
	// masters table is empty.
	MasterEmail    string `env:"MASTER_EMAIL" envDefault:"master@fld.local"`
	MasterPassword string `env:"MASTER_PASSWORD" envDefault:"detective"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
