package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"production"`

	AlphaVantageKey  string `env:"ALPHA_VANTAGE_KEY"`
	FirestoreProject string `env:"FIRESTORE_PROJECT_ID" envDefault:"portfolio-growth"`

	CacheTTL             time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	MaxConcurrentFetches int           `env:"MAX_CONCURRENT_FETCHES" envDefault:"10"`

	// RateWindowYears is the price-history window used to annualize
	// trailing returns for rate presets.
	RateWindowYears int `env:"RATE_WINDOW_YEARS" envDefault:"5"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.RateWindowYears < 1 {
		return nil, fmt.Errorf("RATE_WINDOW_YEARS must be at least 1, got %d", cfg.RateWindowYears)
	}
	return cfg, nil
}
