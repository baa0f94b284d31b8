package config

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var loadDotEnv sync.Once

// Load populates cfg from environment variables according to its `env` tags.
// A .env file in the working directory is loaded once, if present, so local
// development does not need exported variables.
func Load[T any](cfg *T) error {
	loadDotEnv.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})
	if cfg == nil {
		return fmt.Errorf("config.Load: nil target")
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
