// Package config loads and validates the environment configuration.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Config holds everything the sync needs from the environment. Both API
// credentials and the collection ID are required; a run must not start
// without them.
type Config struct {
	LegiScanAPIKey string `validate:"required"`
	WebflowToken   string `validate:"required"`
	CollectionID   string `validate:"required"`
	AllowedOrigin  string
	Port           string
}

// Load reads configuration from environment variables and validates it.
// Missing required credentials are a fatal configuration error, reported
// before any record is processed.
func Load() (*Config, error) {
	cfg := &Config{
		LegiScanAPIKey: os.Getenv("LEGISCAN_API_KEY"),
		WebflowToken:   os.Getenv("WEBFLOW_TOKEN"),
		CollectionID:   os.Getenv("WEBFLOW_COLLECTION_ID"),
		AllowedOrigin:  os.Getenv("ALLOWED_ORIGIN"),
		Port:           os.Getenv("PORT"),
	}

	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
