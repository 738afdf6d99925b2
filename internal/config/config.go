// Package config loads process configuration from the environment, with an
// optional .env file for local development — the same pairing the rest of
// the retrieval pack's services use (caarlos0/env plus godotenv).
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every process-level setting for cmd/clobd. Fields map to
// §6's external interface configuration plus ordinary process concerns.
type Config struct {
	// ListenAddr is the address cmd/clobd's HTTP server listens on; it serves
	// internal/feed's websocket hub and the order and depth endpoints.
	ListenAddr string `env:"CLOB_LISTEN_ADDR" envDefault:":8080"`

	// Symbols is the whitelist of symbols the Venue registers at startup.
	// Empty means no symbols are pre-registered.
	Symbols []string `env:"CLOB_SYMBOLS" envSeparator:","`

	// MaxLevelsPerDepth bounds how many price levels a Depth snapshot
	// returns per side (§6). Zero means unlimited.
	MaxLevelsPerDepth int `env:"CLOB_MAX_LEVELS_PER_DEPTH" envDefault:"50"`

	// RingBufferSize is the capacity of internal/ingress's request ring
	// buffer. Must be a power of two.
	RingBufferSize int `env:"CLOB_RING_BUFFER_SIZE" envDefault:"4096"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `env:"CLOB_LOG_LEVEL" envDefault:"info"`

	// LogDevelopment selects zap's human-readable development encoder
	// instead of the production JSON encoder.
	LogDevelopment bool `env:"CLOB_LOG_DEV" envDefault:"false"`
}

// Load reads a .env file if present (missing files are not an error, per
// godotenv's own convention) and then parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config: loading .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}
