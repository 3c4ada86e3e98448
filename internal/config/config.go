// Package config loads tzserve settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the tzserve settings, populated by Load from
// TZSERVE_* environment variables.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `envconfig:"ADDR" default:":8080"`

	// LogLevel controls the minimum log level: trace, debug, info,
	// warn or error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// ZoneDir pins zone lookups to a single directory. When empty,
	// $TZDIR and the platform zoneinfo directories are searched.
	ZoneDir string `envconfig:"ZONE_DIR"`

	// WatchZones drops the zone cache whenever a watched zone
	// directory changes, so an updated tzdata package takes effect
	// without a restart.
	WatchZones bool `envconfig:"WATCH_ZONES"`

	// BundleURL names a mirror of compiled zone bundles. When set,
	// the bundle at BundlePath is fetched at startup and its zones
	// seed the cache.
	BundleURL string `envconfig:"BUNDLE_URL"`

	// BundlePath is the bundle path below BundleURL.
	BundlePath string `envconfig:"BUNDLE_PATH" default:"tzdata-latest.tar.gz"`

	// ShutdownGrace bounds how long in-flight requests get to
	// finish after a termination signal.
	ShutdownGrace time.Duration `envconfig:"SHUTDOWN_GRACE" default:"15s"`
}

// Load reads a .env file when one is present, then processes the
// TZSERVE_* environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("TZSERVE", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}
