// Package config loads the formedit command configuration from the
// environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/goliatone/go-formedit/pkg/persist"
)

// Config holds the settings shared by every formedit command. Flags override
// the values parsed here.
type Config struct {
	DBPath       string        `env:"FORMEDIT_DB"            envDefault:"formedit.db"`
	KeyPrefix    string        `env:"FORMEDIT_KEY_PREFIX"    envDefault:"dntel-form-"`
	LegacyPrefix string        `env:"FORMEDIT_LEGACY_PREFIX" envDefault:"form-"`
	LogLevel     string        `env:"FORMEDIT_LOG_LEVEL"     envDefault:"warn"`
	StrictIDs    bool          `env:"FORMEDIT_STRICT_IDS"    envDefault:"false"`
	HTTPTimeout  time.Duration `env:"FORMEDIT_HTTP_TIMEOUT"  envDefault:"10s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses a Config from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = persist.DefaultKeyPrefix
	}
	return cfg, nil
}

// BridgeOptions translates the key settings into bridge options.
func (c Config) BridgeOptions() []persist.Option {
	return []persist.Option{
		persist.WithKeyPrefix(c.KeyPrefix),
		persist.WithLegacyPrefix(c.LegacyPrefix),
	}
}
