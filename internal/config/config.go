package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/agora/internal/domain"
	"github.com/caarlos0/env/v11"
)

// ColorMode controls styled terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config holds process-wide settings read from AGORA_* environment variables.
type Config struct {
	DBPath         string                `env:"AGORA_DB"`
	CreationPolicy domain.CreationPolicy `env:"AGORA_CREATION_POLICY" envDefault:"token"`
	Admins         []string              `env:"AGORA_ADMINS" envSeparator:","`

	LogLevel    string `env:"AGORA_LOG_LEVEL" envDefault:"warn"`
	LogUseCases bool   `env:"AGORA_LOG_USE_CASES"`

	OTelEnabled  bool   `env:"AGORA_OTEL_ENABLED" envDefault:"true"`
	OTelEndpoint string `env:"AGORA_OTEL_ENDPOINT"`

	// Governance parameters applied when a root DAO is created without
	// explicit values.
	DefaultQuorum       uint64        `env:"AGORA_DEFAULT_QUORUM" envDefault:"1"`
	DefaultVotingDelay  time.Duration `env:"AGORA_DEFAULT_VOTING_DELAY" envDefault:"24h"`
	DefaultVotingPeriod time.Duration `env:"AGORA_DEFAULT_VOTING_PERIOD" envDefault:"72h"`

	Color ColorMode `env:"AGORA_COLOR" envDefault:"auto"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment, fills derived defaults and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".agora", "agora.db")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.CreationPolicy {
	case domain.CreationByToken, domain.CreationByAdmin:
	default:
		return fmt.Errorf("AGORA_CREATION_POLICY: unknown policy %q", c.CreationPolicy)
	}
	if c.CreationPolicy == domain.CreationByAdmin && len(c.Admins) == 0 {
		return fmt.Errorf("AGORA_ADMINS: admin creation policy needs at least one admin")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("AGORA_COLOR: expected auto, always or never, got %q", c.Color)
	}
	if c.DefaultVotingPeriod <= 0 {
		return fmt.Errorf("AGORA_DEFAULT_VOTING_PERIOD: must be positive")
	}
	if c.DefaultVotingDelay < 0 {
		return fmt.Errorf("AGORA_DEFAULT_VOTING_DELAY: must not be negative")
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("AGORA_LOG_LEVEL: %w", err)
	}
	return level, nil
}
