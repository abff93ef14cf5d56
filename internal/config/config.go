// Package config loads app configuration from TUTORIZ_* environment
// variables. Provider API keys are discovered separately by the llm
// package.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-driven app configuration.
type Config struct {
	// DBPath overrides the database location. Empty uses the default
	// XDG data path.
	DBPath string `env:"TUTORIZ_DB"`

	// StudentName prefills the profile on new sessions.
	StudentName string `env:"TUTORIZ_STUDENT_NAME"`

	// GradeLevel prefills the profile on new sessions. 0 leaves it
	// unset.
	GradeLevel int `env:"TUTORIZ_GRADE_LEVEL" envDefault:"0"`

	// MaxDiagnostic caps diagnostic quiz length.
	MaxDiagnostic int `env:"TUTORIZ_MAX_DIAGNOSTIC" envDefault:"6"`

	// GenTimeout bounds each content-generation call.
	GenTimeout time.Duration `env:"TUTORIZ_GEN_TIMEOUT" envDefault:"45s"`

	// NoColor disables terminal styling.
	NoColor bool `env:"TUTORIZ_NO_COLOR" envDefault:"false"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.MaxDiagnostic < 1 {
		return fmt.Errorf("TUTORIZ_MAX_DIAGNOSTIC must be >= 1, got %d", c.MaxDiagnostic)
	}
	if c.GenTimeout <= 0 {
		return fmt.Errorf("TUTORIZ_GEN_TIMEOUT must be positive, got %s", c.GenTimeout)
	}
	if c.GradeLevel < 0 || c.GradeLevel > 12 {
		return fmt.Errorf("TUTORIZ_GRADE_LEVEL must be between 0 and 12, got %d", c.GradeLevel)
	}
	return nil
}
