package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds flag defaults taken from the environment. Command-line
// flags override them.
type EnvConfig struct {
	Format  string `env:"ITEMMETA_FORMAT" envDefault:"text"`
	Verbose bool   `env:"ITEMMETA_VERBOSE"`
}

// ParseEnvConfig loads EnvConfig from environment variables.
func ParseEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{Format: "text"}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
