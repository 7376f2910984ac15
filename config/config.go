package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the structfe tools
type Config struct {
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Loader
	PartitionSize  int    `yaml:"partition_size" validate:"gte=1"`            // Elements resolved per worker
	Strategy       string `yaml:"strategy" validate:"oneof=block roundrobin"` // Partitioning strategy
	SkipUnresolved bool   `yaml:"skip_unresolved"`                            // Drop elements that fail to resolve instead of aborting

	// Relative residual accepted by contract checks
	Tolerance float64 `yaml:"tolerance" validate:"gt=0,lt=1"`

	// SQLite database holding saved models
	Store string `yaml:"store" validate:"required"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		LogLevel:      "info",
		PartitionSize: 256,
		Strategy:      "block",
		Tolerance:     1e-9,
		Store:         "structfe.db",
	}
}

// Load reads a YAML file over the defaults and validates the result.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
