package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration, optionally loaded from a YAML file.
// Flags override whatever the file sets.
type Config struct {
	LogLevel    string `yaml:"logLevel"`
	LogFile     string `yaml:"logFile"`
	MaxProblems int    `yaml:"maxProblems"`
	Source      string `yaml:"source"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:    "info",
		LogFile:     "",
		MaxProblems: 100,
		Source:      "ejsd",
	}
}

// Load reads a YAML config file; fields left unset keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	if c.MaxProblems < 1 {
		return fmt.Errorf("maxProblems must be positive, got %d", c.MaxProblems)
	}

	if c.Source == "" {
		return fmt.Errorf("source must not be empty")
	}

	return nil
}
