package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultConfigFile is picked up from the working directory when no --config
// flag is given.
const defaultConfigFile = ".lamina.yml"

// Config holds CLI settings read from a YAML file.
type Config struct {
	// Prompt is the REPL prompt string.
	Prompt string `yaml:"prompt"`
	// Prelude lists script files executed before the first input, in order.
	Prelude []string `yaml:"prelude"`
}

func defaultConfig() *Config {
	return &Config{Prompt: "> "}
}

// loadConfig reads the config at path, or the default file if path is empty.
// A missing default file is not an error; a missing explicit file is.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "> "
	}
	return cfg, nil
}
