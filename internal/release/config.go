package release

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// DefaultConfigName is the config file searched for in the working
// directory when no sources are given on the command line.
const DefaultConfigName = "release.yaml"

// Config is a parsed release.yaml.
type Config struct {
	Sources []string   `yaml:"sources"`
	Bump    BumpConfig `yaml:"bump"`
	Remote  string     `yaml:"remote"`
}

// BumpConfig holds the bump defaults from release.yaml.
type BumpConfig struct {
	Level string `yaml:"level"`
	Tag   bool   `yaml:"tag"`
	Fetch bool   `yaml:"fetch"`
}

// LoadConfig reads, schema-validates, and parses a release config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%s is not a valid release config:\n%s", path, result.Format())
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}
