package bot

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/stickpick/stickpick/core/config"
	coredatabase "github.com/stickpick/stickpick/core/database"
	"github.com/stickpick/stickpick/internal/generation"
	"github.com/stickpick/stickpick/internal/pipeline"
)

// Config aggregates the core bot settings with the application-specific
// sections. YAML values are overridable through the environment.
type Config struct {
	Core       coreconfig.Config   `yaml:",inline"`
	Database   coredatabase.Config `yaml:"database"`
	Pipeline   pipeline.Config     `yaml:"pipeline"`
	Generation generation.Config   `yaml:"generation"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads configuration from a YAML file and environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if cfg.Generation.Command == "" {
		return nil, fmt.Errorf("generation.command is required")
	}
	return &cfg, nil
}
