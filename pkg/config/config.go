// Package config loads and persists the trawl configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/harborworks/trawl/pkg/ingest"
)

const (
	// DefaultFile is the config file looked up in the working directory
	// when no --config path is given.
	DefaultFile = "trawl.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

// Configer reads and writes the TOML config file.
type Configer struct {
	path string
}

// NewConfiger creates a Configer for the given path, falling back to
// DefaultFile in the working directory when path is empty.
func NewConfiger(path string) *Configer {
	if path == "" {
		path = DefaultFile
	}
	return &Configer{path: path}
}

// Path returns the file this Configer reads and writes.
func (c *Configer) Path() string {
	return c.path
}

// Load reads the config file. A missing file returns NewDefaultConfig() so
// callers always receive a fully-populated Config; fields explicitly set in
// the file override the defaults.
func (c *Configer) Load() (*Config, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseTOML(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Save persists the configuration to the Configer's path.
func (c *Configer) Save(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ParseTOML parses raw TOML bytes into a Config. An unsupported version
// field is an error.
func ParseTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Index.Name == "" {
		cfg.Index.Name = defaults.Index.Name
	}
	if cfg.Index.IDStrategy == "" {
		cfg.Index.IDStrategy = defaults.Index.IDStrategy
	}
	if cfg.Index.Shards == 0 {
		cfg.Index.Shards = defaults.Index.Shards
	}

	if cfg.Input.Path == "" {
		cfg.Input.Path = defaults.Input.Path
	}
	if cfg.Input.ProjectName == "" {
		cfg.Input.ProjectName = defaults.Input.ProjectName
	}
	if cfg.Input.Page == 0 {
		cfg.Input.Page = defaults.Input.Page
	}

	if cfg.Store.Provider == "" {
		cfg.Store.Provider = defaults.Store.Provider
	}
	if cfg.Store.Target == "" {
		cfg.Store.Target = defaults.Store.Target
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = defaults.Embedding.Provider
	}
	if cfg.Embedding.Target == "" {
		cfg.Embedding.Target = defaults.Embedding.Target
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = defaults.Embedding.Model
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = defaults.Embedding.Dimensions
	}

	if cfg.Generation.Target == "" {
		cfg.Generation.Target = defaults.Generation.Target
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = defaults.Generation.Model
	}
	if cfg.Generation.MaxConcurrent == 0 {
		cfg.Generation.MaxConcurrent = defaults.Generation.MaxConcurrent
	}

	if cfg.Events.Provider == "" {
		cfg.Events.Provider = defaults.Events.Provider
	}
	if cfg.Events.Topic == "" {
		cfg.Events.Topic = defaults.Events.Topic
	}
}

// Validate checks for configuration problems that must be fatal at startup.
func (cfg *Config) Validate() error {
	if cfg.Index.Name == "" {
		return errors.New("index.name is required")
	}
	if _, err := ingest.ParseStrategy(cfg.Index.IDStrategy); err != nil {
		return fmt.Errorf("index.id_strategy: %w", err)
	}
	if cfg.Embedding.Dimensions <= 0 {
		return errors.New("embedding.dimensions must be positive")
	}
	if cfg.Events.Provider == "kafka" && len(cfg.Events.Brokers) == 0 {
		return errors.New("events.brokers is required with the kafka provider")
	}
	return nil
}
