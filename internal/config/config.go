// Package config loads the lessonplay YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "lessonplay.yaml"

// Config is the lessonplay configuration.
type Config struct {
	// Catalog lists lesson files or directories. Empty means the embedded catalog.
	Catalog []string `yaml:"catalog"`
	// Seed makes pruning and shuffling reproducible. Zero draws from the global source.
	Seed      uint64                `yaml:"seed"`
	Kinds     map[string]KindConfig `yaml:"kinds"`
	Logging   LoggingConfig         `yaml:"logging"`
	ReportDir string                `yaml:"report_dir"`
}

// KindConfig overrides parts of a game kind's policy. Unset fields keep the
// built-in value.
type KindConfig struct {
	SingleItem *bool `yaml:"single_item,omitempty"`
	Replayable *bool `yaml:"replayable,omitempty"`
	MaxTiles   *int  `yaml:"max_tiles,omitempty"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Catalog:   []string{},
		Kinds:     map[string]KindConfig{},
		Logging:   LoggingConfig{Level: "info"},
		ReportDir: "reports",
	}
}

// Load reads path on top of the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("LESSONPLAY_CATALOG"); v != "" {
		paths := lo.Map(filepath.SplitList(v), func(p string, _ int) string { return strings.TrimSpace(p) })
		c.Catalog = lo.Filter(paths, func(p string, _ int) bool { return p != "" })
	}
	if v := os.Getenv("LESSONPLAY_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("LESSONPLAY_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v := os.Getenv("LESSONPLAY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the log level and the kind overrides.
func (c *Config) Validate() error {
	if c.Logging.Level != "" && !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level %q (valid: %v)", c.Logging.Level, validLevels)
	}
	_, err := c.Registry()
	return err
}

// Registry builds the policy table with the configured kind overrides.
func (c *Config) Registry() (*lesson.Registry, error) {
	reg := lesson.DefaultRegistry()
	names := lo.Keys(c.Kinds)
	slices.Sort(names)
	for _, name := range names {
		kind := lesson.Kind(name)
		o := c.Kinds[name]
		base := reg.Policy(kind)
		p := lesson.Policy{
			SingleItem: lo.FromPtrOr(o.SingleItem, base.SingleItem),
			Replayable: lo.FromPtrOr(o.Replayable, base.Replayable),
			MaxTiles:   lo.FromPtrOr(o.MaxTiles, base.MaxTiles),
		}
		if err := reg.Override(kind, p); err != nil {
			return nil, fmt.Errorf("kinds: %w", err)
		}
	}
	return reg, nil
}

// Rand returns the random source for the configured seed.
func (c *Config) Rand() lesson.Rand {
	if c.Seed == 0 {
		return lesson.GlobalRand()
	}
	return lesson.NewSeededRand(c.Seed)
}
