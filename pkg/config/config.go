// Package config loads tgv settings from .testgen/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // timezone names must resolve on hosts without zoneinfo

	"gopkg.in/yaml.v3"
)

// Dir and File name the project-local configuration file.
const (
	Dir  = ".testgen"
	File = "config.yaml"
)

// ErrNotFound is returned when no configuration file is discovered.
var ErrNotFound = errors.New("config file not found")

// Config represents a tgv configuration file (.testgen/config.yaml)
type Config struct {
	// Catalog names the default data source when no flag is given
	Catalog CatalogConfig `yaml:"catalog,omitempty" json:"catalog,omitempty"`

	Tree   TreeConfig   `yaml:"tree" json:"tree"`
	Cron   CronConfig   `yaml:"cron" json:"cron"`
	UI     UIConfig     `yaml:"ui" json:"ui"`
	Events EventsConfig `yaml:"events" json:"events"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// CatalogConfig points at a catalog file or SQLite database.
type CatalogConfig struct {
	// Path is a YAML/JSON node file (relative to the project root)
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// DB is a SQLite catalog (relative to the project root)
	DB string `yaml:"db,omitempty" json:"db,omitempty"`
}

// TreeConfig controls the selection tree.
type TreeConfig struct {
	MultiSelect    bool `yaml:"multi_select" json:"multi_select"`
	ExpandOnSearch bool `yaml:"expand_on_search" json:"expand_on_search"`

	// LabelWidth truncates labels to this many cells (default: 60)
	LabelWidth int `yaml:"label_width" json:"label_width"`
}

// CronConfig controls the schedule preview.
type CronConfig struct {
	PreviewSamples int    `yaml:"preview_samples" json:"preview_samples"`
	Timezone       string `yaml:"timezone" json:"timezone"`
}

// UIConfig controls the terminal UI.
type UIConfig struct {
	// Theme names a registered colour theme ("default", "high-contrast")
	Theme string `yaml:"theme" json:"theme"`
}

// EventsConfig selects where host events are written.
type EventsConfig struct {
	// Output is a file path, "-" for stdout; empty disables events
	Output string `yaml:"output" json:"output"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`

	// File receives log output; empty discards logs in interactive mode
	File string `yaml:"file" json:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tree: TreeConfig{
			ExpandOnSearch: true,
			LabelWidth:     60,
		},
		Cron: CronConfig{
			PreviewSamples: 5,
			Timezone:       "UTC",
		},
		UI: UIConfig{
			Theme: "default",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Catalog.Path != "" && c.Catalog.DB != "" {
		return fmt.Errorf("catalog: path and db are mutually exclusive")
	}
	if c.Tree.LabelWidth < 10 {
		return fmt.Errorf("tree.label_width: must be at least 10, got %d", c.Tree.LabelWidth)
	}
	if c.Cron.PreviewSamples < 1 || c.Cron.PreviewSamples > 50 {
		return fmt.Errorf("cron.preview_samples: must be between 1 and 50, got %d", c.Cron.PreviewSamples)
	}
	if _, err := time.LoadLocation(c.Cron.Timezone); err != nil {
		return fmt.Errorf("cron.timezone: %w", err)
	}
	level := strings.ToLower(c.Log.Level)
	for _, l := range validLevels {
		if level == l {
			return nil
		}
	}
	return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
}

// Location returns the preview time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Cron.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load loads a configuration file. Keys missing from the file keep their
// defaults, and relative catalog paths are resolved against the project root
// (the directory holding .testgen/).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	root := projectRoot(path)
	config.Catalog.Path = resolve(root, config.Catalog.Path)
	config.Catalog.DB = resolve(root, config.Catalog.DB)
	config.Events.Output = resolve(root, config.Events.Output)
	config.Log.File = resolve(root, config.Log.File)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// Save writes the configuration as YAML, creating parent directories.
func Save(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// projectRoot returns the directory that owns the config file.
func projectRoot(path string) string {
	dir := filepath.Dir(path)
	if filepath.Base(dir) == Dir {
		return filepath.Dir(dir)
	}
	return dir
}

func resolve(root, p string) string {
	if p == "" || p == "-" {
		return p
	}
	p = expandHome(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
