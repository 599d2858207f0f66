package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the predictor configuration
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
	Check  CheckConfig  `yaml:"check"`
}

// InputConfig controls where problems are read from and how they are parsed
type InputConfig struct {
	Path          string `yaml:"path,omitempty"` // Empty reads stdin
	MissingMarker string `yaml:"missing_marker"`
}

// OutputConfig controls where predictions are written
type OutputConfig struct {
	Path string `yaml:"path,omitempty"` // Empty writes stdout
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, logfmt
}

// CheckConfig contains settings for the fixture checker
type CheckConfig struct {
	Dir     string        `yaml:"dir,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
	Color   bool          `yaml:"color"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			MissingMarker: "X",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Check: CheckConfig{
			Timeout: 50 * time.Second,
			Color:   true,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if c.Input.MissingMarker == "" {
		return fmt.Errorf("input.missing_marker must not be empty")
	}
	if strings.ContainsAny(c.Input.MissingMarker, " \t\r\n") {
		return fmt.Errorf("input.missing_marker %q must not contain whitespace", c.Input.MissingMarker)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format '%s'", c.Log.Format)
	}

	if c.Check.Timeout <= 0 {
		return fmt.Errorf("check.timeout must be greater than 0")
	}

	return nil
}

// expandPaths replaces a leading "~/" with the user's home directory and
// then expands ${ENV_VAR} references in path-valued fields.
func (c *Config) expandPaths() {
	home, _ := os.UserHomeDir()
	expand := func(p string) string {
		if home != "" {
			if p == "~" {
				p = home
			} else if strings.HasPrefix(p, "~/") {
				p = filepath.Join(home, p[2:])
			}
		}
		return os.ExpandEnv(p)
	}

	c.Input.Path = expand(c.Input.Path)
	c.Output.Path = expand(c.Output.Path)
	c.Check.Dir = expand(c.Check.Dir)
}
