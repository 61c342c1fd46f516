// Package config persists the defaults of the ots command.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/placement"
)

// AppConfig stores persistent application settings
type AppConfig struct {
	Strategy     string `json:"strategy"`      // placement strategy name
	GridSpacing  int    `json:"grid_spacing"`  // pixels per grid unit
	HitTolerance int    `json:"hit_tolerance"` // pixels added around devices when hit testing
	TopLevel     bool   `json:"top_level"`     // read flat netlists as one circuit
}

// Default returns the settings used when no config file exists
func Default() *AppConfig {
	return &AppConfig{
		Strategy:     placement.Linear.String(),
		GridSpacing:  50,
		HitTolerance: 10,
		TopLevel:     false,
	}
}

// DefaultPath returns the path to the config file
func DefaultPath() (string, error) {
	// Windows: %APPDATA%\OpenTraceSPICE
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "OpenTraceSPICE", "config.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	// Linux/macOS: ~/.config/opentracespice
	return filepath.Join(homeDir, ".config", "opentracespice", "config.json"), nil
}

// Load reads the configuration at path. A missing file yields Default().
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory
func (c *AppConfig) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings
func (c *AppConfig) Validate() error {
	if _, err := placement.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.GridSpacing < 1 {
		return fmt.Errorf("grid_spacing must be positive, got %d", c.GridSpacing)
	}
	if c.HitTolerance < 0 {
		return fmt.Errorf("hit_tolerance must not be negative, got %d", c.HitTolerance)
	}
	return nil
}

// PlacementStrategy returns the configured strategy, Linear if invalid
func (c *AppConfig) PlacementStrategy() placement.Strategy {
	s, err := placement.ParseStrategy(c.Strategy)
	if err != nil {
		return placement.Linear
	}
	return s
}

var setters = map[string]func(c *AppConfig, v string) error{
	"strategy": func(c *AppConfig, v string) error {
		c.Strategy = v
		return nil
	},
	"grid_spacing": func(c *AppConfig, v string) error {
		n, err := strconv.Atoi(v)
		c.GridSpacing = n
		return err
	},
	"hit_tolerance": func(c *AppConfig, v string) error {
		n, err := strconv.Atoi(v)
		c.HitTolerance = n
		return err
	},
	"top_level": func(c *AppConfig, v string) error {
		b, err := strconv.ParseBool(v)
		c.TopLevel = b
		return err
	},
}

// Keys returns the names accepted by Set
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set updates one setting from its text form and validates the result
func (c *AppConfig) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q (valid: %v)", key, Keys())
	}
	next := *c
	if err := set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
