// Package config loads tracecheck settings from defaults, a global config
// file, a local config file and TRACECHECK_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "TRACECHECK_"

// DefaultLocalConfig is the local config file looked up when --config is not given.
const DefaultLocalConfig = ".tracecheck.json"

// Configuration represents the tracecheck CLI configuration
type Configuration struct {
	SpecsDir   string   `koanf:"specs_dir" json:"specs_dir" validate:"required"`
	PlansDir   string   `koanf:"plans_dir" json:"plans_dir" validate:"required"`
	TasksDir   string   `koanf:"tasks_dir" json:"tasks_dir" validate:"required"`
	Extensions []string `koanf:"extensions" json:"extensions" validate:"min=1,dive,startswith=."`
	Ignore     []string `koanf:"ignore" json:"ignore"`
	Format     string   `koanf:"format" json:"format" validate:"oneof=text json"`
	NoColor    bool     `koanf:"no_color" json:"no_color"`
	Verbose    bool     `koanf:"verbose" json:"verbose"` // Print expected/got/hint under each error
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	// Apply defaults first
	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply default %s: %w", key, err)
		}
	}

	// Load global config if it exists
	if globalPath := GlobalConfigPath(); globalPath != "" {
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	// Load local config if it exists
	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Unmarshal into struct
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	source := localConfigPath
	if source == "" {
		source = "config"
	}
	if err := ValidateConfigValues(&cfg, source); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Expand home directory in paths
	cfg.SpecsDir = expandHomePath(cfg.SpecsDir)
	cfg.PlansDir = expandHomePath(cfg.PlansDir)
	cfg.TasksDir = expandHomePath(cfg.TasksDir)

	return &cfg, nil
}

// GlobalConfigPath returns ~/.tracecheck/config.json, or "" when the home
// directory is unknown.
func GlobalConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".tracecheck", "config.json")
}

// envTransform converts environment variable names to config keys
// Example: TRACECHECK_SPECS_DIR -> specs_dir
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// listKeys are settings whose environment value is a comma-separated list.
var listKeys = map[string]bool{
	"extensions": true,
	"ignore":     true,
}

// envValue maps an environment variable to its config key and value.
// List settings are split on commas: TRACECHECK_EXTENSIONS=".md,.markdown"
// yields two extensions, not one.
func envValue(key, value string) (string, interface{}) {
	key = envTransform(key)
	if !listKeys[key] {
		return key, value
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// newValidator returns a validator that reports fields by their config key.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}
