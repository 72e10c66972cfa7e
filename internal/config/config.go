// Package config loads bindstorm configuration from TOML files with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Module loader kinds.
const (
	KindLua = "lua"
	KindJS  = "js"
)

// Config holds the runtime configuration.
type Config struct {
	// MarkerPrefix is the class token prefix marking behaviour elements.
	MarkerPrefix string `toml:"marker_prefix"`

	// ModuleDir is the directory searched for deferred handler modules.
	// Empty disables deferred loading.
	ModuleDir string `toml:"module_dir"`

	// ModuleKind selects the module loader: "lua" or "js".
	ModuleKind string `toml:"module_kind"`

	// LogLevel is the minimum log level ("debug", "info", "warn", "error").
	LogLevel string `toml:"log_level"`

	// Watch enables live reload of the configuration file.
	Watch bool `toml:"watch"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		MarkerPrefix: "jsb_",
		ModuleKind:   KindLua,
		LogLevel:     "info",
	}
}

// Load reads configuration from path, applying defaults for absent keys
// and environment overrides on top. A missing file is not an error; the
// defaults and environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env overrides.
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides fields from BINDSTORM_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("BINDSTORM_MARKER_PREFIX"); v != "" {
		c.MarkerPrefix = v
	}
	if v := os.Getenv("BINDSTORM_MODULE_DIR"); v != "" {
		c.ModuleDir = v
	}
	if v := os.Getenv("BINDSTORM_MODULE_KIND"); v != "" {
		c.ModuleKind = v
	}
	if v := os.Getenv("BINDSTORM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.MarkerPrefix == "" {
		return fmt.Errorf("marker_prefix must not be empty")
	}
	switch c.ModuleKind {
	case KindLua, KindJS, "":
	default:
		return fmt.Errorf("module_kind must be %q or %q, got %q", KindLua, KindJS, c.ModuleKind)
	}
	return nil
}
