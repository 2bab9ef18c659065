// Package config loads the per-application configuration file.
//
// Configuration is optional: applications run fine with no file at all.
// When present it lives at <xdg-config>/<app>/config.yaml, can be moved
// with the <APP>_CONFIG environment variable, and individual settings can
// be overridden with <APP>_COLOR, <APP>_HISTORY_ENABLED and
// <APP>_HISTORY_PATH.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the settings an application shell honors.
type Config struct {
	// Color controls colored terminal output: auto, always or never.
	Color string `yaml:"color"`

	// History configures invocation history recording.
	History History `yaml:"history"`
}

// History configures the invocation history store.
type History struct {
	// Enabled turns history recording on. Defaults to true.
	Enabled bool `yaml:"enabled"`

	// Path overrides the history database location. Empty means the
	// default under the XDG state directory.
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Color:   "auto",
		History: History{Enabled: true},
	}
}

// Load reads the configuration for appName. An explicit path must exist;
// the default path is optional. Environment overrides apply last.
func Load(appName, path string) (*Config, error) {
	cfg := Default()
	prefix := envPrefix(appName)

	explicit := path != ""
	if !explicit {
		if env := os.Getenv(prefix + "_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = filepath.Join(xdg.ConfigHome, appName, "config.yaml")
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is the common case.
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnvironment(cfg, prefix)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// StateDir returns the XDG-compliant state directory for appName.
func StateDir(appName string) string {
	return filepath.Join(xdg.StateHome, appName)
}

// applyEnvironment overrides individual settings from the environment.
func applyEnvironment(cfg *Config, prefix string) {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if s := v.GetString("color"); s != "" {
		cfg.Color = s
	}
	if s := v.GetString("history.enabled"); s != "" {
		cfg.History.Enabled = s == "1" || s == "true"
	}
	if s := v.GetString("history.path"); s != "" {
		cfg.History.Path = s
	}
}

// validate rejects settings the shell cannot honor.
func (c *Config) validate() error {
	switch c.Color {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
}

// envPrefix derives the environment variable prefix from the app name.
func envPrefix(appName string) string {
	return strings.ToUpper(strings.ReplaceAll(appName, "-", "_"))
}
