// Package config loads the host configuration.
// Precedence is flags, then environment (NATIVEPLUG_ prefix), then the
// config file, then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. NATIVEPLUG_LOGGING_LEVEL.
const EnvPrefix = "NATIVEPLUG"

// Backends accepted by plugins.backend.
const (
	BackendGoPlugin = "goplugin"
	BackendDlopen   = "dlopen"
)

// Config is the full host configuration.
type Config struct {
	Plugins PluginsConfig `mapstructure:"plugins" yaml:"plugins"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	// Context is exposed to plugins through Context.Config. Keys are
	// lower-cased by viper.
	Context map[string]string `mapstructure:"context" yaml:"context"`
}

// PluginsConfig selects the libraries loaded at startup.
type PluginsConfig struct {
	// Paths are loaded in order. The first failure aborts startup.
	Paths []string `mapstructure:"paths" yaml:"paths"`
	// Dir is scanned for shared objects. Failures there are only logged.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Backend is goplugin or dlopen.
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// LoggingConfig is the logging section.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level" yaml:"level"`
	// Format is json or text.
	Format string `mapstructure:"format" yaml:"format"`
	// File receives logs when set; stderr otherwise.
	File string `mapstructure:"file" yaml:"file"`
}

// DefaultConfigPath returns ~/.config/nativeplug/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".config", "nativeplug", "config.yaml"), nil
}

// Init prepares v. An explicit file must exist; the default file is
// optional.
func Init(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		path, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("plugins.paths", []string{})
	v.SetDefault("plugins.dir", "")
	v.SetDefault("plugins.backend", BackendGoPlugin)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")

	v.SetDefault("context", map[string]string{})
}

// Load decodes v and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	for i, p := range cfg.Plugins.Paths {
		cfg.Plugins.Paths[i] = expandPath(p)
	}
	cfg.Plugins.Dir = expandPath(cfg.Plugins.Dir)
	cfg.Logging.File = expandPath(cfg.Logging.File)
	if cfg.Context == nil {
		cfg.Context = map[string]string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Plugins.Backend {
	case BackendGoPlugin, BackendDlopen:
	default:
		return fmt.Errorf("invalid plugins.backend %q (goplugin or dlopen)", c.Plugins.Backend)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging.level %q (debug, info, warn or error)", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging.format %q (json or text)", c.Logging.Format)
	}

	return nil
}

// expandPath replaces a leading ~ with the home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
