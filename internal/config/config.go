// Package config loads scenebind settings from an optional YAML file and
// SCENEBIND_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"scenebind/internal/logging"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = ".scenebind"
	// EnvPrefix prefixes environment overrides, e.g. SCENEBIND_LOG_LEVEL.
	EnvPrefix = "SCENEBIND"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds every setting.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Resolve ResolveConfig `mapstructure:"resolve"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// LogConfig selects log level and format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ResolveConfig controls the resolve command.
type ResolveConfig struct {
	// Write saves the scene when resolution modified any node.
	Write bool `mapstructure:"write"`
	// FailOnError makes the command exit non-zero on error diagnostics.
	FailOnError bool `mapstructure:"fail_on_error"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	// Ignore holds doublestar globs, relative to the scene directory.
	Ignore []string `mapstructure:"ignore"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: string(logging.FormatText),
		},
		Resolve: ResolveConfig{
			Write: true,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// Path is an explicit config file; it must exist.
	Path string
	// Dir is searched for FileName when Path is empty. Empty means the
	// working directory.
	Dir string
}

// Load reads the config. It returns the file used, or "" when only
// defaults and the environment applied.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("resolve.write", defaults.Resolve.Write)
	v.SetDefault("resolve.fail_on_error", defaults.Resolve.FailOnError)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// No default to make it known to AutomaticEnv.
	if err := v.BindEnv("watch.ignore"); err != nil {
		return nil, "", fmt.Errorf("failed to bind environment: %w", err)
	}

	if opts.Path != "" {
		if _, err := os.Stat(opts.Path); err != nil {
			return nil, "", fmt.Errorf("config file not found: %w", err)
		}

		v.SetConfigFile(opts.Path)
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}

		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	resolvedPath := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		resolvedPath = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolvedPath, nil
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}

	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: log.format: %w", ErrInvalidConfig, err)
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce must not be negative", ErrInvalidConfig)
	}

	return nil
}
