// Package config loads, defaults and validates the ramfs configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (RAMFS_*)
//  2. Configuration file (YAML)
//  3. Default values
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete ramfs configuration.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Filesystem contains block accounting settings
	Filesystem FilesystemConfig `mapstructure:"filesystem"`

	// Readdir contains listing cursor table settings
	Readdir ReaddirConfig `mapstructure:"readdir"`

	// Metrics controls the Prometheus endpoint
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// FilesystemConfig contains size/block accounting settings.
type FilesystemConfig struct {
	// BlockSize is the allocation unit for block accounting, in bytes.
	// Must be a power of two between 512 and 1 MiB.
	BlockSize uint64 `mapstructure:"block_size" validate:"required,gte=512,lte=1048576"`

	// CapacityBlocks caps the filesystem-wide used-block count.
	// Zero means unlimited.
	CapacityBlocks uint64 `mapstructure:"capacity_blocks"`
}

// ReaddirConfig contains listing cursor table settings.
type ReaddirConfig struct {
	// CursorTTL is how long an idle listing cursor survives between calls.
	// Zero disables expiry.
	CursorTTL time.Duration `mapstructure:"cursor_ttl" validate:"gte=0"`

	// MaxCursors caps the number of live listing cursors (LRU eviction).
	// Zero means unlimited.
	MaxCursors int `mapstructure:"max_cursors" validate:"gte=0"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled turns metrics collection and the HTTP endpoint on
	Enabled bool `mapstructure:"enabled"`

	// Listen is the address the metrics endpoint binds to
	Listen string `mapstructure:"listen"`
}

// Load reads, defaults and validates the configuration.
//
// Parameters:
//   - configPath: Path to config file (empty string uses the default
//     location under $XDG_CONFIG_HOME/ramfs)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variables and config file search.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the RAMFS_ prefix and underscores,
	// e.g. RAMFS_LOGGING_LEVEL=DEBUG.
	v.SetEnvPrefix("RAMFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists; a missing file
// is acceptable and leaves the defaults in force.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path, following
// XDG_CONFIG_HOME and falling back to ~/.config.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "ramfs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "ramfs")
}
