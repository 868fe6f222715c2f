package config

import (
	"strings"
	"time"
)

// Default values applied to any field the configuration file and the
// environment leave unset.
const (
	DefaultLogLevel      = "INFO"
	DefaultLogFormat     = "text"
	DefaultLogOutput     = "stdout"
	DefaultBlockSize     = 4096
	DefaultCursorTTL     = 5 * time.Minute
	DefaultMaxCursors    = 10000
	DefaultMetricsListen = ":9090"
)

// ApplyDefaults fills in defaults for missing values and normalizes the log
// level to uppercase. Runs before Validate, so a default-only configuration
// always validates.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = DefaultLogOutput
	}

	if cfg.Filesystem.BlockSize == 0 {
		cfg.Filesystem.BlockSize = DefaultBlockSize
	}

	if cfg.Readdir.CursorTTL == 0 {
		cfg.Readdir.CursorTTL = DefaultCursorTTL
	}
	if cfg.Readdir.MaxCursors == 0 {
		cfg.Readdir.MaxCursors = DefaultMaxCursors
	}

	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}
}
