// Package config provides configuration management for checkwright.
package config

import (
	"fmt"

	"github.com/checkwright/checkwright/internal/dataset"
	"github.com/checkwright/checkwright/internal/types"
)

// Config holds checkwright settings. Precedence: CLI flags > environment
// (CW_ prefix) > config file > defaults.
type Config struct {
	// FlagPrefix prepends every generated error-flag name. Manifest and CLI
	// flag override it per invocation.
	FlagPrefix string

	// DBURL is the rule-library connection URL (sqlite:// or postgres://).
	DBURL string

	// SystemColumns are dropped from loaded datasets, case-insensitively.
	SystemColumns []string
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		FlagPrefix:    types.DefaultFlagPrefix,
		DBURL:         "sqlite://checkwright.db",
		SystemColumns: dataset.DefaultSystemColumns,
	}
}

// validateConfig checks prefix length and system column names.
func validateConfig(cfg *Config) error {
	if cfg.FlagPrefix == "" {
		return fmt.Errorf("flag_prefix must not be empty")
	}
	// Prefix plus variable name plus suffix must fit the target package's
	// identifier limit; keep the prefix short enough to leave room.
	if len(cfg.FlagPrefix) > 8 {
		return fmt.Errorf("flag_prefix must be at most 8 characters, got %d", len(cfg.FlagPrefix))
	}
	for _, s := range cfg.SystemColumns {
		if s == "" {
			return fmt.Errorf("system_columns must not contain empty names")
		}
	}
	return nil
}
