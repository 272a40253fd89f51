package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults matching DefaultConfig
	defaults := DefaultConfig()
	v.SetDefault("flag_prefix", defaults.FlagPrefix)
	v.SetDefault("db_url", defaults.DBURL)
	v.SetDefault("system_columns", defaults.SystemColumns)

	// Bind environment variables with CW_ prefix
	v.SetEnvPrefix("CW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		FlagPrefix:    v.GetString("flag_prefix"),
		DBURL:         v.GetString("db_url"),
		SystemColumns: v.GetStringSlice("system_columns"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
