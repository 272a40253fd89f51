package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Clean environment
	os.Unsetenv("CW_FLAG_PREFIX")
	os.Unsetenv("CW_DB_URL")
	os.Unsetenv("CW_SYSTEM_COLUMNS")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.FlagPrefix != "xx" {
			t.Errorf("expected flag_prefix xx, got %s", cfg.FlagPrefix)
		}
		if cfg.DBURL != "sqlite://checkwright.db" {
			t.Errorf("expected db_url sqlite://checkwright.db, got %s", cfg.DBURL)
		}
		if len(cfg.SystemColumns) == 0 {
			t.Error("expected default system_columns, got none")
		}
	})

	t.Run("environment override", func(t *testing.T) {
		os.Setenv("CW_FLAG_PREFIX", "qc")
		os.Setenv("CW_DB_URL", "postgres://localhost/checkwright")
		defer os.Unsetenv("CW_FLAG_PREFIX")
		defer os.Unsetenv("CW_DB_URL")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.FlagPrefix != "qc" {
			t.Errorf("expected flag_prefix qc, got %s", cfg.FlagPrefix)
		}
		if cfg.DBURL != "postgres://localhost/checkwright" {
			t.Errorf("expected postgres URL, got %s", cfg.DBURL)
		}
	})

	t.Run("overlong flag prefix rejected", func(t *testing.T) {
		os.Setenv("CW_FLAG_PREFIX", "waytoolongprefix")
		defer os.Unsetenv("CW_FLAG_PREFIX")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for flag_prefix > 8 chars")
		}
	})

	t.Run("config file", func(t *testing.T) {
		tmpfile, err := os.CreateTemp("", "config-*.yaml")
		if err != nil {
			t.Fatal(err)
		}
		defer os.Remove(tmpfile.Name())

		configContent := `flag_prefix: chk
db_url: sqlite://project.db
system_columns:
  - weight
  - quota_cell
`
		if _, err := tmpfile.Write([]byte(configContent)); err != nil {
			t.Fatal(err)
		}
		tmpfile.Close()

		cfg, err := LoadConfig(tmpfile.Name())
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.FlagPrefix != "chk" {
			t.Errorf("expected flag_prefix chk, got %s", cfg.FlagPrefix)
		}
		if cfg.DBURL != "sqlite://project.db" {
			t.Errorf("expected db_url sqlite://project.db, got %s", cfg.DBURL)
		}
		if len(cfg.SystemColumns) != 2 || cfg.SystemColumns[0] != "weight" {
			t.Errorf("expected custom system_columns, got %v", cfg.SystemColumns)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.yaml")
		if err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

func TestValidateConfig(t *testing.T) {
	t.Run("empty flag prefix rejected", func(t *testing.T) {
		err := validateConfig(&Config{FlagPrefix: ""})
		if err == nil {
			t.Error("expected error for empty flag_prefix")
		}
	})

	t.Run("empty system column name rejected", func(t *testing.T) {
		err := validateConfig(&Config{
			FlagPrefix:    "xx",
			SystemColumns: []string{"status", ""},
		})
		if err == nil {
			t.Error("expected error for empty system column name")
		}
	})

	t.Run("defaults valid", func(t *testing.T) {
		if err := validateConfig(DefaultConfig()); err != nil {
			t.Errorf("default config should validate, got %v", err)
		}
	})
}
