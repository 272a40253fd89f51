package config

import (
	"os"
	"testing"
)

// TestAcceptanceCriteria verifies the configuration precedence contract.
func TestAcceptanceCriteria(t *testing.T) {
	t.Run("AC1: Environment variable CW_FLAG_PREFIX reaches the config", func(t *testing.T) {
		os.Setenv("CW_FLAG_PREFIX", "qc")
		defer os.Unsetenv("CW_FLAG_PREFIX")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("AC1 FAIL: LoadConfig error: %v", err)
		}
		if cfg.FlagPrefix != "qc" {
			t.Fatalf("AC1 FAIL: Expected prefix qc, got %s", cfg.FlagPrefix)
		}
		t.Log("AC1 PASS: Environment variable accessible via LoadConfig()")
	})

	t.Run("AC2: Environment overrides config file", func(t *testing.T) {
		os.Setenv("CW_DB_URL", "sqlite://from-env.db")
		defer os.Unsetenv("CW_DB_URL")

		tmpfile, err := os.CreateTemp("", "config-*.yaml")
		if err != nil {
			t.Fatal(err)
		}
		defer os.Remove(tmpfile.Name())

		configContent := `db_url: sqlite://from-file.db
`
		if _, err := tmpfile.Write([]byte(configContent)); err != nil {
			t.Fatal(err)
		}
		tmpfile.Close()

		cfg, err := LoadConfig(tmpfile.Name())
		if err != nil {
			t.Fatalf("AC2 FAIL: LoadConfig error: %v", err)
		}
		// Environment variable should override config file
		if cfg.DBURL != "sqlite://from-env.db" {
			t.Fatalf("AC2 FAIL: Environment should override config file. Expected sqlite://from-env.db, got %s", cfg.DBURL)
		}
		t.Log("AC2 PASS: Environment variables override config file (CLI flags > env > config in viper)")
	})

	t.Run("AC3: Invalid configuration rejected before any command runs", func(t *testing.T) {
		os.Setenv("CW_FLAG_PREFIX", "thisprefixistoolong")
		defer os.Unsetenv("CW_FLAG_PREFIX")

		_, err := LoadConfig("")
		if err == nil {
			t.Fatal("AC3 FAIL: Expected validation error for overlong prefix")
		}
		t.Log("AC3 PASS: Validation rejects bad configuration at load time")
	})
}
