package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./tdx.db" {
			t.Errorf("expected database path ./tdx.db, got %s", config.Database.Path)
		}

		if config.API.BaseURL != "http://localhost:3000" {
			t.Errorf("expected base URL http://localhost:3000, got %s", config.API.BaseURL)
		}

		if config.API.TimeoutSeconds != 15 {
			t.Errorf("expected timeout 15s, got %d", config.API.TimeoutSeconds)
		}

		if config.API.RateLimit != 10.0 {
			t.Errorf("expected rate limit 10.0, got %f", config.API.RateLimit)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://todos.example.com"
timeout_seconds = 30
rate_limit = 2.5

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://todos.example.com" {
			t.Errorf("expected base URL https://todos.example.com, got %s", config.API.BaseURL)
		}

		if config.API.TimeoutSeconds != 30 {
			t.Errorf("expected timeout 30s, got %d", config.API.TimeoutSeconds)
		}

		if config.Database.MaxOpenConns != 20 {
			t.Errorf("expected max_open_conns 20, got %d", config.Database.MaxOpenConns)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/does/not/exist.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := os.WriteFile(configPath, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}
