package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 4000 {
			t.Errorf("expected default port 4000, got %d", config.Server.Port)
		}
		if config.Database.Path != "resona.db" {
			t.Errorf("expected default database path resona.db, got %s", config.Database.Path)
		}
		if config.Provider.BaseURL != "http://localhost:8080" {
			t.Errorf("expected default provider URL, got %s", config.Provider.BaseURL)
		}
		if config.Cache.Addr != "" {
			t.Errorf("expected cache disabled by default, got addr %s", config.Cache.Addr)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("loads values from file", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")

			content := `
[server]
host = "0.0.0.0"
port = 9999

[database]
path = "/tmp/test.db"

[provider]
base_url = "http://proxy:8000"
timeout_seconds = 10

[cache]
addr = "localhost:6379"
ttl_seconds = 120
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if config.Server.Addr() != "0.0.0.0:9999" {
				t.Errorf("expected addr 0.0.0.0:9999, got %s", config.Server.Addr())
			}
			if config.Provider.Timeout() != 10*time.Second {
				t.Errorf("expected 10s timeout, got %v", config.Provider.Timeout())
			}
			if config.Cache.TTL() != 2*time.Minute {
				t.Errorf("expected 2m TTL, got %v", config.Cache.TTL())
			}
		})

		t.Run("fails for missing file", func(t *testing.T) {
			if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
				t.Error("expected error for missing config file")
			}
		})

		t.Run("fails for malformed file", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "bad.toml")
			if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}

			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error for malformed config file")
			}
		})
	})

	t.Run("Timeout defaults when unset", func(t *testing.T) {
		p := ProviderConfig{}
		if p.Timeout() != 5*time.Second {
			t.Errorf("expected 5s default timeout, got %v", p.Timeout())
		}
	})

	t.Run("TTL defaults when unset", func(t *testing.T) {
		c := CacheConfig{}
		if c.TTL() != time.Minute {
			t.Errorf("expected 1m default TTL, got %v", c.TTL())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		t.Run("writes template config", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")

			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected created config to load, got %v", err)
			}
			if config.Server.Port != 4000 {
				t.Errorf("expected template port 4000, got %d", config.Server.Port)
			}
		})

		t.Run("refuses to overwrite existing file", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			if err := os.WriteFile(path, []byte("existing"), 0644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}

			if err := CreateConfigFile(path); err == nil {
				t.Error("expected error when config file exists")
			}
		})
	})
}
