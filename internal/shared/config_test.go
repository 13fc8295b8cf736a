package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Storage.Driver != StorageJSON {
			t.Errorf("expected storage driver json, got %s", config.Storage.Driver)
		}

		if config.Storage.DataDir != "./data" {
			t.Errorf("expected data dir ./data, got %s", config.Storage.DataDir)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Sessions.Driver != SessionsMemory {
			t.Errorf("expected memory sessions, got %s", config.Sessions.Driver)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("ServerConfig helpers", func(t *testing.T) {
		cfg := ServerConfig{Host: "0.0.0.0", Port: 8080, MaxUploadMB: 2, ReadTimeoutSeconds: 5, WriteTimeoutSeconds: 7}

		if cfg.Addr() != "0.0.0.0:8080" {
			t.Errorf("unexpected addr %s", cfg.Addr())
		}
		if cfg.MaxUploadBytes() != 2<<20 {
			t.Errorf("unexpected upload limit %d", cfg.MaxUploadBytes())
		}
		if cfg.ReadTimeout() != 5*time.Second || cfg.WriteTimeout() != 7*time.Second {
			t.Errorf("unexpected timeouts %v %v", cfg.ReadTimeout(), cfg.WriteTimeout())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Storage.DataDir != DefaultConfig().Storage.DataDir {
			t.Errorf("created config data dir doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
host = "0.0.0.0"
port = 8080

[storage]
driver = "sqlite"

[database]
path = "/custom/path.db"

[sessions]
driver = "redis"
redis_url = "redis://localhost:6379/0"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Server.UploadDir != "./uploads" {
			t.Errorf("expected unset keys to keep defaults, got upload dir %q", config.Server.UploadDir)
		}

		if config.Sessions.RedisURL != "redis://localhost:6379/0" {
			t.Errorf("unexpected redis url %s", config.Sessions.RedisURL)
		}
	})

	t.Run("LoadConfigOrDefault missing file", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected default config, got port %d", config.Server.Port)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{"unknown storage driver", func(c *Config) { c.Storage.Driver = "mongo" }},
			{"json without data dir", func(c *Config) { c.Storage.DataDir = "" }},
			{"sqlite without path", func(c *Config) { c.Storage.Driver = StorageSQLite; c.Database.Path = "" }},
			{"redis without url", func(c *Config) { c.Sessions.Driver = SessionsRedis }},
			{"unknown sessions driver", func(c *Config) { c.Sessions.Driver = "cookie" }},
			{"bad port", func(c *Config) { c.Server.Port = 0 }},
			{"bad upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}
