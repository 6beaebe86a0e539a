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

		if config.Database.Path != "./movievault.db" {
			t.Errorf("expected database path ./movievault.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Credentials.OMDb.BaseURL != "https://www.omdbapi.com/" {
			t.Errorf("expected omdb base URL https://www.omdbapi.com/, got %s", config.Credentials.OMDb.BaseURL)
		}

		if config.OMDb.SearchTimeout != 8*time.Second {
			t.Errorf("expected search timeout 8s, got %v", config.OMDb.SearchTimeout)
		}

		if config.OMDb.DetailsTimeout != 7*time.Second {
			t.Errorf("expected details timeout 7s, got %v", config.OMDb.DetailsTimeout)
		}

		if config.Search.Debounce != 500*time.Millisecond {
			t.Errorf("expected debounce 500ms, got %v", config.Search.Debounce)
		}

		if config.Search.MinTypeaheadLength != 3 {
			t.Errorf("expected min typeahead length 3, got %d", config.Search.MinTypeaheadLength)
		}

		if config.APIKeySet() {
			t.Error("placeholder API key should not count as set")
		}
	})

	t.Run("APIKeySet", func(t *testing.T) {
		tt := []struct {
			key  string
			want bool
		}{
			{"", false},
			{"   ", false},
			{PlaceholderAPIKey, false},
			{"abc", false},
			{"a8d077ff", true},
		}

		for _, tc := range tt {
			c := DefaultConfig()
			c.Credentials.OMDb.APIKey = tc.key
			if got := c.APIKeySet(); got != tc.want {
				t.Errorf("APIKeySet(%q) = %v, want %v", tc.key, got, tc.want)
			}
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

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[credentials.omdb]
api_key = "test_api_key"

[omdb]
search_timeout = "2s"
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

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected server addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if config.Credentials.OMDb.APIKey != "test_api_key" {
			t.Errorf("expected api key test_api_key, got %s", config.Credentials.OMDb.APIKey)
		}

		if config.OMDb.SearchTimeout != 2*time.Second {
			t.Errorf("expected search timeout 2s, got %v", config.OMDb.SearchTimeout)
		}

		if config.OMDb.DetailsTimeout != 7*time.Second {
			t.Errorf("unset details timeout should keep default 7s, got %v", config.OMDb.DetailsTimeout)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[database\npath ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "env_key_123")
		t.Setenv(EnvDBPath, "/tmp/env.db")

		config := DefaultConfig()
		ApplyEnv(config)

		if config.Credentials.OMDb.APIKey != "env_key_123" {
			t.Errorf("expected api key from env, got %s", config.Credentials.OMDb.APIKey)
		}
		if config.Database.Path != "/tmp/env.db" {
			t.Errorf("expected db path from env, got %s", config.Database.Path)
		}
	})

	t.Run("ResolveConfig Missing File Uses Defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		config, err := ResolveConfig("does-not-exist.toml")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected default port, got %d", config.Server.Port)
		}
	})
}
