package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// PlaceholderAPIKey is the api_key value shipped in the example config.
const PlaceholderAPIKey = "YOUR_OMDB_API_KEY"

// Environment variables that override values from config.toml.
const (
	EnvAPIKey = "MOVIEVAULT_OMDB_API_KEY"
	EnvDBPath = "MOVIEVAULT_DB_PATH"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	OMDb        OMDbConfig        `toml:"omdb"`
	Search      SearchConfig      `toml:"search"`
	Database    DatabaseConfig    `toml:"database"`
	Storage     StorageConfig     `toml:"storage"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains provider credentials.
type CredentialsConfig struct {
	OMDb OMDbCredentials `toml:"omdb"`
}

// OMDbCredentials contains the OMDb API key and endpoint.
type OMDbCredentials struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// OMDbConfig tunes requests to the provider.
type OMDbConfig struct {
	SearchTimeout     time.Duration `toml:"search_timeout"`
	DetailsTimeout    time.Duration `toml:"details_timeout"`
	RequestsPerSecond float64       `toml:"requests_per_second"`
}

// SearchConfig tunes the typeahead.
type SearchConfig struct {
	Debounce           time.Duration `toml:"debounce"`
	MinTypeaheadLength int           `toml:"min_typeahead_length"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// StorageConfig bounds the key-value store.
type StorageConfig struct {
	MaxValueBytes int           `toml:"max_value_bytes"`
	WatchInterval time.Duration `toml:"watch_interval"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// APIKeySet reports whether a usable OMDb key is configured.
func (c *Config) APIKeySet() bool {
	key := strings.TrimSpace(c.Credentials.OMDb.APIKey)
	return key != "" && key != PlaceholderAPIKey && len(key) >= 6
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig loads path when it exists (defaults otherwise), then applies
// overrides from the environment and an optional .env file.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	ApplyEnv(config)
	return config, nil
}

// ApplyEnv overrides config values with MOVIEVAULT_* environment variables.
func ApplyEnv(c *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.Credentials.OMDb.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDBPath)); v != "" {
		c.Database.Path = v
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
