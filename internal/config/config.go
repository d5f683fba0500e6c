package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config is the top-level deskhived configuration.
type Config struct {
	DBPath   string     `json:"db_path"`
	LogLevel string     `json:"log_level,omitempty"` // debug, info, warn, error
	Seed     bool       `json:"seed,omitempty"`
	HTTP     HTTPConfig `json:"http"`
}

// HTTPConfig holds the optional HTTP listener settings. A zero Port means
// stdio mode: the daemon serves JSON-RPC on stdin/stdout instead.
type HTTPConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv builds a config from environment variables with DESKHIVE_ prefix.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:   getenv("DESKHIVE_DB", "data/customer_service.db"),
		LogLevel: getenv("DESKHIVE_LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Host: getenv("DESKHIVE_HTTP_HOST", "0.0.0.0"),
			Port: getenvInt("DESKHIVE_HTTP_PORT", 0),
		},
	}
	if os.Getenv("DESKHIVE_SEED") == "1" || os.Getenv("DESKHIVE_SEED") == "true" {
		cfg.Seed = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for obvious mistakes.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: db_path is required")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: http port %d out of range", c.HTTP.Port)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
