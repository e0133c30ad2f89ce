package config

import (
	"os"
	"strconv"

	"carprice/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	UI       UIConfig
	Paths    PathConfig
	Database DatabaseConfig
}

// ServerConfig holds prediction API server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// UIConfig holds web UI settings
type UIConfig struct {
	Port   string
	APIURL string
}

// PathConfig holds artifact file system paths
type PathConfig struct {
	ModelPath string
	MetaPath  string
}

// DatabaseConfig holds the optional prediction audit log connection.
// An empty URL disables audit logging entirely.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8000"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		UI: UIConfig{
			Port:   getEnvOrDefault("UI_PORT", "8080"),
			APIURL: getEnvOrDefault("API_URL", "http://localhost:8000"),
		},
		Paths: PathConfig{
			ModelPath: getEnvOrDefault("MODEL_PATH", "models/rf_model.gob"),
			MetaPath:  getEnvOrDefault("META_PATH", "models/metadata.json"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.UI.Port == "" {
		return errors.ConfigInvalid("UI port is required")
	}
	if config.Paths.ModelPath == "" || config.Paths.MetaPath == "" {
		return errors.ConfigInvalid("model and metadata paths are required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
