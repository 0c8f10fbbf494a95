package config

import (
	"os"
	"strconv"

	"pulse311/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Map    MapConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds the table source settings
type DataConfig struct {
	// File is the backing 311 export. Empty means: probe the data
	// directory for the well-known file names.
	File string
	// Dir is where probing looks when File is unset.
	Dir string
}

// MapConfig holds map output shaping settings
type MapConfig struct {
	PointCap int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Data: DataConfig{
			File: getEnvOrDefault("DATA_FILE", ""),
			Dir:  getEnvOrDefault("DATA_DIR", "."),
		},
		Map: MapConfig{
			PointCap: getEnvIntOrDefault("MAP_POINT_CAP", 3000),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if config.Map.PointCap <= 0 {
		return errors.ConfigInvalid("MAP_POINT_CAP must be positive")
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
