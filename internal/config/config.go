package config

import (
	"os"
	"strconv"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Hardware HardwareConfig
	LogLevel string
}

// ServerConfig holds the HTTP surface settings
type ServerConfig struct {
	Port string
}

// StoreConfig holds snapshot store settings
type StoreConfig struct {
	Path string
}

// HardwareConfig holds device limit resolution settings
type HardwareConfig struct {
	PresetPath string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8085"),
		},
		Store: StoreConfig{
			Path: getEnvOrDefault("SNAPSHOT_DB", "protocols.db"),
		},
		Hardware: HardwareConfig{
			PresetPath: getEnvOrDefault("HARDWARE_PRESET", ""),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}
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
