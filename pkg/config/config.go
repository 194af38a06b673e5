package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultShutdownTimeout = 15 * time.Second

type Config struct {
	Port            string
	DatabaseURL     string
	AppEnv          string
	BaseURL         string
	LogLevel        string
	ShutdownTimeout time.Duration
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", "file:tinylink.db"),
		AppEnv:          getEnv("APP_ENV", "local"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
