package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/SergioPauloA/Volpz/internal/models"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// PrivilegedSector is the organizational unit allowed to register new
	// accounts.
	PrivilegedSector string

	// MaxMessageBytes bounds a single inbound websocket frame.
	MaxMessageBytes int64

	// SeedAccount is the bootstrap account present before anyone registers.
	SeedAccount models.Account
}

// Load reads configuration from environment variables.
// In development, it loads from a .env file if present. Every value has a
// default, so an empty environment yields a working server.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		PrivilegedSector: getEnv("PRIVILEGED_SECTOR", "T.I"),
		MaxMessageBytes:  getEnvInt64("WS_MAX_MESSAGE_BYTES", 8192),
		SeedAccount: models.Account{
			CPF:      getEnv("SEED_CPF", "20030321778"),
			Password: getEnv("SEED_PASSWORD", "SergioP10"),
			Name:     getEnv("SEED_NAME", "Sergio Paulo de Andrade"),
			Sector:   getEnv("SEED_SECTOR", "T.I"),
			Role:     getEnv("SEED_ROLE", "Gestor de T.I"),
		},
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}
