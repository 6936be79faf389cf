package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/quillworks/quill/pkg/jwtx"
)

type Config struct {
	JWTSecret []byte // Required: shared HS256 secret, must match the auth service
	Issuer    string // Optional: expected issuer claim (default: quill-auth)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./posts.db)
	ClientBaseURL       string        // Optional: allowed CORS origin (default: http://localhost:5173)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8081)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() (Config, error) {
	cfg := Config{
		JWTSecret:           []byte(os.Getenv("AUTH_JWT_SECRET")),
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "quill-auth"),
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "posts.db"),
		ClientBaseURL:       getEnvOrDefault("CLIENT_BASE_URL", "http://localhost:5173"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8081),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if len(cfg.JWTSecret) < jwtx.MinSecretLen {
		return Config{}, errors.New("AUTH_JWT_SECRET must be set to at least 32 bytes")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
