package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/quillworks/quill/pkg/cryptox"
	"github.com/quillworks/quill/pkg/jwtx"
)

type Config struct {
	JWTSecret []byte        // Required: shared HS256 secret, min 32 bytes
	Issuer    string        // Optional: issuer claim for tokens (default: quill-auth)
	AccessTTL time.Duration // Optional: access token lifetime (default: 15m)

	RefreshTTL time.Duration // Optional: refresh cookie lifetime (default: 720h)
	BcryptCost int           // Optional: bcrypt cost factor (default: 12)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./auth.db)
	ClientBaseURL       string        // Optional: allowed CORS origin (default: http://localhost:5173)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() (Config, error) {
	cfg := Config{
		JWTSecret:           []byte(os.Getenv("AUTH_JWT_SECRET")),
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "quill-auth"),
		AccessTTL:           getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:          getEnvDurationOrDefault("REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		BcryptCost:          getEnvIntOrDefault("BCRYPT_COST", cryptox.DefaultBcryptCost),
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "auth.db"),
		ClientBaseURL:       getEnvOrDefault("CLIENT_BASE_URL", "http://localhost:5173"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if len(cfg.JWTSecret) < jwtx.MinSecretLen {
		return Config{}, errors.New("AUTH_JWT_SECRET must be set to at least 32 bytes")
	}

	return cfg, nil
}

// IsProd reports whether cookies should be Secure + SameSite=None.
func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "staging"
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
