// internal/config/config.go
package config

import (
	"os"
	"strings"
	"time"
)

type AppConfig struct {
	// Server
	HTTPAddr string

	// Backend
	APIBaseURL string
	WSBaseURL  string
	UserID     string

	// Auth token source: "env" or "keyring"
	TokenSource    string
	TokenEnvKey    string
	KeyringService string
	KeyringKey     string
	KeyringFileDir string

	// Storage backend: "sqlite" or "redis"
	StorageDriver string
	SQLitePath    string
	RedisAddr     string
	RedisPass     string
	RedisDB       int

	// Socket
	ReconnectWait time.Duration
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr: getEnv("HTTP_ADDR", ":8787"),

		APIBaseURL: getEnv("COOPWISE_API_URL", "https://coopwise.onrender.com"),
		WSBaseURL:  getEnv("COOPWISE_WS_URL", "wss://coopwise.onrender.com"),
		UserID:     getEnv("COOPWISE_USER_ID", ""),

		TokenSource:    strings.ToLower(getEnv("TOKEN_SOURCE", "keyring")),
		TokenEnvKey:    getEnv("TOKEN_ENV_KEY", "COOPWISE_TOKEN"),
		KeyringService: getEnv("KEYRING_SERVICE", "coopwise"),
		KeyringKey:     getEnv("KEYRING_KEY", "access_token"),
		KeyringFileDir: getEnv("KEYRING_FILE_DIR", "~/.config/coopwise/credentials"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "sqlite")),
		SQLitePath:    getEnv("SQLITE_PATH", "coopwise-notifications.db"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:     getEnv("REDIS_PASS", ""),
		RedisDB:       0,

		ReconnectWait: getEnvDuration("SOCKET_RECONNECT_WAIT", 5*time.Second),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
