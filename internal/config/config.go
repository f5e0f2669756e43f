package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the dashboard gateway
type Config struct {
	Host           string
	Port           string
	APIURL         string
	APITimeout     time.Duration // zero means no client-side timeout
	SessionCheck   time.Duration // zero disables periodic session revalidation
	AllowedOrigins []string
	LogLevel       string
	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Host:           getEnv("HOST", "127.0.0.1"),
		Port:           getEnv("PORT", "8080"),
		APIURL:         strings.TrimSuffix(getEnv("API_URL", "http://localhost:8000"), "/"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	apiTimeout, err := strconv.Atoi(getEnv("API_TIMEOUT", "0"))
	if err != nil || apiTimeout < 0 {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %q", os.Getenv("API_TIMEOUT"))
	}
	config.APITimeout = time.Duration(apiTimeout) * time.Second

	sessionCheck, err := strconv.Atoi(getEnv("SESSION_CHECK_INTERVAL", "300"))
	if err != nil || sessionCheck < 0 {
		return nil, fmt.Errorf("invalid SESSION_CHECK_INTERVAL: %q", os.Getenv("SESSION_CHECK_INTERVAL"))
	}
	config.SessionCheck = time.Duration(sessionCheck) * time.Second

	// Parse WebSocket timeouts
	wsReadTimeout, err := strconv.Atoi(getEnv("WS_READ_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_READ_TIMEOUT: %w", err)
	}
	config.WSReadTimeout = time.Duration(wsReadTimeout) * time.Second

	wsWriteTimeout, err := strconv.Atoi(getEnv("WS_WRITE_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_WRITE_TIMEOUT: %w", err)
	}
	config.WSWriteTimeout = time.Duration(wsWriteTimeout) * time.Second

	config.PongWait = config.WSReadTimeout
	config.PingPeriod = (config.PongWait * 9) / 10 // Must be less than pongWait
	config.WriteWait = config.WSWriteTimeout
	config.MaxMessageSize = 512

	return config, nil
}

// parseOrigins accepts a JSON array or a comma-separated list
func parseOrigins(value string) []string {
	var origins []string
	if err := json.Unmarshal([]byte(value), &origins); err != nil {
		origins = strings.Split(value, ",")
	}

	result := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin = strings.TrimSpace(origin); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
