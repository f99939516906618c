package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration, shared by the evaluation
// runner and the mock portal server.
type Config struct {
	// Client side.
	APIBaseURL         string
	HTTPTimeout        time.Duration
	CertLookupAttempts int
	CertLookupInterval time.Duration
	SubmittedAutoClose time.Duration

	// Logging.
	LogLevel  string
	LogFormat string

	// Mock portal server.
	ServerPort       string
	GinMode          string
	JWTSecret        string
	JWTExpiry        time.Duration
	CertificateDelay time.Duration
	// AllowedOrigins controls HTTP CORS for the mock server.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:8080"),
		HTTPTimeout:        time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		CertLookupAttempts: getEnvInt("CERT_LOOKUP_ATTEMPTS", 5),
		CertLookupInterval: time.Duration(getEnvInt("CERT_LOOKUP_INTERVAL_SECONDS", 2)) * time.Second,
		SubmittedAutoClose: time.Duration(getEnvInt("SUBMITTED_AUTOCLOSE_SECONDS", 15)) * time.Second,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "pretty"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		JWTSecret:          getEnv("JWT_SECRET", "change-this-to-a-secure-random-string"),
		JWTExpiry:          time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		CertificateDelay:   time.Duration(getEnvInt("CERTIFICATE_DELAY_SECONDS", 0)) * time.Second,
		AllowedOrigins:     parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
