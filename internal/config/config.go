package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	Port           string
	DatabaseURL    string
	AllowedOrigins []string
	AutoMigrate    bool

	// CommonLocality is appended to addresses that carry no state code.
	CommonLocality string

	GeocoderURL       string
	GeocoderUserAgent string

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	// a missing .env is fine, the environment wins anyway
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=lcr_attendance port=5432 sslmode=disable"),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		AutoMigrate:       getBool("AUTO_MIGRATE", true),
		CommonLocality:    getEnv("COMMON_LOCALITY", ""),
		GeocoderURL:       getEnv("GEOCODER_URL", ""),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "lcr-attendance-backend"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
	}
}

// JSONLogs reports whether logs should be written as JSON lines.
func (c *Config) JSONLogs() bool {
	return strings.EqualFold(c.LogFormat, "json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
