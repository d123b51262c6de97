package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Import   ImportConfig
	Quote    QuoteConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// ImportConfig holds CSV import policy knobs.
//
// AllowDuplicates controls the duplicate-transaction policy: when false
// (the default) a row whose dedup key already exists in the ledger is
// skipped and reported as a row error.
type ImportConfig struct {
	MaxRows          int
	PreviewCap       int
	AllowDuplicates  bool
	DecimalSeparator rune
}

// QuoteConfig holds market quote lookup configuration.
// RefreshSchedule is a cron expression for the background price refresh.
type QuoteConfig struct {
	RefreshSchedule string
	CacheTTLMinutes int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	sep := getEnv("CSV_DECIMAL_SEPARATOR", ".")
	if sep != "." && sep != "," {
		return nil, fmt.Errorf("CSV_DECIMAL_SEPARATOR must be '.' or ',', got %q", sep)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/wealth_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Import: ImportConfig{
			MaxRows:          getEnvInt("IMPORT_MAX_ROWS", 10000),
			PreviewCap:       getEnvInt("IMPORT_PREVIEW_CAP", 500),
			AllowDuplicates:  getEnvBool("IMPORT_ALLOW_DUPLICATES", false),
			DecimalSeparator: rune(sep[0]),
		},
		Quote: QuoteConfig{
			RefreshSchedule: getEnv("QUOTE_REFRESH_SCHEDULE", "0 * * * *"),
			CacheTTLMinutes: getEnvInt("QUOTE_CACHE_TTL_MINUTES", 60),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
