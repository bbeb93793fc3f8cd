package config

import (
	"os"
	"strconv"
	"strings"
)

// Store drivers
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string
	// Storage
	StoreDriver string
	SQLitePath  string
	DatabaseURL string
	// Change tracking
	ExcludedPathMarkers []string // nil means use the vocabulary defaults
	ToolVocabularyFile  string
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         env,
		CORSOrigins:         getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:         getTablePrefix(env),
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", StoreSQLite)),
		SQLitePath:          getEnv("SQLITE_PATH", "filetrack.db"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		ExcludedPathMarkers: splitList(os.Getenv("EXCLUDED_PATH_MARKERS")),
		ToolVocabularyFile:  getEnv("TOOL_VOCABULARY_FILE", ""),
		LogDir:              getEnv("LOG_DIR", ""),
		LogMaxFiles:         getEnvInt("LOG_MAX_FILES", 10),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

// splitList parses a comma-separated value, dropping blanks.
// Returns nil for an empty input so callers can fall back to defaults.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
