// Package config reads typed settings from environment variables.
//
// Every getter returns its default when the variable is unset or empty.
// Malformed values are logged at warn level and also yield the default, so
// a typo never stops the process from starting.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the value of key or defaultValue when it is unset or empty.
//
// Example:
//
//	addr := GetEnvString("SERVER_ADDR", ":8080")
func GetEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt returns the value of key parsed as a base-10 integer.
//
// Example:
//
//	size := GetEnvInt("PAGINATION_DEFAULT_PAGE_SIZE", 10)
func GetEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		warnInvalid(key, raw, strconv.Itoa(defaultValue), err)
		return defaultValue
	}
	return value
}

// GetEnvBool returns the value of key parsed with strconv.ParseBool.
func GetEnvBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		warnInvalid(key, raw, strconv.FormatBool(defaultValue), err)
		return defaultValue
	}
	return value
}

// GetEnvDuration returns the value of key parsed with time.ParseDuration ("30s", "1m30s").
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		warnInvalid(key, raw, defaultValue.String(), err)
		return defaultValue
	}
	return value
}

// GetEnvStringList splits the value of key on commas, trimming blanks and
// dropping empty items. A value with no items yields defaultValue.
//
// Example:
//
//	// CORS_ALLOWED_ORIGINS="http://localhost:3000, https://nq.example.com"
//	origins := GetEnvStringList("CORS_ALLOWED_ORIGINS", nil)
func GetEnvStringList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var result []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

func warnInvalid(key, raw, fallback string, err error) {
	slog.Warn("invalid value for environment variable, using default",
		slog.String("key", key),
		slog.String("value", raw),
		slog.String("default", fallback),
		slog.String("error", err.Error()))
}
