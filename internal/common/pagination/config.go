// Package pagination provides page arithmetic, request parameter parsing,
// validation and metrics for paged dataset access.
package pagination

import (
	"nq-browser/pkg/config"
)

// Config holds pagination configuration settings.
type Config struct {
	DefaultPage     int  // Page used when the request omits one
	DefaultPageSize int  // Records per page when the request omits page_size
	MaxPageSize     int  // Largest accepted page_size; 0 disables the check
	WindowWidth     int  // Number of page links in a pagination strip
	FallbackDefault bool // Serve the default dataset for unknown ids instead of 404
}

// DefaultConfig returns the default pagination configuration.
// Default values: page=1, page_size=10, max=100, window=5
func DefaultConfig() Config {
	return Config{
		DefaultPage:     1,
		DefaultPageSize: 10,
		MaxPageSize:     100,
		WindowWidth:     5,
	}
}

// LoadFromEnv returns DefaultConfig with environment overrides applied.
func LoadFromEnv() Config {
	return ApplyEnv(DefaultConfig())
}

// ApplyEnv overrides fields of base from environment variables.
// Supported environment variables:
//   - PAGINATION_DEFAULT_PAGE_SIZE
//   - PAGINATION_MAX_PAGE_SIZE
//   - PAGINATION_WINDOW_WIDTH
//   - PAGINATION_FALLBACK_TO_DEFAULT
//
// Unset or unparsable variables keep the value from base.
func ApplyEnv(base Config) Config {
	return Config{
		DefaultPage:     base.DefaultPage,
		DefaultPageSize: config.GetEnvInt("PAGINATION_DEFAULT_PAGE_SIZE", base.DefaultPageSize),
		MaxPageSize:     config.GetEnvInt("PAGINATION_MAX_PAGE_SIZE", base.MaxPageSize),
		WindowWidth:     config.GetEnvInt("PAGINATION_WINDOW_WIDTH", base.WindowWidth),
		FallbackDefault: config.GetEnvBool("PAGINATION_FALLBACK_TO_DEFAULT", base.FallbackDefault),
	}
}
