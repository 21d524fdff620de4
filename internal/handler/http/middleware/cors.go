// Package middleware holds optional HTTP middleware enabled by configuration.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is a whitelist of permitted origins. "*" allows any origin.
	AllowedOrigins []string

	// AllowedHeaders lists the request headers a browser may send.
	// Default: Content-Type, X-Request-ID
	AllowedHeaders []string

	// MaxAge is how long preflight results may be cached, in seconds.
	// Default: 86400
	MaxAge int

	// Logger receives rejected origins at debug level. Nil uses slog.Default().
	Logger *slog.Logger
}

// allowedMethods is fixed: the API is read-only.
var allowedMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}

// ParseOrigins splits a comma-separated origin list and validates each entry.
// Origins must use http or https and carry no path, query, fragment or
// trailing slash. "*" is accepted on its own.
func ParseOrigins(csv string) ([]string, error) {
	var origins []string
	for _, o := range strings.Split(csv, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if o == "*" {
			origins = append(origins, o)
			continue
		}

		u, err := url.Parse(o)
		if err != nil {
			return nil, fmt.Errorf("invalid origin URL '%s': %w", o, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("origin must use http or https scheme: %s", o)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("origin must include a host: %s", o)
		}
		if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
			return nil, fmt.Errorf("origin must not include path, query or fragment: %s", o)
		}
		origins = append(origins, o)
	}
	return origins, nil
}

// CORS returns middleware that answers cross-origin requests from the
// configured origins.
//
// Requests without an Origin header pass through untouched. Disallowed
// origins get no CORS headers, so the browser blocks the response. Preflight
// requests from allowed origins are answered with 204 without reaching next.
// Credentials are never allowed.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	allowAny := false
	allowed := make(map[string]bool, len(config.AllowedOrigins))
	for _, o := range config.AllowedOrigins {
		if o == "*" {
			allowAny = true
		}
		allowed[o] = true
	}
	headers := config.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type", "X-Request-ID"}
	}
	maxAge := config.MaxAge
	if maxAge <= 0 {
		maxAge = 86400
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !allowAny && !allowed[origin] {
				logger.Debug("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			if allowAny {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-Trace-Id")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(allowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(headers, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(maxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
