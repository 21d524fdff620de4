// Package config loads the service configuration from an optional YAML file
// overlaid with environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"nq-browser/internal/common/pagination"
	"nq-browser/internal/usecase/normalize"
	"nq-browser/pkg/config"
)

// Backend kinds.
const (
	BackendSQLite              = "sqlite"
	BackendPostgres            = "postgres"
	BackendParquetMaterialized = "parquet-materialized"
	BackendParquetStreaming    = "parquet-streaming"
)

const (
	defaultServerAddr      = ":8080"
	defaultSQLiteDSN       = "file:nq.db?mode=ro"
	defaultTablePrefix     = "natural"
	defaultPostgresSchema  = "public"
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxFieldBytes   = 1 << 20
	defaultWarmConcurrency = 4
)

// Backends lists the accepted backend kinds.
func Backends() []string {
	return []string{BackendSQLite, BackendPostgres, BackendParquetMaterialized, BackendParquetStreaming}
}

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Backend    BackendConfig    `yaml:"backend"`
	Pagination PaginationConfig `yaml:"pagination"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Cache      CacheConfig      `yaml:"cache"`
	Log        LogConfig        `yaml:"log"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

type ServerConfig struct {
	Addr               string        `yaml:"addr"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
}

type BackendConfig struct {
	Kind           string `yaml:"kind"`
	DSN            string `yaml:"dsn"`
	DataDir        string `yaml:"data_dir"`
	TablePrefix    string `yaml:"table_prefix"`
	Schema         string `yaml:"schema"`
	CircuitBreaker bool   `yaml:"circuit_breaker"`
}

// Relational reports whether the backend is served through database/sql.
func (b BackendConfig) Relational() bool {
	return b.Kind == BackendSQLite || b.Kind == BackendPostgres
}

type PaginationConfig struct {
	DefaultPageSize   int  `yaml:"default_page_size"`
	MaxPageSize       int  `yaml:"max_page_size"`
	WindowWidth       int  `yaml:"window_width"`
	FallbackToDefault bool `yaml:"fallback_to_default"`
}

type NormalizerConfig struct {
	Strategy      string `yaml:"strategy"`
	MaxFieldBytes int    `yaml:"max_field_bytes"`
}

type CacheConfig struct {
	WarmOnStart     bool `yaml:"warm_on_start"`
	WarmConcurrency int  `yaml:"warm_concurrency"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when neither file nor environment set a value.
func Default() *Config {
	p := pagination.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:               defaultServerAddr,
			RequestTimeout:     defaultRequestTimeout,
			ShutdownTimeout:    defaultShutdownTimeout,
			CORSAllowedOrigins: []string{"*"},
		},
		Backend: BackendConfig{
			Kind:        BackendSQLite,
			DSN:         defaultSQLiteDSN,
			DataDir:     "data",
			TablePrefix: defaultTablePrefix,
			Schema:      defaultPostgresSchema,
		},
		Pagination: PaginationConfig{
			DefaultPageSize: p.DefaultPageSize,
			MaxPageSize:     p.MaxPageSize,
			WindowWidth:     p.WindowWidth,
		},
		Normalizer: NormalizerConfig{
			Strategy:      normalize.Structural,
			MaxFieldBytes: defaultMaxFieldBytes,
		},
		Cache: CacheConfig{WarmConcurrency: defaultWarmConcurrency},
		Log:   LogConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// when path is not empty, then environment variables, and validates the result.
// The path is expected to come from a trusted source such as a CLI flag.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 -- path is provided by the operator, not by request input
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = config.GetEnvString("SERVER_ADDR", c.Server.Addr)
	c.Server.RequestTimeout = config.GetEnvDuration("SERVER_REQUEST_TIMEOUT", c.Server.RequestTimeout)
	c.Server.ShutdownTimeout = config.GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.CORSAllowedOrigins = config.GetEnvStringList("CORS_ALLOWED_ORIGINS", c.Server.CORSAllowedOrigins)

	c.Backend.Kind = config.GetEnvString("BACKEND_KIND", c.Backend.Kind)
	c.Backend.DSN = config.GetEnvString("DATABASE_URL", c.Backend.DSN)
	c.Backend.DataDir = config.GetEnvString("DATA_DIR", c.Backend.DataDir)
	c.Backend.TablePrefix = config.GetEnvString("TABLE_PREFIX", c.Backend.TablePrefix)
	c.Backend.Schema = config.GetEnvString("DATABASE_SCHEMA", c.Backend.Schema)
	c.Backend.CircuitBreaker = config.GetEnvBool("DATABASE_CIRCUIT_BREAKER", c.Backend.CircuitBreaker)

	p := pagination.ApplyEnv(c.PaginationConfig())
	c.Pagination = PaginationConfig{
		DefaultPageSize:   p.DefaultPageSize,
		MaxPageSize:       p.MaxPageSize,
		WindowWidth:       p.WindowWidth,
		FallbackToDefault: p.FallbackDefault,
	}

	c.Normalizer.Strategy = config.GetEnvString("NORMALIZER_STRATEGY", c.Normalizer.Strategy)
	c.Normalizer.MaxFieldBytes = config.GetEnvInt("NORMALIZER_MAX_FIELD_BYTES", c.Normalizer.MaxFieldBytes)

	c.Cache.WarmOnStart = config.GetEnvBool("CACHE_WARM_ON_START", c.Cache.WarmOnStart)
	c.Cache.WarmConcurrency = config.GetEnvInt("CACHE_WARM_CONCURRENCY", c.Cache.WarmConcurrency)

	c.Log.Level = config.GetEnvString("LOG_LEVEL", c.Log.Level)
	c.Log.Format = config.GetEnvString("LOG_FORMAT", c.Log.Format)

	c.Tracing.Enabled = config.GetEnvBool("TRACING_ENABLED", c.Tracing.Enabled)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if err := config.ValidatePositiveDuration("server.request_timeout", c.Server.RequestTimeout); err != nil {
		errs = append(errs, err)
	}
	if err := config.ValidateNonNegativeDuration("server.shutdown_timeout", c.Server.ShutdownTimeout); err != nil {
		errs = append(errs, err)
	}

	switch {
	case !slices.Contains(Backends(), c.Backend.Kind):
		errs = append(errs, fmt.Errorf("backend.kind %q is not one of %v", c.Backend.Kind, Backends()))
	case c.Backend.Relational() && c.Backend.DSN == "":
		errs = append(errs, fmt.Errorf("backend.dsn is required for %s", c.Backend.Kind))
	case !c.Backend.Relational() && c.Backend.DataDir == "":
		errs = append(errs, fmt.Errorf("backend.data_dir is required for %s", c.Backend.Kind))
	}
	if c.Backend.Kind == BackendPostgres && c.Backend.Schema == "" {
		errs = append(errs, errors.New("backend.schema is required for postgres"))
	}

	if c.Pagination.DefaultPageSize <= 0 {
		errs = append(errs, errors.New("pagination.default_page_size must be positive"))
	}
	if c.Pagination.MaxPageSize < 0 {
		errs = append(errs, errors.New("pagination.max_page_size must not be negative"))
	}
	if c.Pagination.MaxPageSize > 0 && c.Pagination.DefaultPageSize > c.Pagination.MaxPageSize {
		errs = append(errs, fmt.Errorf("pagination.default_page_size %d exceeds max_page_size %d",
			c.Pagination.DefaultPageSize, c.Pagination.MaxPageSize))
	}
	if c.Pagination.WindowWidth <= 0 {
		errs = append(errs, errors.New("pagination.window_width must be positive"))
	}

	if c.Normalizer.Strategy != "" && !slices.Contains(normalize.Strategies(), c.Normalizer.Strategy) {
		errs = append(errs, fmt.Errorf("normalizer.strategy %q is not one of %v", c.Normalizer.Strategy, normalize.Strategies()))
	}
	if c.Normalizer.MaxFieldBytes < 0 {
		errs = append(errs, errors.New("normalizer.max_field_bytes must not be negative"))
	}

	if c.Cache.WarmConcurrency <= 0 {
		errs = append(errs, errors.New("cache.warm_concurrency must be positive"))
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", c.Log.Format))
	}

	return errors.Join(errs...)
}

// PaginationConfig converts the pagination section for the dataset service.
func (c *Config) PaginationConfig() pagination.Config {
	p := pagination.DefaultConfig()
	p.DefaultPageSize = c.Pagination.DefaultPageSize
	p.MaxPageSize = c.Pagination.MaxPageSize
	p.WindowWidth = c.Pagination.WindowWidth
	p.FallbackDefault = c.Pagination.FallbackToDefault
	return p
}

// NormalizeOptions converts the normalizer section.
func (c *Config) NormalizeOptions() normalize.Options {
	return normalize.Options{MaxFieldBytes: c.Normalizer.MaxFieldBytes}
}
