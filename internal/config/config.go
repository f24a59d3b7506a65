// Package config loads the reportd service configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendS3    = "s3"
	BackendMinio = "minio"
)

// Config holds the reportd configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Listing ListingConfig `yaml:"listing"`
	Cache   CacheConfig   `yaml:"cache"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`

	// Scopes maps a public scope name to a store prefix
	Scopes map[string]ScopeConfig `yaml:"scopes"`
}

// StoreConfig selects and configures the object store.
type StoreConfig struct {
	Backend         string  `yaml:"backend"` // s3, minio
	Bucket          string  `yaml:"bucket"`
	Region          string  `yaml:"region"`
	Endpoint        string  `yaml:"endpoint"`
	AccessKeyID     string  `yaml:"access_key_id"`
	SecretAccessKey string  `yaml:"secret_access_key"`
	UseSSL          bool    `yaml:"use_ssl"`
	ForcePathStyle  bool    `yaml:"force_path_style"`
	Timeout         string  `yaml:"timeout"`
	RateLimit       float64 `yaml:"rate_limit"` // calls per second, 0 = unlimited
	RateBurst       int     `yaml:"rate_burst"`
}

// ListingConfig configures the listing engine.
type ListingConfig struct {
	MaxKeys       int32  `yaml:"max_keys"`
	MaxPages      int    `yaml:"max_pages"`
	DefaultMonths int    `yaml:"default_months"`
	BaseURL       string `yaml:"base_url"`
	DatePolicy    string `yaml:"date_policy"` // first, last
}

// CacheConfig configures the raw listing cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	TTL     string `yaml:"ttl"`
	MaxSize int    `yaml:"max_size"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr           string `yaml:"addr"`
	RequestTimeout string `yaml:"request_timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// ScopeConfig is one listable report category.
type ScopeConfig struct {
	Prefix    string   `yaml:"prefix"`
	FileTypes []string `yaml:"file_types"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendS3,
			Timeout: "30s",
		},
		Listing: ListingConfig{
			MaxKeys:       1000,
			MaxPages:      100,
			DefaultMonths: 6,
			DatePolicy:    "first",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     "1m",
			MaxSize: 64,
		},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			RequestTimeout: "60s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Scopes: map[string]ScopeConfig{},
	}
}

// Load loads configuration from a YAML file, applies REPORTD_* environment
// overrides and validates the result. An empty path uses the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	strs := map[string]*string{
		"REPORTD_STORE_BACKEND":     &c.Store.Backend,
		"REPORTD_BUCKET":            &c.Store.Bucket,
		"REPORTD_REGION":            &c.Store.Region,
		"REPORTD_ENDPOINT":          &c.Store.Endpoint,
		"REPORTD_ACCESS_KEY_ID":     &c.Store.AccessKeyID,
		"REPORTD_SECRET_ACCESS_KEY": &c.Store.SecretAccessKey,
		"REPORTD_BASE_URL":          &c.Listing.BaseURL,
		"REPORTD_HTTP_ADDR":         &c.HTTP.Addr,
		"REPORTD_LOG_LEVEL":         &c.Logging.Level,
		"REPORTD_CACHE_TTL":         &c.Cache.TTL,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("REPORTD_USE_SSL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid REPORTD_USE_SSL: %w", err)
		}
		c.Store.UseSSL = b
	}
	if v := os.Getenv("REPORTD_MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REPORTD_MAX_PAGES: %w", err)
		}
		c.Listing.MaxPages = n
	}
	if v := os.Getenv("REPORTD_DEFAULT_MONTHS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REPORTD_DEFAULT_MONTHS: %w", err)
		}
		c.Listing.DefaultMonths = n
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendS3:
	case BackendMinio:
		if c.Store.Endpoint == "" {
			errs = append(errs, errors.New("store.endpoint is required for the minio backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}
	if c.Store.Bucket == "" {
		errs = append(errs, errors.New("store.bucket is required"))
	}
	if c.Store.RateLimit < 0 {
		errs = append(errs, errors.New("store.rate_limit cannot be negative"))
	}

	if c.Listing.MaxKeys < 1 || c.Listing.MaxKeys > 1000 {
		errs = append(errs, fmt.Errorf("listing.max_keys must be in 1..1000, got %d", c.Listing.MaxKeys))
	}
	if c.Listing.MaxPages < 1 {
		errs = append(errs, fmt.Errorf("listing.max_pages must be positive, got %d", c.Listing.MaxPages))
	}
	if c.Listing.DefaultMonths < 1 {
		errs = append(errs, fmt.Errorf("listing.default_months must be positive, got %d", c.Listing.DefaultMonths))
	}
	switch c.Listing.DatePolicy {
	case "", "first", "last":
	default:
		errs = append(errs, fmt.Errorf("unknown listing.date_policy %q", c.Listing.DatePolicy))
	}

	for name, d := range map[string]string{
		"store.timeout":        c.Store.Timeout,
		"cache.ttl":            c.Cache.TTL,
		"http.request_timeout": c.HTTP.RequestTimeout,
	} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", name, err))
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.level %q", c.Logging.Level))
	}

	for name, scope := range c.Scopes {
		if name == "" || strings.Contains(name, "/") {
			errs = append(errs, fmt.Errorf("invalid scope name %q", name))
		}
		if scope.Prefix == "" {
			errs = append(errs, fmt.Errorf("scope %q has no prefix", name))
		}
	}

	return errors.Join(errs...)
}

// StoreTimeout returns the per-call store timeout (0 = none).
func (c *Config) StoreTimeout() time.Duration {
	return parseDuration(c.Store.Timeout, 0)
}

// CacheTTL returns the listing cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.Cache.TTL, time.Minute)
}

// RequestTimeout returns the HTTP request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return parseDuration(c.HTTP.RequestTimeout, 60*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
