package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
store:
  backend: minio
  bucket: reports
  endpoint: localhost:9000
  access_key_id: minioadmin
  secret_access_key: minioadmin
  timeout: 5s
listing:
  max_keys: 500
  base_url: https://cdn.example.com/reports
  date_policy: last
cache:
  ttl: 2m
  max_size: 8
scopes:
  daily:
    prefix: daily-report/pdf/
    file_types: [application/pdf]
  weekly:
    prefix: weekly-report/pdf/
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reportd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestLoad tests loading a YAML file on top of the defaults.
func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, BackendMinio, cfg.Store.Backend)
	assert.Equal(t, "reports", cfg.Store.Bucket)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout())
	assert.Equal(t, int32(500), cfg.Listing.MaxKeys)
	assert.Equal(t, 100, cfg.Listing.MaxPages)
	assert.Equal(t, 6, cfg.Listing.DefaultMonths)
	assert.Equal(t, "last", cfg.Listing.DatePolicy)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)

	require.Len(t, cfg.Scopes, 2)
	assert.Equal(t, "daily-report/pdf/", cfg.Scopes["daily"].Prefix)
	assert.Equal(t, []string{"application/pdf"}, cfg.Scopes["daily"].FileTypes)
	assert.Empty(t, cfg.Scopes["weekly"].FileTypes)
}

// TestLoad_EnvOverrides tests REPORTD_* environment overrides.
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REPORTD_BUCKET", "other-bucket")
	t.Setenv("REPORTD_HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("REPORTD_MAX_PAGES", "20")
	t.Setenv("REPORTD_DEFAULT_MONTHS", "3")
	t.Setenv("REPORTD_USE_SSL", "true")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "other-bucket", cfg.Store.Bucket)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, 20, cfg.Listing.MaxPages)
	assert.Equal(t, 3, cfg.Listing.DefaultMonths)
	assert.True(t, cfg.Store.UseSSL)
}

// TestLoad_Errors tests unreadable, unparsable and invalid configurations.
func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "store: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("REPORTD_MAX_PAGES", "many")
		_, err := Load(writeConfig(t, sampleConfig))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REPORTD_MAX_PAGES")
	})

	t.Run("defaults need a bucket", func(t *testing.T) {
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store.bucket is required")
	})
}

// TestConfig_Validate tests validation rules.
func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Store.Bucket = "reports"
		cfg.Scopes["daily"] = ScopeConfig{Prefix: "daily-report/pdf/"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "gcs" }, wantErr: "unknown store.backend"},
		{name: "minio without endpoint", mutate: func(c *Config) { c.Store.Backend = BackendMinio }, wantErr: "store.endpoint is required"},
		{name: "max keys too large", mutate: func(c *Config) { c.Listing.MaxKeys = 5000 }, wantErr: "listing.max_keys"},
		{name: "zero max pages", mutate: func(c *Config) { c.Listing.MaxPages = 0 }, wantErr: "listing.max_pages"},
		{name: "zero default months", mutate: func(c *Config) { c.Listing.DefaultMonths = 0 }, wantErr: "listing.default_months"},
		{name: "bad date policy", mutate: func(c *Config) { c.Listing.DatePolicy = "middle" }, wantErr: "listing.date_policy"},
		{name: "bad duration", mutate: func(c *Config) { c.Cache.TTL = "soon" }, wantErr: "invalid cache.ttl"},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "negative rate limit", mutate: func(c *Config) { c.Store.RateLimit = -1 }, wantErr: "store.rate_limit"},
		{name: "scope without prefix", mutate: func(c *Config) { c.Scopes["empty"] = ScopeConfig{} }, wantErr: "has no prefix"},
		{name: "scope name with slash", mutate: func(c *Config) { c.Scopes["a/b"] = ScopeConfig{Prefix: "x/"} }, wantErr: "invalid scope name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestConfig_Durations tests duration fallbacks.
func TestConfig_Durations(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 30*time.Second, cfg.StoreTimeout())
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout())

	cfg.Store.Timeout = ""
	cfg.HTTP.RequestTimeout = "nonsense"
	assert.Equal(t, time.Duration(0), cfg.StoreTimeout())
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout())
}
