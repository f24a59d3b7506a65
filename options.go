package reports

import (
	"log/slog"
	"time"

	"github.com/FPI-TW/report-sub000/reporttypes"
)

// WithMaxKeys sets the per-call item cap passed to the store.
// Values outside 1..1000 fall back to 1000.
func WithMaxKeys(maxKeys int32) reporttypes.Option {
	return func(c *reporttypes.ClientConfig) {
		c.MaxKeys = maxKeys
	}
}

// WithMaxPages sets the maximum number of store pages fetched per listing.
// Default is 100. Listings larger than MaxPages × MaxKeys objects are cut short.
func WithMaxPages(maxPages int) reporttypes.Option {
	return func(c *reporttypes.ClientConfig) {
		if maxPages > 0 {
			c.MaxPages = maxPages
		}
	}
}

// WithURLMapper sets the function mapping keys to URLs.
func WithURLMapper(mapper reporttypes.URLMapper) reporttypes.Option {
	return func(c *reporttypes.ClientConfig) {
		c.URLMapper = mapper
	}
}

// WithCache sets a raw listing cache.
// Caches that also implement reporttypes.Loader collapse concurrent misses.
func WithCache(cache reporttypes.Cache) reporttypes.Option {
	return func(c *reporttypes.ClientConfig) {
		c.Cache = cache
	}
}

// WithLoadTimeout bounds a cache load shared by concurrent callers.
// The shared load outlives a cancelled caller, so it needs its own deadline.
// Non-positive values keep DefaultLoadTimeout.
func WithLoadTimeout(timeout time.Duration) reporttypes.Option {
	return func(c *reporttypes.ClientConfig) {
		if timeout > 0 {
			c.LoadTimeout = timeout
		}
	}
}

// WithLogger sets the structured logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) reporttypes.Option {
	return func(c *reporttypes.ClientConfig) {
		c.Logger = logger
	}
}

// WithDatePolicy chooses which date wins when a key contains several.
// Default is reporttypes.DateFirstMatch.
func WithDatePolicy(policy reporttypes.DatePolicy) reporttypes.Option {
	return func(c *reporttypes.ClientConfig) {
		c.DatePolicy = policy
	}
}

// WithSkippedKeys records the keys dropped for lacking a date in Page.Diagnostics.
func WithSkippedKeys(keep bool) reporttypes.Option {
	return func(c *reporttypes.ClientConfig) {
		c.KeepSkippedKeys = keep
	}
}

// WithFileTypes restricts a listing to keys whose extension matches one of the MIME types.
func WithFileTypes(mimeTypes ...string) reporttypes.ListOption {
	return func(c *reporttypes.ListOptionConfig) {
		c.FileTypes = append(c.FileTypes, mimeTypes...)
	}
}

// WithBypassCache forces a fresh store listing for one call.
// The fresh listing still refreshes the cache.
func WithBypassCache() reporttypes.ListOption {
	return func(c *reporttypes.ListOptionConfig) {
		c.BypassCache = true
	}
}
