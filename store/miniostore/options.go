package miniostore

import (
	"time"

	"golang.org/x/time/rate"
)

// storeConfig holds the settings applied by Options.
type storeConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Secure          bool

	// Timeout bounds each page request (0 = no timeout)
	Timeout time.Duration

	// RateLimit caps page requests per second (0 = unlimited)
	RateLimit rate.Limit
	Burst     int
}

// Option configures a Store.
type Option func(*storeConfig)

// WithCredentials sets static access credentials.
func WithCredentials(accessKeyID, secretAccessKey string) Option {
	return func(c *storeConfig) {
		c.AccessKeyID = accessKeyID
		c.SecretAccessKey = secretAccessKey
	}
}

// WithRegion sets the bucket region.
func WithRegion(region string) Option {
	return func(c *storeConfig) {
		c.Region = region
	}
}

// WithSecure enables TLS to the endpoint.
func WithSecure(secure bool) Option {
	return func(c *storeConfig) {
		c.Secure = secure
	}
}

// WithTimeout bounds every page request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *storeConfig) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithRateLimit throttles page requests to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *storeConfig) {
		if perSecond > 0 {
			c.RateLimit = rate.Limit(perSecond)
			c.Burst = max(1, burst)
		}
	}
}
