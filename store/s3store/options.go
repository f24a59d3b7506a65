package s3store

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"golang.org/x/time/rate"
)

// storeConfig holds the settings applied by Options.
type storeConfig struct {
	// Region overrides the region from the default credential chain
	Region string

	// Endpoint is a custom S3 endpoint URL (LocalStack, S3-compatible services)
	Endpoint string

	// ForcePathStyle addresses buckets by path instead of virtual host
	ForcePathStyle bool

	// AccessKeyID, SecretAccessKey and SessionToken are static credentials
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// MaxRetries overrides the SDK retry attempts when positive
	MaxRetries int

	// Timeout bounds each ListObjectsV2 call (0 = no timeout)
	Timeout time.Duration

	// RateLimit caps ListObjectsV2 calls per second (0 = unlimited)
	RateLimit rate.Limit

	// Burst is the limiter bucket size
	Burst int

	// AWSConfig replaces the default configuration loading
	AWSConfig *aws.Config
}

// Option configures a Store.
type Option func(*storeConfig)

// WithRegion sets the AWS region.
// If not specified, uses the region from the credential chain, then us-east-1.
func WithRegion(region string) Option {
	return func(c *storeConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) Option {
	return func(c *storeConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style bucket addressing.
func WithForcePathStyle(forcePathStyle bool) Option {
	return func(c *storeConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithStaticCredentials uses fixed credentials instead of the default chain.
func WithStaticCredentials(accessKeyID, secretAccessKey, sessionToken string) Option {
	return func(c *storeConfig) {
		c.AccessKeyID = accessKeyID
		c.SecretAccessKey = secretAccessKey
		c.SessionToken = sessionToken
	}
}

// WithMaxRetries sets the maximum number of SDK retry attempts.
func WithMaxRetries(maxRetries int) Option {
	return func(c *storeConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout bounds every listing call. A call that times out fails the
// listing with ErrListFailed; it is not reported as a cancellation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *storeConfig) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithRateLimit throttles listing calls to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *storeConfig) {
		if perSecond > 0 {
			c.RateLimit = rate.Limit(perSecond)
			c.Burst = max(1, burst)
		}
	}
}

// WithAWSConfig provides a complete AWS configuration, skipping default loading.
func WithAWSConfig(cfg *aws.Config) Option {
	return func(c *storeConfig) {
		c.AWSConfig = cfg
	}
}
