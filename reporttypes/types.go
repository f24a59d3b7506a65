// Package reporttypes provides shared type definitions for the report listing module.
package reporttypes

import (
	"context"
	"log/slog"
	"time"
)

// RawObject represents a store object as returned by a listing call.
type RawObject struct {
	// Key is the object key (path)
	Key string

	// LastModified is when the object was last modified (zero if unknown)
	LastModified time.Time

	// Size is the object size in bytes
	Size int64

	// ETag is the entity tag for the object
	ETag string
}

// ListPage is one raw page of a store listing.
// It is unrelated to the pagination Page served to callers.
type ListPage struct {
	// Objects contains the objects of this store page
	Objects []RawObject

	// NextToken continues the listing; empty when there is nothing left
	NextToken string

	// IsTruncated indicates whether more results are available
	IsTruncated bool
}

// PageSource is the store listing primitive: one page of objects under prefix.
// An empty token requests the first page; maxKeys caps the objects returned.
type PageSource interface {
	ListPage(ctx context.Context, prefix, token string, maxKeys int32) (*ListPage, error)
}

// PageSourceFunc adapts a function to PageSource.
type PageSourceFunc func(ctx context.Context, prefix, token string, maxKeys int32) (*ListPage, error)

// ListPage calls f.
func (f PageSourceFunc) ListPage(ctx context.Context, prefix, token string, maxKeys int32) (*ListPage, error) {
	return f(ctx, prefix, token, maxKeys)
}

// DatedItem is a listed object annotated with the date found in its key.
type DatedItem struct {
	Key  string `json:"key"`
	Date string `json:"date"` // YYYY-MM-DD
	URL  string `json:"url"`
}

// Group is a bucket of items sharing the same calendar year and month.
type Group struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Items []DatedItem `json:"items"`
}

// Page is a bounded slice of the ordered groups of one listing scope.
type Page struct {
	Page          int     `json:"page"`
	GroupsPerPage int     `json:"months"`
	HasPrev       bool    `json:"hasPrev"`
	HasNext       bool    `json:"hasNext"`
	Groups        []Group `json:"groups"`
	TotalGroups   int     `json:"totalGroups"`

	// Diagnostics describes how the page was built. Never serialized.
	Diagnostics Diagnostics `json:"-"`
}

// Diagnostics reports what a listing dropped or cut short.
type Diagnostics struct {
	// SkippedCount is the number of keys without a recognizable date
	SkippedCount int

	// SkippedKeys lists those keys when the client keeps them (WithSkippedKeys)
	SkippedKeys []string

	// FilteredCount is the number of keys rejected by the file type filter
	FilteredCount int

	// PagesFetched is the number of store pages requested
	PagesFetched int

	// BoundReached is set when the page fetch bound stopped the listing early
	BoundReached bool

	// FromCache is set when the raw listing came from the listing cache
	FromCache bool
}

// URLMapper maps a store key to a fetchable URL.
type URLMapper func(key string) string

// Listing is a complete raw listing of one prefix as stored in a Cache.
type Listing struct {
	Objects      []RawObject
	PagesFetched int
	BoundReached bool
}

// Cache memoizes raw listings.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the listing stored under key, if present and fresh.
	Get(key string) (*Listing, bool)

	// Set stores a listing under key.
	Set(key string, listing *Listing)
}

// Loader is implemented by caches that can collapse concurrent misses.
// Load returns the cached listing or the result of fn, and whether it was a cache hit.
// ctx bounds how long this caller waits; it does not cancel a shared fn call.
type Loader interface {
	Load(ctx context.Context, key string, fn func() (*Listing, error)) (*Listing, bool, error)
}

// DatePolicy selects which date-shaped substring of a key wins.
type DatePolicy int

const (
	// DateFirstMatch uses the first valid date in key order
	DateFirstMatch DatePolicy = iota

	// DateLastMatch uses the last valid date in key order
	DateLastMatch
)

// ClientConfig holds configuration options for the listing client.
type ClientConfig struct {
	// MaxKeys is the per-call item cap passed to the store (1-1000)
	MaxKeys int32

	// MaxPages bounds the number of store pages fetched per listing
	MaxPages int

	// URLMapper maps keys to URLs; identity when nil
	URLMapper URLMapper

	// Cache is an optional raw listing cache
	Cache Cache

	// LoadTimeout bounds a cache load shared by concurrent callers
	LoadTimeout time.Duration

	// Logger receives structured logs; discarded when nil
	Logger *slog.Logger

	// DatePolicy chooses between multiple dates in one key
	DatePolicy DatePolicy

	// KeepSkippedKeys records skipped keys in Diagnostics
	KeepSkippedKeys bool
}

// Option represents a functional option for configuring the client.
type Option func(*ClientConfig)

// ListOptionConfig holds per-call listing options.
type ListOptionConfig struct {
	// FileTypes restricts the listing to keys whose extension matches one of these MIME types
	FileTypes []string

	// BypassCache forces a fresh store listing
	BypassCache bool
}

// ListOption represents a functional option for a single listing call.
type ListOption func(*ListOptionConfig)
