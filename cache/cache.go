// Package cache provides a time-bounded memoization of raw prefix listings.
//
// The listing engine itself keeps no state between requests. A ListingCache is
// an explicit collaborator handed to the client with reports.WithCache; pages
// are still recomputed from the cached listing on every request. Entries are
// keyed by prefix: file type filters apply after the cache.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/FPI-TW/report-sub000/reporttypes"
)

var _ reporttypes.Loader = (*ListingCache)(nil)

// DefaultTTL is used when New is given a non-positive TTL.
const DefaultTTL = time.Minute

// entry represents a single cached listing with expiration time.
type entry struct {
	listing    *reporttypes.Listing
	expiration time.Time
}

// ListingCache is a thread-safe in-memory listing cache with TTL support.
// Concurrent loads of the same key share a single store listing.
type ListingCache struct {
	// entries holds the cached listings with their expiration times
	entries map[string]*entry

	// maxSize limits the number of entries in the cache (0 = unlimited)
	maxSize int

	// ttl is the time-to-live for cache entries
	ttl time.Duration

	// now is the clock, replaceable in tests
	now func() time.Time

	// group collapses concurrent loads of one key
	group singleflight.Group

	// mu protects concurrent access to the entries map
	mu sync.Mutex
}

// New creates a listing cache with the given TTL and maximum size.
// If maxSize is 0, the cache has no size limit.
func New(ttl time.Duration, maxSize int) *ListingCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ListingCache{
		entries: make(map[string]*entry),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves a listing by key.
// Returns false if the key is missing or expired.
func (c *ListingCache) Get(key string) (*reporttypes.Listing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiration) {
		delete(c.entries, key)
		return nil, false
	}
	return e.listing, true
}

// Set stores a listing under key.
// If the cache is at maximum capacity, the entry closest to expiry is evicted.
func (c *ListingCache) Set(key string, listing *reporttypes.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldest time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.expiration.Before(oldest) {
				oldestKey, oldest = k, e.expiration
			}
		}
		delete(c.entries, oldestKey)
	}

	c.entries[key] = &entry{
		listing:    listing,
		expiration: c.now().Add(c.ttl),
	}
}

// Load returns the cached listing for key or calls fn to produce it.
// Concurrent callers missing the same key wait for one fn call.
// The boolean reports whether the listing was served from the cache.
// Failed loads are not cached.
//
// A caller whose ctx is done stops waiting and gets ctx.Err(); the shared
// fn call keeps running for the remaining callers and still fills the cache.
// fn must therefore not depend on any single caller's context.
func (c *ListingCache) Load(
	ctx context.Context,
	key string,
	fn func() (*reporttypes.Listing, error),
) (*reporttypes.Listing, bool, error) {
	if listing, ok := c.Get(key); ok {
		return listing, true, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	ch := c.group.DoChan(key, func() (any, error) {
		if listing, ok := c.Get(key); ok {
			return listing, nil
		}
		listing, err := fn()
		if err != nil {
			return nil, err
		}
		c.Set(key, listing)
		return listing, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*reporttypes.Listing), false, nil
	}
}

// Delete removes a specific key from the cache.
func (c *ListingCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all entries from the cache.
func (c *ListingCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Size returns the current number of unexpired entries.
func (c *ListingCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiration) {
			delete(c.entries, key)
		}
	}
	return len(c.entries)
}
