// Package cache memoises registry lookups between scans.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (--no-cache)
//   - [MemoryCache]: lives for one process, the default
//   - [FileCache]: JSON entries on disk with an expiry (--cache-dir)
//
// Values are opaque bytes; callers encode and decode them. Keys are built
// with [SearchKey] so that every backend sees the same namespace.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a registry entry stays valid in a persistent cache.
const DefaultTTL = 24 * time.Hour

// Cache stores byte values by key.
type Cache interface {
	// Get returns the value for key. A miss is reported with ok=false and
	// a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
