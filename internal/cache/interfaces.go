package cache

import (
	"context"
	"time"
)

// Cache stores small serialized values with a TTL. The scan service keeps the
// last-snapshot summary here so the status surface never has to touch the
// scan store on the hot path. Implementations: memory (single instance,
// development) and Redis (production).
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Close releases the cache's resources.
	Close() error
}

// CacheError is a sentinel error type for cache conditions.
type CacheError string

func (e CacheError) Error() string { return string(e) }

// ErrCacheMiss indicates the key was not found in cache.
const ErrCacheMiss CacheError = "cache miss"
