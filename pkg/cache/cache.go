// Package cache stores rendered artifacts (chart panels, Graphviz exports)
// behind a small byte-oriented interface.
//
// Three backends are provided: [NullCache] disables caching, [FileCache]
// keeps entries on local disk for the CLI, and [RedisCache] shares entries
// between dashboard replicas. Keys are built by a [Keyer] so that every
// component hashes its inputs the same way.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL-aware byte store.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// NullCache never stores anything. It backs the "none" cache setting.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

// Get always misses.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error { return nil }
func (*NullCache) Close() error { return nil }
