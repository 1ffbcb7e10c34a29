// Package cache provides the storage layer for layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing (--no-cache, tests)
//
// # Keys
//
// Keys are derived by a [Keyer] from content hashes, never from mutable ids:
// a layout key hashes the snapshot bytes together with every option that
// affects the layout, and an artifact key hashes the layout bytes together
// with the output format and style. Editing the family data therefore never
// returns a stale layout.
//
// # Retries
//
// Network backends wrap transient failures with [Retryable] and connect
// through [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Default time-to-live per entry kind.
const (
	TTLSnapshot = 5 * time.Minute
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
