// Package cache stores rendered heatmap artifacts.
//
// The pipeline renders the same data, spec and sort state to the same
// bytes, so artifacts are cached under a key derived from a hash of all
// of them. Backends:
//   - [NullCache]: caching disabled
//   - [MemoryCache]: in-process, used by tests and the preview command
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for several serve instances
//
// Keys are built by a [Keyer]; [ScopedKeyer] prefixes them so different
// consumers of one backend stay apart.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// TTLArtifact is how long rendered outputs are kept.
const TTLArtifact = 7 * 24 * time.Hour
