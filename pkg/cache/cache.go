// Package cache provides content-addressed caching for pipeline artifacts.
//
// The pack pipeline is deterministic, so the composited PNG and the encoded
// record blob can be cached against a hash of the input image set plus the
// packing options. The CLI uses a file-based cache in the XDG cache
// directory; NullCache disables caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLs for cached values. Artifacts are pure functions of their key, so the
// TTL exists only to bound disk usage, not for correctness.
const (
	// TTLArtifact is how long rendered atlas artifacts are kept.
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with TTL support.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
