package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys for atlas artifacts. Keys must change whenever
// anything that can change the output bytes changes: the input image set or
// the packing options.
type Keyer interface {
	// ArtifactKey keys one rendered artifact (the composited PNG or the
	// encoded record blob) by input-set hash, artifact kind, and options.
	ArtifactKey(inputHash, kind string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts carries every packing option that influences placements.
type ArtifactKeyOpts struct {
	WidthBound   bool   `json:"width_bound"`
	MaxScanSteps uint64 `json:"max_scan_steps"`
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey generates a key of the form artifact:<kind>:<hash>.
func (k *DefaultKeyer) ArtifactKey(inputHash, kind string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+kind, inputHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, giving independent namespaces to
// callers that share one cache directory (e.g. per-project scopes).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(inputHash, kind string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, kind, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
