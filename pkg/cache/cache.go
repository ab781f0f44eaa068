// Package cache stores encoded frames so seeded runs can be replayed
// without recomputing them.
//
// A frame is only cacheable when it is fully determined by its parameters,
// i.e. when a seed was given. Backends:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per key under the XDG cache directory
//   - [RedisCache]: shared cache for a farm of test runners
//
// Keys come from a [Keyer] so callers never build them by hand.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// FrameKeyOpts are the parameters that fully determine a seeded frame.
type FrameKeyOpts struct {
	Stars    int     `json:"stars"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Seed     uint64  `json:"seed"`
	Sigma    float64 `json:"sigma"`
	Boundary string  `json:"boundary"`
	Format   string  `json:"format"`
	Object   string  `json:"object"`
}

// Keyer builds cache keys.
type Keyer interface {
	FrameKey(opts FrameKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FrameKey returns "frame:<sha256 of opts>".
func (DefaultKeyer) FrameKey(opts FrameKeyOpts) string {
	return hashKey("frame", opts)
}
