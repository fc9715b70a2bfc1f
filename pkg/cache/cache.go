// Package cache provides content-addressed caching for packing results.
//
// Packing is deterministic for a given input, ratio and seed, so results are
// cached under a hash of exactly those values. The [Cache] interface is
// implemented by several backends:
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared in-memory cache for API deployments
//   - [MongoCache]: durable document cache with a TTL index
//   - [TieredCache]: a fast front cache backed by a durable one
//   - [NullCache]: caching disabled
//
// Cache keys are built by a [Keyer] so that callers never format keys by
// hand. [ScopedKeyer] adds a prefix for isolating tenants or environments.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores opaque byte values by key.
//
// Get reports a miss with found == false and a nil error. Implementations are
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs. Results never go stale, so these only bound storage.
const (
	TTLPack  = 30 * 24 * time.Hour
	TTLChart = 7 * 24 * time.Hour
)

// keyVersion is bumped whenever the packer's output for a given input changes.
const keyVersion = "v1"

// =============================================================================
// Keyer
// =============================================================================

// Keyer builds cache keys.
type Keyer interface {
	// PackKey returns the key for a packing of the radii hashed as inputHash.
	PackKey(inputHash string, opts PackKeyOpts) string

	// ChartKey returns the key for a chart layout of the given kind.
	ChartKey(kind, inputHash string, opts ChartKeyOpts) string
}

// PackKeyOpts are the packing options that change the result.
type PackKeyOpts struct {
	Ratio float64 `json:"ratio"`
	Seed  uint64  `json:"seed"`
}

// ChartKeyOpts are the chart options that change the result.
type ChartKeyOpts struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Gap       float64 `json:"gap,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Padding   float64 `json:"padding,omitempty"`
	Seed      uint64  `json:"seed"`
}

// DefaultKeyer hashes every key component with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PackKey returns "pack:<hash>".
func (DefaultKeyer) PackKey(inputHash string, opts PackKeyOpts) string {
	return hashKey("pack", keyVersion, inputHash, opts)
}

// ChartKey returns "chart:<kind>:<hash>".
func (DefaultKeyer) ChartKey(kind, inputHash string, opts ChartKeyOpts) string {
	return hashKey("chart:"+kind, keyVersion, inputHash, opts)
}

// KeyType returns the part of key before its hash, e.g. "pack" or
// "chart:cards". It is used to label cache events.
func KeyType(key string) string {
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
