package cache

import (
	"context"
	"errors"
	"time"
)

// TieredCache reads through a fast front cache to a durable back cache.
//
// Writes go to both tiers. A back-tier hit is copied into the front tier
// with BackfillTTL, since the back tier does not report how long the entry
// has left; a backfilled copy outlives the back entry by at most BackfillTTL.
// Front-tier errors are treated as misses so that an outage of the front tier
// degrades to back-tier latency instead of failing.
type TieredCache struct {
	Front       Cache
	Back        Cache
	FrontTTL    time.Duration
	BackfillTTL time.Duration
}

const (
	// DefaultFrontTTL bounds how long entries stay in the front tier.
	DefaultFrontTTL = 24 * time.Hour

	// DefaultBackfillTTL is the front-tier lifetime of entries copied up
	// from the back tier.
	DefaultBackfillTTL = 10 * time.Minute
)

// NewTieredCache composes front and back.
func NewTieredCache(front, back Cache) *TieredCache {
	return &TieredCache{
		Front:       front,
		Back:        back,
		FrontTTL:    DefaultFrontTTL,
		BackfillTTL: DefaultBackfillTTL,
	}
}

// Get checks the front tier, then the back tier.
func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if data, ok, err := c.Front.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}
	data, ok, err := c.Back.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = c.Front.Set(ctx, key, data, c.backfillTTL())
	return data, true, nil
}

// Set writes to both tiers.
func (c *TieredCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	frontErr := c.Front.Set(ctx, key, data, c.frontTTL(ttl))
	backErr := c.Back.Set(ctx, key, data, ttl)
	return errors.Join(frontErr, backErr)
}

// Delete removes the key from both tiers.
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	return errors.Join(c.Front.Delete(ctx, key), c.Back.Delete(ctx, key))
}

// Close closes both tiers.
func (c *TieredCache) Close() error {
	return errors.Join(c.Front.Close(), c.Back.Close())
}

// frontTTL caps ttl at FrontTTL. A zero ttl means no expiry.
func (c *TieredCache) frontTTL(ttl time.Duration) time.Duration {
	if c.FrontTTL <= 0 {
		return ttl
	}
	if ttl <= 0 || ttl > c.FrontTTL {
		return c.FrontTTL
	}
	return ttl
}

// backfillTTL is BackfillTTL capped at FrontTTL. Without a BackfillTTL it
// falls back to the front-tier cap.
func (c *TieredCache) backfillTTL() time.Duration {
	if c.BackfillTTL <= 0 {
		return c.frontTTL(0)
	}
	return c.frontTTL(c.BackfillTTL)
}

// Ensure TieredCache implements Cache.
var _ Cache = (*TieredCache)(nil)
