package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/circlepack/pkg/cache"
	"github.com/matzehuels/circlepack/pkg/core/chart/cards"
	"github.com/matzehuels/circlepack/pkg/core/chart/keywords"
	"github.com/matzehuels/circlepack/pkg/core/packer"
	"github.com/matzehuels/circlepack/pkg/errors"
	"github.com/matzehuels/circlepack/pkg/layout"
	"github.com/matzehuels/circlepack/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-kind cache TTLs when non-zero.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// =============================================================================
// Pack
// =============================================================================

// PackWithCacheInfo packs radii with caching and returns cache hit info.
func (r *Runner) PackWithCacheInfo(ctx context.Context, radii []float64, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPack(); err != nil {
		return layout.Layout{}, false, err
	}
	if err := errors.ValidateRadii(radii); err != nil {
		return layout.Layout{}, false, err
	}

	inputHash, err := cache.HashJSON(radii)
	if err != nil {
		return layout.Layout{}, false, errors.Wrap(errors.ErrCodeInternal, err, "hash radii")
	}
	key := r.Keyer.PackKey(inputHash, opts.PackKeyOpts())

	if l, ok := r.lookup(ctx, key, opts); ok {
		opts.Logger.Debug("pack cache hit", "key", key)
		return l, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnPackStart(ctx, len(radii), opts.Ratio)
	start := time.Now()

	res, err := packer.PackContext(ctx, radii, opts.Ratio, packer.WithSeed(opts.Seed), packer.WithObserver(func(a packer.Attempt) {
		opts.Logger.Debug("trial",
			"attempt", a.Index,
			"surface", a.Surface,
			"placed", a.Placed,
			"accepted", a.Accepted)
		if opts.Observer != nil {
			opts.Observer(a)
		}
	}))
	duration := time.Since(start)
	if err != nil {
		hooks.OnPackComplete(ctx, len(radii), 0, 0, duration, err)
		return layout.Layout{}, false, err
	}
	hooks.OnPackComplete(ctx, len(radii), len(res.Circles), res.Attempts, duration, nil)

	if !res.Complete {
		opts.Logger.Warn("incomplete packing",
			"placed", len(res.Circles),
			"count", len(radii))
	}
	opts.Logger.Info("packed circles",
		"count", len(res.Circles),
		"surface", res.Surface,
		"attempts", res.Attempts,
		"duration", duration)

	l := layout.FromResult(res, opts.Ratio, opts.Seed)
	r.store(ctx, key, l, cache.TTLPack, opts)
	return l, false, nil
}

// Pack is a convenience wrapper that calls PackWithCacheInfo and discards the cache hit info.
func (r *Runner) Pack(ctx context.Context, radii []float64, opts Options) (layout.Layout, error) {
	l, _, err := r.PackWithCacheInfo(ctx, radii, opts)
	return l, err
}

// PackBatch packs every job with at most limit packings in flight. Results
// are returned in job order. A failed job records its error in its result;
// only cancellation of ctx fails the batch as a whole, interrupting the
// packings in flight.
func (r *Runner) PackBatch(ctx context.Context, jobs []Job, opts Options, limit int) ([]JobResult, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	results := make([]JobResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			jobOpts := opts
			if job.Input.Ratio != 0 {
				jobOpts.Ratio = job.Input.Ratio
			}
			if job.Input.Seed != 0 {
				jobOpts.Seed = job.Input.Seed
			}

			start := time.Now()
			l, hit, err := r.PackWithCacheInfo(gctx, job.Input.Radii, jobOpts)
			results[i] = JobResult{
				ID:       job.ID,
				Layout:   l,
				Cached:   hit,
				Duration: time.Since(start),
				Err:      err,
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCanceled, err, "batch of %d jobs stopped", len(jobs))
	}
	return results, nil
}

// =============================================================================
// Charts
// =============================================================================

// CardsWithCacheInfo lays out a card gallery with caching and returns cache hit info.
func (r *Runner) CardsWithCacheInfo(ctx context.Context, cs []cards.Card, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForChart(); err != nil {
		return layout.Layout{}, false, err
	}
	return r.chart(ctx, layout.KindCards, cs, len(cs), opts.CardsKeyOpts(), opts, func() (layout.Layout, error) {
		copts := opts.CardsOptions()
		res, err := cards.LayoutContext(ctx, cs, copts)
		if err != nil {
			return layout.Layout{}, err
		}
		opts.Logger.Info("laid out cards",
			"count", len(res.Cards),
			"scale", res.Transform.Scale)
		return layout.FromCards(res, copts), nil
	})
}

// Cards is a convenience wrapper that calls CardsWithCacheInfo and discards the cache hit info.
func (r *Runner) Cards(ctx context.Context, cs []cards.Card, opts Options) (layout.Layout, error) {
	l, _, err := r.CardsWithCacheInfo(ctx, cs, opts)
	return l, err
}

// KeywordsWithCacheInfo builds a keyword chart with caching and returns cache hit info.
func (r *Runner) KeywordsWithCacheInfo(ctx context.Context, ds keywords.Dataset, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForChart(); err != nil {
		return layout.Layout{}, false, err
	}
	return r.chart(ctx, layout.KindKeywords, ds, len(ds.Clusters), opts.KeywordsKeyOpts(), opts, func() (layout.Layout, error) {
		kopts := opts.KeywordsOptions()
		res, err := keywords.BuildContext(ctx, ds, kopts)
		if err != nil {
			return layout.Layout{}, err
		}
		opts.Logger.Info("built keyword chart",
			"clusters", len(res.Clusters),
			"scale", res.Transform.Scale)
		return layout.FromKeywords(res, kopts), nil
	})
}

// Keywords is a convenience wrapper that calls KeywordsWithCacheInfo and discards the cache hit info.
func (r *Runner) Keywords(ctx context.Context, ds keywords.Dataset, opts Options) (layout.Layout, error) {
	l, _, err := r.KeywordsWithCacheInfo(ctx, ds, opts)
	return l, err
}

// chart runs build for one chart kind behind the cache and pipeline hooks.
func (r *Runner) chart(ctx context.Context, kind string, input any, items int, keyOpts cache.ChartKeyOpts, opts Options, build func() (layout.Layout, error)) (layout.Layout, bool, error) {
	inputHash, err := cache.HashJSON(input)
	if err != nil {
		return layout.Layout{}, false, errors.Wrap(errors.ErrCodeInternal, err, "hash %s input", kind)
	}
	key := r.Keyer.ChartKey(kind, inputHash, keyOpts)

	if l, ok := r.lookup(ctx, key, opts); ok {
		opts.Logger.Debug("chart cache hit", "kind", kind, "key", key)
		return l, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnChartStart(ctx, kind, items)
	start := time.Now()
	l, err := build()
	hooks.OnChartComplete(ctx, kind, time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	r.store(ctx, key, l, cache.TTLChart, opts)
	return l, false, nil
}

// =============================================================================
// Cache Helpers
// =============================================================================

// lookup returns a cached layout. Cache errors and undecodable entries are
// treated as misses.
func (r *Runner) lookup(ctx context.Context, key string, opts Options) (layout.Layout, bool) {
	if opts.Refresh {
		return layout.Layout{}, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "key", key, "error", err)
		return layout.Layout{}, false
	}
	if !hit {
		return layout.Layout{}, false
	}
	l, err := layout.UnmarshalLayout(data)
	if err != nil {
		opts.Logger.Debug("discarding corrupt cache entry", "key", key, "error", err)
		return layout.Layout{}, false
	}
	return l, true
}

// store writes l under key. Failures are logged, never returned.
func (r *Runner) store(ctx context.Context, key string, l layout.Layout, ttl time.Duration, opts Options) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	data, err := layout.MarshalLayout(l)
	if err != nil {
		opts.Logger.Warn("encode layout for cache", "key", key, "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		opts.Logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
