// Package pipeline runs circle packings and chart layouts with caching.
//
// The same [Runner] backs the CLI and the HTTP API, so both entry points share
// defaults, validation, cache keys and observability.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	l, err := runner.Pack(ctx, []float64{10, 10, 10}, pipeline.Options{Ratio: 1.5})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(l.Circles), l.Complete)
//
// Batches of independent packings run concurrently, here at most 4 at a time:
//
//	results, err := runner.PackBatch(ctx, jobs, pipeline.Options{}, 4)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/circlepack/pkg/cache"
	"github.com/matzehuels/circlepack/pkg/core/chart/cards"
	"github.com/matzehuels/circlepack/pkg/core/chart/keywords"
	"github.com/matzehuels/circlepack/pkg/core/packer"
	"github.com/matzehuels/circlepack/pkg/errors"
	"github.com/matzehuels/circlepack/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultRatio is the width/height ratio of a plain packing.
	DefaultRatio = layout.DefaultRatio

	// DefaultSeed is the shuffle seed.
	DefaultSeed = packer.DefaultSeed

	// DefaultWidth is the default chart viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default chart viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultBatchLimit caps concurrent packings in PackBatch.
	DefaultBatchLimit = 4
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Pack options
	Ratio float64 `json:"ratio,omitempty"`
	Seed  uint64  `json:"seed,omitempty"`

	// Chart options
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	Gap       float64 `json:"gap,omitempty"`       // cards only
	Threshold float64 `json:"threshold,omitempty"` // keywords only
	Padding   float64 `json:"padding,omitempty"`   // keywords only

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Observer receives every search trial of a computed packing.
	Observer func(packer.Attempt) `json:"-"`
}

// SetPackDefaults sets default values for packing.
func (o *Options) SetPackDefaults() {
	if o.Ratio == 0 {
		o.Ratio = DefaultRatio
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForPack sets pack defaults and validates the ratio.
func (o *Options) ValidateForPack() error {
	o.SetPackDefaults()
	return errors.ValidateRatio(o.Ratio)
}

// SetChartDefaults sets default values for chart layouts.
func (o *Options) SetChartDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Gap == 0 {
		o.Gap = cards.DefaultGap
	}
	if o.Threshold == 0 {
		o.Threshold = keywords.DefaultThreshold
	}
	if o.Padding == 0 {
		o.Padding = keywords.DefaultPadding
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForChart sets chart defaults and validates the viewport.
func (o *Options) ValidateForChart() error {
	o.SetChartDefaults()
	if err := errors.ValidateViewport(o.Width, o.Height); err != nil {
		return err
	}
	if o.Gap < 0 || o.Threshold < 0 || o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "gap, threshold and padding must not be negative")
	}
	return nil
}

// PackKeyOpts returns cache key options for a packing.
func (o *Options) PackKeyOpts() cache.PackKeyOpts {
	return cache.PackKeyOpts{Ratio: o.Ratio, Seed: o.Seed}
}

// CardsKeyOpts returns cache key options for a card gallery.
func (o *Options) CardsKeyOpts() cache.ChartKeyOpts {
	return cache.ChartKeyOpts{Width: o.Width, Height: o.Height, Gap: o.Gap, Seed: o.Seed}
}

// KeywordsKeyOpts returns cache key options for a keyword chart.
func (o *Options) KeywordsKeyOpts() cache.ChartKeyOpts {
	return cache.ChartKeyOpts{
		Width:     o.Width,
		Height:    o.Height,
		Threshold: o.Threshold,
		Padding:   o.Padding,
		Seed:      o.Seed,
	}
}

// CardsOptions converts o for cards.Layout.
func (o *Options) CardsOptions() cards.Options {
	return cards.Options{Width: o.Width, Height: o.Height, Gap: o.Gap, Seed: o.Seed}
}

// KeywordsOptions converts o for keywords.Build.
func (o *Options) KeywordsOptions() keywords.Options {
	return keywords.Options{
		Threshold: o.Threshold,
		Padding:   o.Padding,
		Width:     o.Width,
		Height:    o.Height,
		Seed:      o.Seed,
	}
}

// =============================================================================
// Batch Types
// =============================================================================

// Job is one packing in a batch.
type Job struct {
	ID    string       `json:"id"`
	Input layout.Input `json:"input"`
}

// JobResult is the outcome of one Job. Err is set instead of Layout when the
// job failed; other jobs are unaffected.
type JobResult struct {
	ID       string        `json:"id"`
	Layout   layout.Layout `json:"layout"`
	Cached   bool          `json:"cached"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}
