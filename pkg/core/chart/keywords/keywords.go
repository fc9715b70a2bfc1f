package keywords

import (
	"context"
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/circlepack/pkg/core/chart"
	"github.com/matzehuels/circlepack/pkg/core/geom"
	"github.com/matzehuels/circlepack/pkg/core/packer"
	"github.com/matzehuels/circlepack/pkg/errors"
)

const (
	// DefaultThreshold drops keywords weighted below it.
	DefaultThreshold = 0.08

	// DefaultPadding separates bubbles from each other and from their
	// cluster border.
	DefaultPadding = 3
)

// ClusterInfo holds per-cluster metadata.
type ClusterInfo struct {
	Size float64 `json:"size"`
}

// Dataset is the chart input: keyword weights and sizes, both keyed by
// cluster name.
type Dataset struct {
	Keywords map[string]map[string]float64
	Clusters map[string]ClusterInfo
}

// Options configures Build.
type Options struct {
	Threshold float64 // DefaultThreshold if zero
	Padding   float64 // DefaultPadding if zero
	Width     float64
	Height    float64
	Seed      uint64
}

// Bubble is one keyword inside a cluster.
type Bubble struct {
	Name   string
	Value  float64 // rescaled weight
	Circle geom.Circle
}

// Cluster is a top-level circle enclosing its bubbles.
type Cluster struct {
	Name    string
	Circle  geom.Circle
	Bubbles []Bubble
}

// Result is a fitted keyword chart. Clusters are in name order and bubbles
// within a cluster in keyword order.
type Result struct {
	Clusters  []Cluster
	Transform chart.Transform
}

func (o *Options) setDefaults() {
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
}

// Build lays out ds into a Width×Height viewport.
//
// Clusters with no keyword at or above the threshold are left out. A keyword
// cluster without size information is an input error.
func Build(ds Dataset, opts Options) (Result, error) {
	return BuildContext(context.Background(), ds, opts)
}

// BuildContext is like Build but stops packing when ctx is done.
func BuildContext(ctx context.Context, ds Dataset, opts Options) (Result, error) {
	opts.setDefaults()
	if err := errors.ValidateViewport(opts.Width, opts.Height); err != nil {
		return Result{}, err
	}
	if opts.Padding < 0 || opts.Threshold < 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "padding and threshold must not be negative")
	}

	var clusters []Cluster
	for _, name := range slices.Sorted(maps.Keys(ds.Keywords)) {
		info, ok := ds.Clusters[name]
		if !ok {
			return Result{}, errors.New(errors.ErrCodeInvalidInput, "cluster %q has no size", name)
		}
		if info.Size <= 0 || math.IsNaN(info.Size) || math.IsInf(info.Size, 0) {
			return Result{}, errors.New(errors.ErrCodeInvalidInput, "cluster %q: size must be positive, got %g", name, info.Size)
		}
		bubbles := bubblesFor(ds.Keywords[name], info.Size, opts.Threshold)
		if len(bubbles) == 0 {
			continue
		}
		c, err := packCluster(ctx, name, bubbles, opts)
		if err != nil {
			return Result{}, err
		}
		clusters = append(clusters, c)
	}
	if len(clusters) == 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "no keyword reaches threshold %g", opts.Threshold)
	}

	radii := make([]float64, len(clusters))
	for i, c := range clusters {
		radii[i] = c.Circle.R
	}
	res, err := packer.PackContext(ctx, radii, opts.Width/opts.Height, packer.WithSeed(opts.Seed))
	if err != nil {
		return Result{}, err
	}
	placed, err := chart.Match(radii, res.Circles)
	if err != nil {
		return Result{}, err
	}
	tr, err := chart.Fit(placed, opts.Width, opts.Height)
	if err != nil {
		return Result{}, err
	}

	for i := range clusters {
		c := &clusters[i]
		d := c.Circle.C.Vect(placed[i].C)
		c.Circle = tr.Circle(placed[i])
		for j := range c.Bubbles {
			b := &c.Bubbles[j]
			b.Circle = tr.Circle(b.Circle.Translate(d))
		}
	}
	return Result{Clusters: clusters, Transform: tr}, nil
}

// bubblesFor filters weights by threshold and rescales the survivors so their
// values sum to size. Each bubble's area equals its value.
func bubblesFor(weights map[string]float64, size, threshold float64) []Bubble {
	var (
		bubbles []Bubble
		total   float64
	)
	for _, name := range slices.Sorted(maps.Keys(weights)) {
		w := weights[name]
		if !(w >= threshold) || math.IsInf(w, 0) || w <= 0 {
			continue
		}
		bubbles = append(bubbles, Bubble{Name: name, Value: w})
		total += w
	}
	for i := range bubbles {
		b := &bubbles[i]
		b.Value *= size / total
		b.Circle.R = math.Sqrt(b.Value / math.Pi)
	}
	return bubbles
}

// packCluster packs bubbles around the origin and returns the cluster circle
// enclosing them. Bubbles are packed with radius r+padding/2 so that siblings
// end up at least padding apart.
func packCluster(ctx context.Context, name string, bubbles []Bubble, opts Options) (Cluster, error) {
	radii := make([]float64, len(bubbles))
	for i, b := range bubbles {
		radii[i] = b.Circle.R + opts.Padding/2
	}
	res, err := packer.PackContext(ctx, radii, 1, packer.WithSeed(opts.Seed))
	if err != nil {
		return Cluster{}, err
	}
	placed, err := chart.Match(radii, res.Circles)
	if err != nil {
		return Cluster{}, errors.Wrap(errors.ErrCodeIncompletePacking, err, "cluster %q", name)
	}

	box, _ := geom.Bounds(placed)
	center := box.Center()
	var r float64
	for i, p := range placed {
		bubbles[i].Circle.C = p.C
		r = max(r, center.Dist(p.C)+p.R)
	}
	return Cluster{
		Name:    name,
		Circle:  geom.Circle{R: r + opts.Padding/2, C: center},
		Bubbles: bubbles,
	}, nil
}
