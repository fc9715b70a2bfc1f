// Package cards lays out a gallery of square cards on packed circles.
//
// Every card gets a circle of radius size/2 + gap, the circles are packed at
// the viewport's aspect ratio, and each card is drawn as the square inscribed
// at its circle's center. The result is scaled into the viewport with
// [chart.Fit].
package cards

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/circlepack/pkg/core/chart"
	"github.com/matzehuels/circlepack/pkg/core/geom"
	"github.com/matzehuels/circlepack/pkg/core/packer"
	"github.com/matzehuels/circlepack/pkg/errors"
)

// DefaultGap is the spacing added to every card radius.
const DefaultGap = 20

// Card is one gallery entry. Left and Top are filled in by Layout.
type Card struct {
	Name  string  `json:"name"`
	Size  float64 `json:"size"`
	Front string  `json:"front,omitempty"`
	Back  string  `json:"back,omitempty"`
	Left  float64 `json:"left"`
	Top   float64 `json:"top"`
}

// Options configures Layout.
type Options struct {
	Width  float64 // viewport width
	Height float64 // viewport height
	Gap    float64 // spacing around each card, DefaultGap if zero
	Seed   uint64
}

// Result is a fitted card layout.
type Result struct {
	// Cards are sorted by size, smallest first, with Left, Top and Size in
	// viewport coordinates.
	Cards []Card

	// Circles are the fitted packing circles, one per card.
	Circles []geom.Circle

	Transform chart.Transform
	Attempts  int
}

// Layout packs cards into a Width×Height viewport. The input slice is not
// modified.
func Layout(cards []Card, opts Options) (Result, error) {
	return LayoutContext(context.Background(), cards, opts)
}

// LayoutContext is like Layout but stops packing when ctx is done.
func LayoutContext(ctx context.Context, cards []Card, opts Options) (Result, error) {
	if len(cards) == 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "no cards to lay out")
	}
	if err := errors.ValidateViewport(opts.Width, opts.Height); err != nil {
		return Result{}, err
	}
	gap := opts.Gap
	if gap == 0 {
		gap = DefaultGap
	}
	if gap < 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "gap must not be negative, got %g", gap)
	}

	sorted := slices.Clone(cards)
	slices.SortStableFunc(sorted, func(a, b Card) int { return cmp.Compare(a.Size, b.Size) })

	radii := make([]float64, len(sorted))
	for i, c := range sorted {
		if c.Size <= 0 {
			return Result{}, errors.New(errors.ErrCodeInvalidInput, "card %q: size must be positive, got %g", c.Name, c.Size)
		}
		radii[i] = c.Size/2 + gap
	}

	res, err := packer.PackContext(ctx, radii, opts.Width/opts.Height, packer.WithSeed(opts.Seed))
	if err != nil {
		return Result{}, err
	}
	circles, err := chart.Match(radii, res.Circles)
	if err != nil {
		return Result{}, err
	}
	tr, err := chart.Fit(circles, opts.Width, opts.Height)
	if err != nil {
		return Result{}, err
	}

	for i, c := range circles {
		card := &sorted[i]
		corner := tr.Point(geom.Point{X: c.C.X - card.Size/2, Y: c.C.Y - card.Size/2})
		card.Left, card.Top = corner.X, corner.Y
		card.Size = tr.Length(card.Size)
	}

	return Result{
		Cards:     sorted,
		Circles:   tr.Circles(circles),
		Transform: tr,
		Attempts:  res.Attempts,
	}, nil
}
