package chart

import (
	"cmp"
	"slices"

	"github.com/matzehuels/circlepack/pkg/core/geom"
	"github.com/matzehuels/circlepack/pkg/errors"
)

// Match returns circles reordered so that the i-th circle is the one packed
// for radii[i].
//
// Both sides are sorted by radius with a stable sort and zipped, so equal
// radii are matched in input order. A length mismatch means the packing was
// incomplete and is reported as ErrCodeIncompletePacking.
func Match(radii []float64, circles []geom.Circle) ([]geom.Circle, error) {
	if len(radii) != len(circles) {
		return nil, errors.New(errors.ErrCodeIncompletePacking,
			"packed %d of %d circles", len(circles), len(radii))
	}

	idx := make([]int, len(radii))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(radii[a], radii[b]) })

	sorted := slices.Clone(circles)
	slices.SortStableFunc(sorted, func(a, b geom.Circle) int { return cmp.Compare(a.R, b.R) })

	out := make([]geom.Circle, len(circles))
	for i, j := range idx {
		out[j] = sorted[i]
	}
	return out, nil
}
