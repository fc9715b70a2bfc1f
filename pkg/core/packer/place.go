package packer

import (
	"context"
	"math"
	"slices"

	"github.com/matzehuels/circlepack/pkg/core/geom"
)

const (
	// boundingScale sets the pseudo-circle radius to sqrt(surface)*100.
	boundingScale = 100

	// boundCount is the number of pseudo-circles standing in for the walls.
	boundCount = 4
)

// rect is a w×h rectangle centered at the origin.
type rect struct{ w, h float64 }

func rectFor(surface, ratio float64) rect {
	w := math.Sqrt(surface * ratio)
	return rect{w: w, h: w / ratio}
}

// contains reports whether a circle of the given radius centered at c fits
// inside r.
func (r rect) contains(radius float64, c geom.Point) bool {
	switch {
	case c.X-radius < -r.w/2, c.X+radius > r.w/2:
		return false
	case c.Y-radius < -r.h/2, c.Y+radius > r.h/2:
		return false
	}
	return true
}

// boundingCircle approximates the rectangle side from corner (x0, y0) to
// corner (x1, y1), given in unit coordinates (±1), with a circle of radius
// boundR. The circle passes through both corners and sits outside the
// rectangle, so near the side its arc is almost straight.
func boundingCircle(r rect, boundR, x0, y0, x1, y1 float64) geom.Circle {
	xm := math.Abs((x1 - x0) * r.w)
	ym := math.Abs((y1 - y0) * r.h)
	m := max(xm, ym)
	theta := math.Asin(m / 4 / boundR)
	d := boundR * math.Cos(theta)
	return geom.Circle{
		R: boundR,
		C: geom.Point{
			X: d*(y0-y1)/2 + (x0+x1)*r.w/4,
			Y: d*(x1-x0)/2 + (y0+y1)*r.h/4,
		},
	}
}

// bounds returns the four wall pseudo-circles: right, bottom, left, top.
func bounds(r rect, surface float64) []geom.Circle {
	boundR := math.Sqrt(surface) * boundingScale
	return []geom.Circle{
		boundingCircle(r, boundR, 1, 1, 1, -1),
		boundingCircle(r, boundR, 1, -1, -1, -1),
		boundingCircle(r, boundR, -1, -1, -1, 1),
		boundingCircle(r, boundR, -1, 1, 1, 1),
	}
}

// corners returns the positions where a circle of the given radius touches
// both c1 and c2 and fits inside r. Coincident centers, circles too far
// apart and nested configurations yield no positions.
func corners(r rect, radius float64, c1, c2 geom.Circle) (out [2]geom.Circle, n int) {
	u := c1.C.Vect(c2.C)
	a := u.Norm()
	if a == 0 {
		return out, 0
	}
	u = u.Mul(1 / a)

	// Work in the (u, v) frame anchored at c1: the new center is at
	// distance b from c1 and c from c2.
	b := c1.R + radius
	c := c2.R + radius
	if a > b+c {
		return out, 0
	}
	x := (a + (b*b-c*c)/a) / 2
	h2 := b*b - x*x
	if h2 < 0 || math.IsNaN(h2) {
		return out, 0
	}
	y := math.Sqrt(h2)
	base := c1.C.AddScaled(u, x)

	for _, p := range [2]geom.Point{
		{X: base.X - u.Y*y, Y: base.Y + u.X*y},
		{X: base.X + u.Y*y, Y: base.Y - u.X*y},
	} {
		if r.contains(radius, p) {
			out[n] = geom.Circle{R: radius, C: p}
			n++
		}
	}
	return out, n
}

// candidate is a feasible position for one unplaced circle.
type candidate struct {
	index  int // into placement.unplaced
	circle geom.Circle
	gain   float64
}

// placement is the inner greedy loop for one trial surface. It starts with
// the four wall pseudo-circles placed and every radius unplaced, and commits
// one circle per step until nothing fits.
type placement struct {
	rect     rect
	placed   []geom.Circle
	unplaced []float64
}

func newPlacement(radii []float64, r rect, surface float64) *placement {
	placed := make([]geom.Circle, 0, boundCount+len(radii))
	placed = append(placed, bounds(r, surface)...)
	return &placement{
		rect:     r,
		placed:   placed,
		unplaced: slices.Clone(radii),
	}
}

// place tries to fit every radius into r and returns the circles it managed
// to place, in placement order. It returns ctx.Err() if ctx is done before a
// placement step.
func place(ctx context.Context, radii []float64, r rect, surface float64) ([]geom.Circle, error) {
	pl := newPlacement(radii, r, surface)
	for len(pl.unplaced) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, ok := pl.next()
		if !ok {
			break
		}
		pl.commit(c)
	}
	return slices.Clone(pl.placed[boundCount:]), nil
}

// next returns the candidate with the highest gain across all unplaced
// circles. Ties go to the earliest unplaced circle.
func (pl *placement) next() (candidate, bool) {
	var best candidate
	found := false
	for i := range pl.unplaced {
		c, ok := pl.bestFor(i)
		if !ok {
			continue
		}
		if !found || c.gain > best.gain {
			best, found = c, true
		}
	}
	return best, found
}

// bestFor returns the tightest corner position of unplaced circle i: the one
// with the smallest clearance to any circle other than its two supports.
func (pl *placement) bestFor(i int) (candidate, bool) {
	radius := pl.unplaced[i]
	minClear := math.Inf(1)

	var best candidate
	found := false
	for j := range pl.placed {
		for k := j + 1; k < len(pl.placed); k++ {
			cs, n := corners(pl.rect, radius, pl.placed[j], pl.placed[k])
			for _, c := range cs[:n] {
				clear, ok := pl.clearance(c, j, k)
				if !ok || !(clear < minClear) {
					continue
				}
				minClear = clear
				best = candidate{index: i, circle: c, gain: 1 - clear/radius}
				found = true
			}
		}
	}
	return best, found
}

// clearance returns the smallest gap between c and every placed circle except
// the supports j and k. It reports false if c overlaps any of them.
func (pl *placement) clearance(c geom.Circle, j, k int) (float64, bool) {
	d := math.Inf(1)
	for l, o := range pl.placed {
		if l == j || l == k {
			continue
		}
		gap := o.Distance(c)
		if gap < 0 {
			return 0, false
		}
		d = min(d, gap)
	}
	return d, true
}

func (pl *placement) commit(c candidate) {
	pl.unplaced = slices.Delete(pl.unplaced, c.index, c.index+1)
	pl.placed = append(pl.placed, c.circle)
}
