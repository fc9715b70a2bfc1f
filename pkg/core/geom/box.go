package geom

import "math"

// Box is an axis-aligned rectangle.
type Box struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// CenteredBox returns a w×h box centered at the origin.
func CenteredBox(w, h float64) Box {
	return Box{MinX: -w / 2, MinY: -h / 2, MaxX: w / 2, MaxY: h / 2}
}

// Width returns the horizontal extent.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Area returns Width * Height.
func (b Box) Area() float64 { return b.Width() * b.Height() }

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
}

// ContainsCircle reports whether c lies inside b, allowing c to poke out by at
// most tolerance on each side.
func (b Box) ContainsCircle(c Circle, tolerance float64) bool {
	return c.C.X-c.R >= b.MinX-tolerance &&
		c.C.X+c.R <= b.MaxX+tolerance &&
		c.C.Y-c.R >= b.MinY-tolerance &&
		c.C.Y+c.R <= b.MaxY+tolerance
}

// Bounds returns the tight bounding box of circles, using center ± radius.
// It returns false when circles is empty.
func Bounds(circles []Circle) (Box, bool) {
	if len(circles) == 0 {
		return Box{}, false
	}
	b := Box{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, c := range circles {
		b.MinX = min(b.MinX, c.C.X-c.R)
		b.MinY = min(b.MinY, c.C.Y-c.R)
		b.MaxX = max(b.MaxX, c.C.X+c.R)
		b.MaxY = max(b.MaxY, c.C.Y+c.R)
	}
	return b, true
}
