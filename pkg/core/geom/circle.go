package geom

import "math"

// Circle is a disc with radius R centered at C.
type Circle struct {
	R float64 `json:"r"`
	C Point   `json:"c"`
}

// NewCircle returns a circle of radius r centered at (x, y).
func NewCircle(r, x, y float64) Circle { return Circle{R: r, C: Point{x, y}} }

// Surface returns the area of the disc.
func (c Circle) Surface() float64 { return math.Pi * c.R * c.R }

// Distance returns the signed gap between c and o: the distance between
// centers minus both radii. Negative values mean the discs overlap.
func (c Circle) Distance(o Circle) float64 {
	return c.C.Dist(o.C) - c.R - o.R
}

// Overlaps reports whether c and o overlap by more than tolerance.
// Touching circles do not overlap.
func (c Circle) Overlaps(o Circle, tolerance float64) bool {
	return c.Distance(o) < -tolerance
}

// Translate returns c moved by d.
func (c Circle) Translate(d Point) Circle { return Circle{R: c.R, C: c.C.Add(d)} }

// Box returns the axis-aligned bounding box of c.
func (c Circle) Box() Box {
	return Box{
		MinX: c.C.X - c.R,
		MinY: c.C.Y - c.R,
		MaxX: c.C.X + c.R,
		MaxY: c.C.Y + c.R,
	}
}

// TotalSurface returns the summed area of circles of the given radii.
func TotalSurface(radii []float64) float64 {
	var s float64
	for _, r := range radii {
		s += math.Pi * r * r
	}
	return s
}
