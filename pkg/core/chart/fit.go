package chart

import (
	"github.com/matzehuels/circlepack/pkg/core/geom"
	"github.com/matzehuels/circlepack/pkg/errors"
)

// Transform maps packing coordinates into a viewport: p' = (p + D) * Scale.
type Transform struct {
	Scale float64 `json:"scale"`
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
}

// Identity leaves coordinates unchanged.
var Identity = Transform{Scale: 1}

// Fit returns the transform that scales circles uniformly into a width×height
// viewport.
//
// The scale is the largest that keeps the tight bounds of circles inside the
// viewport. The offset moves the left and top edges to zero when they are
// negative and leaves them alone otherwise.
func Fit(circles []geom.Circle, width, height float64) (Transform, error) {
	if err := errors.ValidateViewport(width, height); err != nil {
		return Transform{}, err
	}
	b, ok := geom.Bounds(circles)
	if !ok {
		return Transform{}, errors.New(errors.ErrCodeInvalidInput, "nothing to fit")
	}
	return Transform{
		Scale: min(width/b.Width(), height/b.Height()),
		DX:    max(0, -b.MinX),
		DY:    max(0, -b.MinY),
	}, nil
}

// Point maps p into the viewport.
func (t Transform) Point(p geom.Point) geom.Point {
	return geom.Point{X: (p.X + t.DX) * t.Scale, Y: (p.Y + t.DY) * t.Scale}
}

// Length scales a distance.
func (t Transform) Length(v float64) float64 { return v * t.Scale }

// Circle maps c into the viewport.
func (t Transform) Circle(c geom.Circle) geom.Circle {
	return geom.Circle{R: t.Length(c.R), C: t.Point(c.C)}
}

// Circles maps every circle into the viewport.
func (t Transform) Circles(cs []geom.Circle) []geom.Circle {
	out := make([]geom.Circle, len(cs))
	for i, c := range cs {
		out[i] = t.Circle(c)
	}
	return out
}
