package chart

import (
	"math"
	"testing"

	"github.com/matzehuels/circlepack/pkg/core/geom"
	"github.com/matzehuels/circlepack/pkg/errors"
)

func TestMatch(t *testing.T) {
	radii := []float64{3, 1, 2, 1}
	circles := []geom.Circle{
		geom.NewCircle(1, 10, 0),
		geom.NewCircle(2, 20, 0),
		geom.NewCircle(1, 30, 0),
		geom.NewCircle(3, 40, 0),
	}

	got, err := Match(radii, circles)
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}

	wantX := []float64{40, 10, 20, 30}
	for i, c := range got {
		if c.R != radii[i] {
			t.Errorf("got[%d].R = %g, want %g", i, c.R, radii[i])
		}
		if c.C.X != wantX[i] {
			t.Errorf("got[%d].X = %g, want %g", i, c.C.X, wantX[i])
		}
	}

	// The input is left in placement order.
	if circles[0].C.X != 10 || circles[3].C.X != 40 {
		t.Errorf("Match() reordered its input: %v", circles)
	}
}

func TestMatch_LengthMismatch(t *testing.T) {
	_, err := Match([]float64{1, 2}, []geom.Circle{geom.NewCircle(1, 0, 0)})
	if !errors.Is(err, errors.ErrCodeIncompletePacking) {
		t.Errorf("Match() error = %v, want INCOMPLETE_PACKING", err)
	}
}

func TestFit(t *testing.T) {
	// Bounds are [-2, 4] x [-1, 1]: 6 wide, 2 tall.
	circles := []geom.Circle{
		geom.NewCircle(1, -1, 0),
		geom.NewCircle(1, 3, 0),
	}

	tests := []struct {
		name          string
		width, height float64
		want          Transform
	}{
		{"width bound", 300, 300, Transform{Scale: 50, DX: 2, DY: 1}},
		{"height bound", 600, 100, Transform{Scale: 50, DX: 2, DY: 1}},
		{"exact", 60, 20, Transform{Scale: 10, DX: 2, DY: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fit(circles, tt.width, tt.height)
			if err != nil {
				t.Fatalf("Fit() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Fit() = %+v, want %+v", got, tt.want)
			}

			fitted := got.Circles(circles)
			b, _ := geom.Bounds(fitted)
			if math.Abs(b.MinX) > 1e-9 || math.Abs(b.MinY) > 1e-9 {
				t.Errorf("fitted bounds start at (%g, %g), want origin", b.MinX, b.MinY)
			}
			if b.MaxX > tt.width+1e-9 || b.MaxY > tt.height+1e-9 {
				t.Errorf("fitted bounds %+v exceed %gx%g", b, tt.width, tt.height)
			}
		})
	}
}

func TestFit_PositiveOrigin(t *testing.T) {
	got, err := Fit([]geom.Circle{geom.NewCircle(1, 5, 5)}, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if got.DX != 0 || got.DY != 0 {
		t.Errorf("Fit() offset = (%g, %g), want no offset for positive bounds", got.DX, got.DY)
	}
}

func TestFit_Errors(t *testing.T) {
	if _, err := Fit(nil, 10, 10); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Fit(nil) error = %v, want INVALID_INPUT", err)
	}
	one := []geom.Circle{geom.NewCircle(1, 0, 0)}
	if _, err := Fit(one, 0, 10); !errors.Is(err, errors.ErrCodeInvalidViewport) {
		t.Errorf("Fit(width 0) error = %v, want INVALID_VIEWPORT", err)
	}
}

func TestIdentity(t *testing.T) {
	c := geom.NewCircle(2, 3, -4)
	if got := Identity.Circle(c); got != c {
		t.Errorf("Identity.Circle(%v) = %v", c, got)
	}
}
