package layout

import (
	"github.com/matzehuels/circlepack/pkg/core/chart"
	"github.com/matzehuels/circlepack/pkg/core/chart/cards"
	"github.com/matzehuels/circlepack/pkg/core/chart/keywords"
	"github.com/matzehuels/circlepack/pkg/core/geom"
	"github.com/matzehuels/circlepack/pkg/core/packer"
)

// FromResult converts a packing result.
func FromResult(res packer.Result, ratio float64, seed uint64) Layout {
	l := Layout{
		Kind:     KindPack,
		Width:    res.Width,
		Height:   res.Height,
		Seed:     seed,
		Complete: res.Complete,
		Attempts: res.Attempts,
		Ratio:    ratio,
		Surface:  res.Surface,
		Circles:  make([]Circle, len(res.Circles)),
	}
	for i, c := range res.Circles {
		l.Circles[i] = fromCircle(c)
	}
	if b, ok := res.Bounds(); ok {
		l.Bounds = &Box{MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY}
	}
	return l
}

// FromCards converts a card gallery.
func FromCards(res cards.Result, opts cards.Options) Layout {
	l := Layout{
		Kind:      KindCards,
		Width:     opts.Width,
		Height:    opts.Height,
		Seed:      opts.Seed,
		Complete:  true,
		Attempts:  res.Attempts,
		Transform: fromTransform(res.Transform),
		Cards:     make([]Card, len(res.Cards)),
	}
	for i, c := range res.Cards {
		l.Cards[i] = Card{
			Name:  c.Name,
			Size:  c.Size,
			Left:  c.Left,
			Top:   c.Top,
			Front: c.Front,
			Back:  c.Back,
		}
	}
	return l
}

// FromKeywords converts a keyword bubble chart.
func FromKeywords(res keywords.Result, opts keywords.Options) Layout {
	l := Layout{
		Kind:      KindKeywords,
		Width:     opts.Width,
		Height:    opts.Height,
		Seed:      opts.Seed,
		Complete:  true,
		Transform: fromTransform(res.Transform),
		Clusters:  make([]Cluster, len(res.Clusters)),
	}
	for i, c := range res.Clusters {
		cl := Cluster{
			Name:     c.Name,
			X:        c.Circle.C.X,
			Y:        c.Circle.C.Y,
			R:        c.Circle.R,
			Children: make([]Bubble, len(c.Bubbles)),
		}
		for j, b := range c.Bubbles {
			cl.Children[j] = Bubble{
				Name:  b.Name,
				Value: b.Value,
				X:     b.Circle.C.X,
				Y:     b.Circle.C.Y,
				R:     b.Circle.R,
			}
		}
		l.Clusters[i] = cl
	}
	return l
}

// GeomCircles returns the pack circles as geometry values.
func (l *Layout) GeomCircles() []geom.Circle {
	out := make([]geom.Circle, len(l.Circles))
	for i, c := range l.Circles {
		out[i] = geom.NewCircle(c.R, c.X, c.Y)
	}
	return out
}

func fromCircle(c geom.Circle) Circle { return Circle{R: c.R, X: c.C.X, Y: c.C.Y} }

func fromTransform(t chart.Transform) *Transform {
	return &Transform{Scale: t.Scale, DX: t.DX, DY: t.DY}
}
