package layout

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/circlepack/pkg/errors"
)

// Layout kinds.
const (
	KindPack     = "pack"
	KindCards    = "cards"
	KindKeywords = "keywords"
)

// =============================================================================
// Layout - Unified Chart Format
// =============================================================================

// Layout is the serialization format for every chart.
//
// This is a discriminated union type. Check Kind to determine which fields
// are populated:
//
//	Pack ("pack"):
//	  - Circles: packed circles, centered on the origin
//	  - Bounds: tight extent of the circles
//	  - Ratio: requested aspect ratio
//
//	Cards ("cards"):
//	  - Cards: positioned cards in viewport coordinates
//
//	Keywords ("keywords"):
//	  - Clusters: cluster circles with their keyword bubbles
//
// Width and Height are the solved rectangle for pack layouts and the viewport
// for chart layouts.
type Layout struct {
	Kind     string  `json:"kind"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Seed     uint64  `json:"seed,omitempty"`
	Complete bool    `json:"complete"`
	Attempts int     `json:"attempts,omitempty"`

	// Pack-specific
	Ratio   float64  `json:"ratio,omitempty"`
	Surface float64  `json:"surface,omitempty"`
	Circles []Circle `json:"circles,omitempty"`
	Bounds  *Box     `json:"bounds,omitempty"`

	// Chart-specific
	Transform *Transform `json:"transform,omitempty"`
	Cards     []Card     `json:"cards,omitempty"`
	Clusters  []Cluster  `json:"clusters,omitempty"`
}

// IsPack returns true if this is a plain packing layout.
func (l *Layout) IsPack() bool { return l.Kind == KindPack }

// IsCards returns true if this is a card gallery layout.
func (l *Layout) IsCards() bool { return l.Kind == KindCards }

// IsKeywords returns true if this is a keyword bubble layout.
func (l *Layout) IsKeywords() bool { return l.Kind == KindKeywords }

// =============================================================================
// Elements
// =============================================================================

// Circle is a placed circle.
type Circle struct {
	R float64 `json:"r"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned rectangle.
type Box struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Transform maps packing coordinates into the viewport: (p + d) * scale.
type Transform struct {
	Scale float64 `json:"scale"`
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
}

// Card is a positioned gallery card.
type Card struct {
	Name  string  `json:"name"`
	Size  float64 `json:"size"`
	Left  float64 `json:"left"`
	Top   float64 `json:"top"`
	Front string  `json:"front,omitempty"`
	Back  string  `json:"back,omitempty"`
}

// Cluster is a top-level keyword circle.
type Cluster struct {
	Name     string   `json:"name"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	R        float64  `json:"r"`
	Children []Bubble `json:"children"`
}

// Bubble is a keyword inside a cluster.
type Bubble struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the kind.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if l.Kind == "" {
		l.Kind = KindPack
	}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

func (l *Layout) validate() error {
	switch l.Kind {
	case KindPack:
		if len(l.Circles) == 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "pack layout must contain circles")
		}
	case KindCards:
		if len(l.Cards) == 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "cards layout must contain cards")
		}
	case KindKeywords:
		if len(l.Clusters) == 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "keywords layout must contain clusters")
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown layout kind %q", l.Kind)
	}
	return nil
}

// WriteLayout writes a Layout as JSON to w.
func WriteLayout(l Layout, w io.Writer) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
		}
		return Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return UnmarshalLayout(data)
}
