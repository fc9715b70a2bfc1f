// Package layout provides serialization types for packing inputs and layouts.
//
// This package defines the wire format used for input files, API requests and
// responses, and cached results.
//
// # Architecture
//
// The package sits at the serialization boundary between the solver and the
// outside world:
//
//   - [Input]: a packing request (radii, ratio, seed), read from JSON or TOML
//   - [Layout]: a solved chart, written as JSON
//   - pkg/core/packer.Result, chart/cards.Result, chart/keywords.Result:
//     internal results, converted with [FromResult], [FromCards] and
//     [FromKeywords]
//
// # Inputs
//
// Inputs are read from JSON or TOML, chosen by file extension:
//
//	radii = [10, 10, 10]
//	ratio = 1.5
//	seed  = 7
//
// A missing ratio defaults to 1 and a missing seed to the packer's default.
//
// # Layout Serialization
//
// Layouts are discriminated by Kind:
//
//	l, _ := layout.UnmarshalLayout(data)
//	switch l.Kind {
//	case layout.KindPack:     // l.Circles, l.Bounds
//	case layout.KindCards:    // l.Cards
//	case layout.KindKeywords: // l.Clusters
//	}
//
// # Concurrency
//
// All functions are safe for concurrent use. Values are plain data.
package layout
