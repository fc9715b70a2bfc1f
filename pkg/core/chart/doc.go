// Package chart turns packed circles into chart coordinates.
//
// The packer returns circles in placement order, centered on the origin. The
// chart layouts built on top of it ([cards] and [keywords]) need two more
// steps: pairing every packed circle with the datum it was sized from, and
// mapping the packing into a viewport. [Match] does the first by sorting both
// sides by radius and zipping them; [Fit] does the second with a uniform
// scale and a translation that moves the packing's top-left corner to the
// origin.
//
// [cards]: github.com/matzehuels/circlepack/pkg/core/chart/cards
// [keywords]: github.com/matzehuels/circlepack/pkg/core/chart/keywords
package chart
