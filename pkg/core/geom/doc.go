// Package geom provides the planar value types used by the circle packer.
//
// [Point] and [Circle] are immutable values: every operation returns a new
// value and never mutates its receiver, so they can be shared freely between
// goroutines. [Box] is an axis-aligned rectangle used for containment checks
// and for computing the tight extent of a set of circles.
//
// # Conventions
//
// Coordinates are plain float64 in an abstract unit; the y axis grows
// downward only by convention of the callers (the packer itself is symmetric).
// [Circle.Distance] is the signed gap between two circles: negative values
// mean the circles overlap, zero means they touch.
package geom
