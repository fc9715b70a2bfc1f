// Package packer packs circles of given radii into a near-minimal rectangle.
//
// # Overview
//
// Given a list of radii and a target aspect ratio (width / height), the
// packer searches for the smallest rectangle, centered at the origin, that
// holds every circle without overlap. Two nested procedures do the work:
//
//  1. An outer binary search on the rectangle's surface. It starts at the
//     total surface of the circles, grows the surface when a trial fails and
//     shrinks it when a trial succeeds, halving the step each time until the
//     step falls below 1/1000 of the total surface.
//  2. An inner greedy placement for a fixed surface. Every unplaced circle is
//     tried in every "corner" position, tangent to two already placed circles,
//     and the globally tightest candidate is committed. The rectangle edges
//     are modelled as four huge pseudo-circles so that walls and circles share
//     the same tangency math.
//
// # Randomness
//
// Radii are shuffled once before the search. The shuffle uses an explicit
// generator supplied through [WithSeed] or [WithRand]; the default seed is
// [DefaultSeed], so two packers built from the same input and seed produce
// identical results.
//
// # Output Order
//
// [Result.Circles] is in placement order, not input order. Callers that need
// to pair circles back to their inputs sort both sides by radius and zip
// them (see chart.Match).
//
// # Partial Results
//
// The solver never returns an error for hard geometry. When no trial places
// every circle, [Result.Complete] is false and Circles holds the best partial
// attempt. Input validation happens in [New], before any search.
//
// # Usage
//
//	res, err := packer.Pack([]float64{10, 10, 10}, 1.0, packer.WithSeed(7))
//	if err != nil {
//	    return err
//	}
//	for _, c := range res.Circles {
//	    fmt.Println(c.R, c.C.X, c.C.Y)
//	}
package packer
