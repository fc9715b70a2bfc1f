// Package pkg holds the circlepack libraries.
//
// # Overview
//
// Circlepack places circles of given radii inside the smallest rectangle of a
// given aspect ratio it can find, then builds charts on top of the packer:
//
//  1. [core/geom] - points, circles and boxes
//  2. [core/packer] - the packing solver
//  3. [core/chart] - matching and viewport fitting, plus the cards and
//     keywords charts
//  4. [layout] - JSON/TOML documents for inputs and results
//  5. [pipeline] - cached execution shared by the CLI and the API
//  6. [cache], [config], [observability], [server] - supporting infrastructure
//
// # Quick Start
//
//	import "github.com/matzehuels/circlepack/pkg/core/packer"
//
//	res, err := packer.Pack([]float64{10, 10, 5}, 1.5, packer.WithSeed(7))
//	if err != nil {
//	    return err
//	}
//	for _, c := range res.Circles {
//	    fmt.Println(c.R, c.C.X, c.C.Y)
//	}
//
// With caching and logging:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	l, err := runner.Pack(ctx, radii, pipeline.Options{Ratio: 1.5})
package pkg
