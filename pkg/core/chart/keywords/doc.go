// Package keywords builds a two-level bubble chart of weighted keywords.
//
// The input is a set of clusters (one per cuisine country in the original
// dataset), each with a target size, and per cluster a map of keyword
// weights. [Build] keeps the keywords whose weight reaches a threshold,
// rescales their weights so they sum to the cluster size, and turns each
// into a bubble whose area equals its value. Bubbles are packed inside their
// cluster, clusters are packed into the viewport's aspect ratio, and the
// whole chart is scaled into the viewport.
//
// Both levels use the circle packer. Padding separates sibling bubbles and
// the cluster border, matching the look of a hierarchical pack layout.
package keywords
