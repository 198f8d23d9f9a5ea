// Package ordering computes crossing-reduced left-to-right arrangements of
// wiring-diagram boxes for layered rendering.
//
// [MinimizeCrossings] implements the barycenter heuristic from layered graph
// drawing: boxes are sorted by the mean position of their neighbors in a
// fixed adjacent layer. It is a heuristic, not an exact minimum-crossing
// solver; [CountLayerCrossings] measures the quality of an arrangement with
// a Fenwick-tree inversion count. [Layers] provides the longest-path layer
// assignment the renderer feeds into both.
//
// All functions read the diagram without mutating it and are deterministic,
// so they can run on a snapshot concurrently with other readers.
package ordering
