// Package wiring provides the mutable port-graph representation of wiring
// diagrams: morphisms of monoidal categories drawn as boxes connected by
// typed wires.
//
// # Overview
//
// A [Diagram] holds an arena of boxes indexed by stable integer id, a set of
// [Wire] values referencing ports by (box, kind, index), and the diagram's
// own boundary port sequences. Two sentinel ids, [InputID] and [OutputID],
// stand for those boundaries: the input boundary's output ports are the
// diagram's inputs, and the output boundary's input ports are its outputs.
//
// Boxes come in six kinds (see [BoxKind]): atomic boxes with arbitrary typed
// ports, the four structural generators Copy, Merge, Delete, and Create with
// fixed arities, and n-to-m junctions that generalize all four on a single
// shared value.
//
// # Basic Usage
//
// Build a diagram by adding boxes, then wiring ports:
//
//	d := wiring.New([]wiring.Value{"A"}, []wiring.Value{"B"})
//	f := d.AddBox(wiring.Atomic("f", []wiring.Value{"A"}, []wiring.Value{"B"}))
//	err := d.AddWires(
//		wiring.Wire{Source: wiring.Port{Box: wiring.InputID, Kind: wiring.Out, Index: 1},
//			Target: wiring.Port{Box: f, Kind: wiring.In, Index: 1}},
//		wiring.Wire{Source: wiring.Port{Box: f, Kind: wiring.Out, Index: 1},
//			Target: wiring.Port{Box: wiring.OutputID, Kind: wiring.In, Index: 1}},
//	)
//
// [Diagram.AddWires] validates the whole batch before mutating anything:
// port kinds, index ranges, and value-tag equality between endpoints.
//
// # Equality
//
// [Equal] compares diagrams up to a bijection on box ids. Rewriting passes
// promise graph isomorphism, not literal id preservation, so tests compare
// their results with [Equal] rather than by id.
//
// # Concurrency
//
// Diagrams are not safe for concurrent use. The rewriting passes in the
// rewrite subpackage require exclusive access for their duration; callers
// needing concurrent reads must [Diagram.Clone] first.
//
// # Related Packages
//
// The [rewrite] subpackage provides the in-place transformation passes
// (junction insertion and removal, copy and delete normalization). The
// [ordering] subpackage computes crossing-reduced box orderings for layered
// rendering.
//
// [rewrite]: github.com/jhagedorn/wirecat/pkg/wiring/rewrite
// [ordering]: github.com/jhagedorn/wirecat/pkg/wiring/ordering
package wiring
