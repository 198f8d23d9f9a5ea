// Package rewrite provides the graph-rewriting passes over wiring diagrams.
//
// # Overview
//
// All passes mutate their diagram in place and return a [Result] describing
// what changed. Callers needing the pre-pass state must clone first. Four
// passes are provided:
//
//   - [AddJunctions]: unify Copy/Merge/Delete/Create boxes into junctions
//   - [RemoveJunctions]: expand junctions back into generators (exact inverse)
//   - [NormalizeCopy]: push duplication past shared identical computation
//   - [NormalizeDelete]: remove dead computation transitively
//
// [NormalizeCartesian] combines the last two to a joint fixpoint.
//
// # Junction Insertion and Removal
//
// Downstream consumers such as layout and rendering want to treat all
// structural fan nodes uniformly rather than special-casing four generator
// kinds, so [AddJunctions] rewrites each generator into an equivalent
// junction. [RemoveJunctions] is its exact inverse: for any diagram D built
// only from atomic and generator boxes,
//
//	rewrite.RemoveJunctions(rewrite.AddJunctions(d))
//
// leaves d structurally equal (under [wiring.Equal]) to where it started.
//
// # Normalization
//
// Copy normalization is the naturality of duplication in a cartesian
// category: duplicating a value and applying the same morphism to both
// copies equals applying the morphism once and duplicating its result.
// Delete normalization is dead-code elimination over the DAG. Both iterate
// as explicit bounded loops re-scanning until a sweep changes nothing; each
// rewrite strictly reduces the box count, so termination is structural.
//
// # Preconditions
//
// Passes assume a directed-acyclic, type-consistent diagram. Inconsistencies
// discovered mid-traversal (an unwired junction port, a wire that fails
// validation when re-added) indicate the caller broke an input invariant and
// cause a panic rather than a silent bad rewrite.
package rewrite
