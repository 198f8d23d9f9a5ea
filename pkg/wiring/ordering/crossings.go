package ordering

import (
	"slices"

	"github.com/jhagedorn/wirecat/pkg/wiring"
)

// CountLayerCrossings counts wire crossings between two adjacent layers
// using a Fenwick tree (binary indexed tree) for O(E log V) performance,
// where E is the number of wires between the layers and V the size of the
// lower layer.
//
// Two wires (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and
// pos(v1) > pos(v2), which is the number of inversions in the sequence of
// target positions once wires are sorted by source position. Wires touching
// boxes outside the two layers are ignored. Returns 0 when either layer is
// empty.
func CountLayerCrossings(d *wiring.Diagram, upper, lower []int) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	upperPos := posMap(upper)
	lowerPos := posMap(lower)

	type edge struct{ upper, lower int }
	var edges []edge
	for _, w := range d.Wires() {
		u, okU := upperPos[w.Source.Box]
		l, okL := lowerPos[w.Target.Box]
		if okU && okL {
			edges = append(edges, edge{u, l})
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	// Count inversions of the lower positions.
	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
