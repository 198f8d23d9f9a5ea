package ordering

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jhagedorn/wirecat/pkg/wiring"
)

// ErrUnknownNode is returned by [MinimizeCrossings] when ids, Sources, or
// Targets reference a box absent from the diagram. No partial reordering is
// performed.
var ErrUnknownNode = errors.New("node set references a box not in the diagram")

// Options fixes the adjacent layers against which a layer is ordered.
// Either or both may be set; boundary sentinels are legal members.
type Options struct {
	// Sources is the fixed upstream layer in left-to-right order.
	Sources []int
	// Targets is the fixed downstream layer in left-to-right order.
	Targets []int
}

// MinimizeCrossings returns a permutation of ids intended to reduce wire
// crossings when the ids are drawn in one layer between the fixed layers in
// opts. This is the classical barycenter heuristic: each id's sort key is
// the mean position of its neighbors within a fixed layer (averaged across
// both layers when both are supplied and connected), with a stable fallback
// to the id's original position when it has no neighbor there. The sort is
// stable, so ties keep their original relative order.
//
// The heuristic is exact on series-parallel shapes but not in general; use
// [CountLayerCrossings] to measure the result. The input slice is not
// modified.
func MinimizeCrossings(d *wiring.Diagram, ids []int, opts Options) ([]int, error) {
	for _, set := range [][]int{ids, opts.Sources, opts.Targets} {
		if err := checkNodeSet(d, set); err != nil {
			return nil, err
		}
	}

	srcPos := posMap(opts.Sources)
	tgtPos := posMap(opts.Targets)

	keys := make(map[int]float64, len(ids))
	for i, id := range ids {
		srcMean, srcOK := neighborMean(d, id, srcPos, true)
		tgtMean, tgtOK := neighborMean(d, id, tgtPos, false)
		switch {
		case srcOK && tgtOK:
			keys[id] = (srcMean + tgtMean) / 2
		case srcOK:
			keys[id] = srcMean
		case tgtOK:
			keys[id] = tgtMean
		default:
			keys[id] = float64(i)
		}
	}

	out := slices.Clone(ids)
	slices.SortStableFunc(out, func(a, b int) int {
		switch {
		case keys[a] < keys[b]:
			return -1
		case keys[a] > keys[b]:
			return 1
		}
		return 0
	})
	return out, nil
}

func checkNodeSet(d *wiring.Diagram, ids []int) error {
	for _, id := range ids {
		if id == wiring.InputID || id == wiring.OutputID {
			continue
		}
		if _, ok := d.Box(id); !ok {
			return fmt.Errorf("%w: %d", ErrUnknownNode, id)
		}
	}
	return nil
}

// neighborMean averages the fixed-layer positions of id's neighbors.
// With upstream true it follows wires into id; otherwise wires out of id.
// Each wire counts once, so multi-wire neighbors weigh proportionally.
func neighborMean(d *wiring.Diagram, id int, pos map[int]int, upstream bool) (float64, bool) {
	sum, n := 0.0, 0
	for _, w := range d.Wires() {
		var neighbor int
		if upstream {
			if w.Target.Box != id {
				continue
			}
			neighbor = w.Source.Box
		} else {
			if w.Source.Box != id {
				continue
			}
			neighbor = w.Target.Box
		}
		if p, ok := pos[neighbor]; ok {
			sum += float64(p)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// posMap maps each id in the slice to its index.
func posMap(ids []int) map[int]int {
	m := make(map[int]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
