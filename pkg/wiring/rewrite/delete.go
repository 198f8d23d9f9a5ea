package rewrite

import "github.com/jhagedorn/wirecat/pkg/wiring"

// NormalizeDelete eliminates dead computation. Delete boxes are always
// removed; any other box with at least one output port, none of which feeds
// a wire, is dead and removed together with its incident wires. Removal is
// transitive: dropping a box can strand its producers, so the pass re-scans
// until a full sweep removes nothing.
//
// Boxes with zero output ports other than Delete generators are kept: they
// have nothing downstream to be dead for, and may stand for effects.
func NormalizeDelete(d *wiring.Diagram) Result {
	var res Result
	for changed := true; changed; {
		changed = false
		for _, id := range d.BoxIDs() {
			b, ok := d.Box(id)
			if !ok || !isDead(d, id, b) {
				continue
			}
			d.RemoveBox(id)
			res.DeadBoxesRemoved++
			changed = true
		}
	}
	return res
}

func isDead(d *wiring.Diagram, id int, b wiring.Box) bool {
	if b.Kind == wiring.BoxDelete {
		return true
	}
	if b.OutArity() == 0 {
		return false
	}
	for i := 1; i <= b.OutArity(); i++ {
		if len(d.WiresFrom(wiring.Port{Box: id, Kind: wiring.Out, Index: i})) > 0 {
			return false
		}
	}
	return true
}
