package rewrite

import "github.com/jhagedorn/wirecat/pkg/wiring"

// NormalizeCopy eliminates redundant duplicate computation: wherever a Copy
// box feeds two structurally identical atomic boxes whose remaining inputs
// come from the same sources, the pair is collapsed into a single box with
// the duplication pushed past it onto each output. The pass re-scans until
// no such pattern remains.
//
// Each merge removes one atomic box, so the pass terminates; running it on
// its own output is a no-op.
func NormalizeCopy(d *wiring.Diagram) Result {
	var res Result
	for mergeOneCopy(d) {
		res.CopiesMerged++
	}
	return res
}

// mergeOneCopy finds and rewrites a single copy-duplication pattern.
// It reports whether anything changed.
func mergeOneCopy(d *wiring.Diagram) bool {
	for _, cid := range d.BoxIDs() {
		c, ok := d.Box(cid)
		if !ok || c.Kind != wiring.BoxCopy {
			continue
		}
		t1, ok1 := singleTarget(d, wiring.Port{Box: cid, Kind: wiring.Out, Index: 1})
		t2, ok2 := singleTarget(d, wiring.Port{Box: cid, Kind: wiring.Out, Index: 2})
		if !ok1 || !ok2 || t1.Box == t2.Box || t1.Box < 0 || t2.Box < 0 {
			continue
		}
		g1, ok1 := d.Box(t1.Box)
		g2, ok2 := d.Box(t2.Box)
		if !ok1 || !ok2 || g1.Kind != wiring.BoxAtomic || g2.Kind != wiring.BoxAtomic {
			continue
		}
		if !g1.Equal(g2) || t1.Index != t2.Index {
			continue
		}
		if !sharedInputs(d, t1.Box, t2.Box, g1.InArity(), t1.Index) {
			continue
		}
		mergeCopies(d, cid, t1, t2, g1)
		return true
	}
	return false
}

// singleTarget returns the target of the unique wire leaving p, if any.
func singleTarget(d *wiring.Diagram, p wiring.Port) (wiring.Port, bool) {
	ws := d.WiresFrom(p)
	if len(ws) != 1 {
		return wiring.Port{}, false
	}
	return ws[0].Target, true
}

// sharedInputs reports whether boxes a and b receive every input other than
// the copied one (at index skip) from the same source port.
func sharedInputs(d *wiring.Diagram, a, b, arity, skip int) bool {
	for i := 1; i <= arity; i++ {
		if i == skip {
			continue
		}
		wa, oka := d.WireInto(wiring.Port{Box: a, Kind: wiring.In, Index: i})
		wb, okb := d.WireInto(wiring.Port{Box: b, Kind: wiring.In, Index: i})
		if !oka || !okb || wa.Source != wb.Source {
			return false
		}
	}
	return true
}

// mergeCopies collapses the duplicated box pair (t1.Box, t2.Box) fed by the
// copy cid: the copy and the second box are removed, the copy's source feeds
// the surviving box directly, and a fresh Copy is inserted after each of its
// outputs to serve both sets of downstream consumers.
func mergeCopies(d *wiring.Diagram, cid int, t1, t2 wiring.Port, g wiring.Box) {
	src, ok := d.WireInto(wiring.Port{Box: cid, Kind: wiring.In, Index: 1})
	if !ok {
		panic("rewrite: copy box input port is unwired")
	}
	keep, drop := t1.Box, t2.Box

	// Downstream consumers of both boxes, per output port.
	targets1 := make([][]wiring.Port, g.OutArity())
	targets2 := make([][]wiring.Port, g.OutArity())
	for j := 1; j <= g.OutArity(); j++ {
		for _, w := range d.WiresFrom(wiring.Port{Box: keep, Kind: wiring.Out, Index: j}) {
			targets1[j-1] = append(targets1[j-1], w.Target)
		}
		for _, w := range d.WiresFrom(wiring.Port{Box: drop, Kind: wiring.Out, Index: j}) {
			targets2[j-1] = append(targets2[j-1], w.Target)
		}
	}

	d.RemoveBox(cid)
	d.RemoveBox(drop)
	d.RemoveWires(func(w wiring.Wire) bool { return w.Source.Box == keep })
	mustAddWires(d, wiring.Wire{Source: src.Source, Target: wiring.Port{Box: keep, Kind: wiring.In, Index: t1.Index}})

	for j := 1; j <= g.OutArity(); j++ {
		v, _ := g.OutValue(j)
		cp := d.AddBox(wiring.Copy(v))
		mustAddWires(d, wiring.Wire{
			Source: wiring.Port{Box: keep, Kind: wiring.Out, Index: j},
			Target: wiring.Port{Box: cp, Kind: wiring.In, Index: 1},
		})
		for _, t := range targets1[j-1] {
			mustAddWires(d, wiring.Wire{Source: wiring.Port{Box: cp, Kind: wiring.Out, Index: 1}, Target: t})
		}
		for _, t := range targets2[j-1] {
			mustAddWires(d, wiring.Wire{Source: wiring.Port{Box: cp, Kind: wiring.Out, Index: 2}, Target: t})
		}
	}
}
