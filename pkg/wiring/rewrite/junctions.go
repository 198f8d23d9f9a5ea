package rewrite

import (
	"fmt"

	"github.com/jhagedorn/wirecat/pkg/wiring"
)

// AddJunctions replaces every Copy, Merge, Delete, and Create box with a
// junction of matching value and arity: Copy(v) becomes Junction(v, 1, 2),
// Merge(v) becomes Junction(v, 2, 1), Delete(v) becomes Junction(v, 1, 0),
// and Create(v) becomes Junction(v, 0, 1). Incident wires keep their port
// kind and index and are retargeted to the new box id.
//
// The pass mutates d in place and is idempotent: junction boxes are left
// untouched, so re-running it on its own output is a no-op. Box ids after
// the pass are implementation-defined; the contract is isomorphism under
// [wiring.Equal].
func AddJunctions(d *wiring.Diagram) Result {
	var res Result
	for _, id := range d.BoxIDs() {
		b, ok := d.Box(id)
		if !ok {
			continue
		}
		j, ok := junctionFor(b)
		if !ok {
			continue
		}
		nid := d.AddBox(j)
		d.RetargetBox(id, nid)
		d.RemoveBox(id)
		res.JunctionsAdded++
	}
	return res
}

// junctionFor returns the junction equivalent of a generator box.
func junctionFor(b wiring.Box) (wiring.Box, bool) {
	switch b.Kind {
	case wiring.BoxCopy:
		return wiring.Junction(b.Value, 1, 2), true
	case wiring.BoxMerge:
		return wiring.Junction(b.Value, 2, 1), true
	case wiring.BoxDelete:
		return wiring.Junction(b.Value, 1, 0), true
	case wiring.BoxCreate:
		return wiring.Junction(b.Value, 0, 1), true
	}
	return wiring.Box{}, false
}

// RemoveJunctions expands every junction back into the combination of
// generators realizing the same fan, inverting [AddJunctions] exactly: for
// any diagram built only from atomic and generator boxes, remove∘add is the
// identity up to [wiring.Equal].
//
// The four basic arities expand to a single generator. Arities beyond them
// use the canonical decomposition of a left-fold Merge tree reducing all
// inputs to one value followed by a left-fold Copy chain fanning it out,
// with Create rooting the tree when the in-arity is zero and Delete draining
// it when the out-arity is zero. Junction(v, 1, 1) splices into a bare wire.
//
// Junction ports left unwired indicate the caller violated an input
// invariant; the pass panics on them rather than guessing.
func RemoveJunctions(d *wiring.Diagram) Result {
	var res Result
	for _, id := range d.BoxIDs() {
		b, ok := d.Box(id)
		if !ok || b.Kind != wiring.BoxJunction {
			continue
		}
		expandJunction(d, id, b)
		res.JunctionsExpanded++
	}
	return res
}

func expandJunction(d *wiring.Diagram, id int, b wiring.Box) {
	v := b.Value

	// Snapshot the external connectivity before removing the junction.
	ins := make([]wiring.Port, b.NIn)
	for i := 1; i <= b.NIn; i++ {
		w, ok := d.WireInto(wiring.Port{Box: id, Kind: wiring.In, Index: i})
		if !ok {
			panic(fmt.Sprintf("rewrite: junction %d input port %d is unwired", id, i))
		}
		ins[i-1] = w.Source
	}
	outs := make([][]wiring.Port, b.NOut)
	for i := 1; i <= b.NOut; i++ {
		for _, w := range d.WiresFrom(wiring.Port{Box: id, Kind: wiring.Out, Index: i}) {
			outs[i-1] = append(outs[i-1], w.Target)
		}
	}
	d.RemoveBox(id)

	// Fold the inputs down to a single output port carrying v.
	var mid wiring.Port
	switch {
	case b.NIn == 0:
		c := d.AddBox(wiring.Create(v))
		mid = wiring.Port{Box: c, Kind: wiring.Out, Index: 1}
	case b.NIn == 1:
		mid = ins[0]
	default:
		acc := ins[0]
		for i := 1; i < b.NIn; i++ {
			mg := d.AddBox(wiring.Merge(v))
			mustAddWires(d,
				wiring.Wire{Source: acc, Target: wiring.Port{Box: mg, Kind: wiring.In, Index: 1}},
				wiring.Wire{Source: ins[i], Target: wiring.Port{Box: mg, Kind: wiring.In, Index: 2}},
			)
			acc = wiring.Port{Box: mg, Kind: wiring.Out, Index: 1}
		}
		mid = acc
	}

	// Fan the folded value out over the junction's outputs.
	switch {
	case b.NOut == 0:
		del := d.AddBox(wiring.Delete(v))
		mustAddWires(d, wiring.Wire{Source: mid, Target: wiring.Port{Box: del, Kind: wiring.In, Index: 1}})
	case b.NOut == 1:
		for _, t := range outs[0] {
			mustAddWires(d, wiring.Wire{Source: mid, Target: t})
		}
	default:
		acc := mid
		for i := 0; i < b.NOut-1; i++ {
			cp := d.AddBox(wiring.Copy(v))
			mustAddWires(d, wiring.Wire{Source: acc, Target: wiring.Port{Box: cp, Kind: wiring.In, Index: 1}})
			for _, t := range outs[i] {
				mustAddWires(d, wiring.Wire{Source: wiring.Port{Box: cp, Kind: wiring.Out, Index: 1}, Target: t})
			}
			if i == b.NOut-2 {
				for _, t := range outs[b.NOut-1] {
					mustAddWires(d, wiring.Wire{Source: wiring.Port{Box: cp, Kind: wiring.Out, Index: 2}, Target: t})
				}
			}
			acc = wiring.Port{Box: cp, Kind: wiring.Out, Index: 2}
		}
	}
}

// mustAddWires adds wires whose validity follows from pass invariants.
// A failure here means the input diagram was inconsistent, which the caller
// is responsible for preventing.
func mustAddWires(d *wiring.Diagram, ws ...wiring.Wire) {
	if err := d.AddWires(ws...); err != nil {
		panic(fmt.Sprintf("rewrite: internal wiring failure: %v", err))
	}
}
