package wiring

import (
	"cmp"
	"slices"
)

// Equal reports whether two diagrams are structurally equal: their boundary
// port sequences match and there is a bijection between their box-id sets
// under which corresponding boxes are equal by value and the wire multisets
// correspond. Equality is up to box relabeling but not up to reordering of
// ports within a box. The boundary sentinels always map to themselves.
func Equal(a, b *Diagram) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !slices.Equal(a.inputs, b.inputs) || !slices.Equal(a.outputs, b.outputs) {
		return false
	}
	if len(a.order) != len(b.order) || len(a.wires) != len(b.wires) {
		return false
	}

	m := &matcher{
		a: a, b: b,
		mapping: map[int]int{InputID: InputID, OutputID: OutputID},
		used:    make(map[int]bool, len(b.order)),
	}
	return m.match(0)
}

// matcher performs a backtracking search for a box bijection. Candidate
// pairs are pruned by box value equality and wire degree, which keeps the
// search linear on diagrams without many identical boxes.
type matcher struct {
	a, b    *Diagram
	mapping map[int]int
	used    map[int]bool
}

func (m *matcher) match(k int) bool {
	if k == len(m.a.order) {
		return m.wiresCorrespond()
	}
	ida := m.a.order[k]
	ba := m.a.boxes[ida]
	for _, idb := range m.b.order {
		if m.used[idb] {
			continue
		}
		if !ba.Equal(m.b.boxes[idb]) {
			continue
		}
		if degree(m.a, ida) != degree(m.b, idb) {
			continue
		}
		m.mapping[ida] = idb
		m.used[idb] = true
		if m.match(k + 1) {
			return true
		}
		delete(m.mapping, ida)
		delete(m.used, idb)
	}
	return false
}

// wiresCorrespond checks that renaming a's wires through the current mapping
// yields exactly b's wire multiset.
func (m *matcher) wiresCorrespond() bool {
	renamed := make([]Wire, len(m.a.wires))
	for i, w := range m.a.wires {
		w.Source.Box = m.mapping[w.Source.Box]
		w.Target.Box = m.mapping[w.Target.Box]
		renamed[i] = w
	}
	bw := slices.Clone(m.b.wires)
	slices.SortFunc(renamed, compareWires)
	slices.SortFunc(bw, compareWires)
	return slices.Equal(renamed, bw)
}

func degree(d *Diagram, id int) [2]int {
	var deg [2]int
	for _, w := range d.wires {
		if w.Target.Box == id {
			deg[0]++
		}
		if w.Source.Box == id {
			deg[1]++
		}
	}
	return deg
}

func compareWires(x, y Wire) int {
	return cmp.Or(
		cmp.Compare(x.Source.Box, y.Source.Box),
		cmp.Compare(x.Source.Kind, y.Source.Kind),
		cmp.Compare(x.Source.Index, y.Source.Index),
		cmp.Compare(x.Target.Box, y.Target.Box),
		cmp.Compare(x.Target.Kind, y.Target.Kind),
		cmp.Compare(x.Target.Index, y.Target.Index),
	)
}
