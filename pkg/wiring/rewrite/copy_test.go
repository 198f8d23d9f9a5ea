package rewrite

import (
	"testing"

	"github.com/jhagedorn/wirecat/pkg/wiring"
)

// duplicatedDiagram builds the classic duplication pattern: a Copy feeds two
// identical atomic boxes f whose outputs reach separate diagram outputs.
func duplicatedDiagram(t *testing.T) *wiring.Diagram {
	t.Helper()
	d := wiring.New([]wiring.Value{"a"}, []wiring.Value{"b", "b"})
	cp := d.AddBox(wiring.Copy("a"))
	f1 := d.AddBox(wiring.Atomic("f", []wiring.Value{"a"}, []wiring.Value{"b"}))
	f2 := d.AddBox(wiring.Atomic("f", []wiring.Value{"a"}, []wiring.Value{"b"}))
	mustWire(t, d,
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 1), Target: port(cp, wiring.In, 1)},
		wiring.Wire{Source: port(cp, wiring.Out, 1), Target: port(f1, wiring.In, 1)},
		wiring.Wire{Source: port(cp, wiring.Out, 2), Target: port(f2, wiring.In, 1)},
		wiring.Wire{Source: port(f1, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 1)},
		wiring.Wire{Source: port(f2, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 2)},
	)
	return d
}

func TestNormalizeCopyMergesDuplicates(t *testing.T) {
	d := duplicatedDiagram(t)

	res := NormalizeCopy(d)
	if res.CopiesMerged != 1 {
		t.Errorf("CopiesMerged = %d, want 1", res.CopiesMerged)
	}

	// One f box and one Copy remain, with the Copy pushed past f.
	var atomics, copies int
	var fid int
	for _, id := range d.BoxIDs() {
		b, _ := d.Box(id)
		switch b.Kind {
		case wiring.BoxAtomic:
			atomics++
			fid = id
		case wiring.BoxCopy:
			copies++
		default:
			t.Errorf("unexpected box kind %s", b.Kind)
		}
	}
	if atomics != 1 || copies != 1 {
		t.Fatalf("got %d atomic, %d copy boxes, want 1 and 1", atomics, copies)
	}
	w, ok := d.WireInto(port(fid, wiring.In, 1))
	if !ok || w.Source.Box != wiring.InputID {
		t.Errorf("f input wired from %v, want diagram input", w.Source)
	}
}

func TestNormalizeCopyExpected(t *testing.T) {
	d := duplicatedDiagram(t)
	NormalizeCopy(d)

	want := wiring.New([]wiring.Value{"a"}, []wiring.Value{"b", "b"})
	f := want.AddBox(wiring.Atomic("f", []wiring.Value{"a"}, []wiring.Value{"b"}))
	cp := want.AddBox(wiring.Copy("b"))
	mustWire(t, want,
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 1), Target: port(f, wiring.In, 1)},
		wiring.Wire{Source: port(f, wiring.Out, 1), Target: port(cp, wiring.In, 1)},
		wiring.Wire{Source: port(cp, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 1)},
		wiring.Wire{Source: port(cp, wiring.Out, 2), Target: port(wiring.OutputID, wiring.In, 2)},
	)

	if !wiring.Equal(d, want) {
		t.Error("normalized diagram differs from expected form")
	}
}

func TestNormalizeCopyChainFixpoint(t *testing.T) {
	// Two copies fan input out to three identical boxes. Collapsing one pair
	// exposes the next, so the pass has to re-scan to reach a fixpoint.
	d := wiring.New([]wiring.Value{"a"}, []wiring.Value{"b", "b", "b"})
	c1 := d.AddBox(wiring.Copy("a"))
	c2 := d.AddBox(wiring.Copy("a"))
	f1 := d.AddBox(wiring.Atomic("f", []wiring.Value{"a"}, []wiring.Value{"b"}))
	f2 := d.AddBox(wiring.Atomic("f", []wiring.Value{"a"}, []wiring.Value{"b"}))
	f3 := d.AddBox(wiring.Atomic("f", []wiring.Value{"a"}, []wiring.Value{"b"}))
	mustWire(t, d,
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 1), Target: port(c1, wiring.In, 1)},
		wiring.Wire{Source: port(c1, wiring.Out, 1), Target: port(c2, wiring.In, 1)},
		wiring.Wire{Source: port(c1, wiring.Out, 2), Target: port(f3, wiring.In, 1)},
		wiring.Wire{Source: port(c2, wiring.Out, 1), Target: port(f1, wiring.In, 1)},
		wiring.Wire{Source: port(c2, wiring.Out, 2), Target: port(f2, wiring.In, 1)},
		wiring.Wire{Source: port(f1, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 1)},
		wiring.Wire{Source: port(f2, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 2)},
		wiring.Wire{Source: port(f3, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 3)},
	)

	res := NormalizeCopy(d)
	if res.CopiesMerged != 2 {
		t.Errorf("CopiesMerged = %d, want 2", res.CopiesMerged)
	}
	var atomics int
	for _, id := range d.BoxIDs() {
		if b, _ := d.Box(id); b.Kind == wiring.BoxAtomic {
			atomics++
		}
	}
	if atomics != 1 {
		t.Errorf("atomic box count = %d, want 1", atomics)
	}
}

func TestNormalizeCopyIdempotent(t *testing.T) {
	d := duplicatedDiagram(t)
	NormalizeCopy(d)
	snapshot := d.Clone()

	if res := NormalizeCopy(d); !res.Zero() {
		t.Errorf("second run result = %+v, want zero", res)
	}
	if !wiring.Equal(d, snapshot) {
		t.Error("second run changed the diagram")
	}
}

func TestNormalizeCopySkipsDistinctBoxes(t *testing.T) {
	// f and g share the copy but are not identical, so nothing merges.
	d := wiring.New([]wiring.Value{"a"}, []wiring.Value{"b", "b"})
	cp := d.AddBox(wiring.Copy("a"))
	f := d.AddBox(wiring.Atomic("f", []wiring.Value{"a"}, []wiring.Value{"b"}))
	g := d.AddBox(wiring.Atomic("g", []wiring.Value{"a"}, []wiring.Value{"b"}))
	mustWire(t, d,
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 1), Target: port(cp, wiring.In, 1)},
		wiring.Wire{Source: port(cp, wiring.Out, 1), Target: port(f, wiring.In, 1)},
		wiring.Wire{Source: port(cp, wiring.Out, 2), Target: port(g, wiring.In, 1)},
		wiring.Wire{Source: port(f, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 1)},
		wiring.Wire{Source: port(g, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 2)},
	)
	snapshot := d.Clone()

	if res := NormalizeCopy(d); !res.Zero() {
		t.Errorf("result = %+v, want zero", res)
	}
	if !wiring.Equal(d, snapshot) {
		t.Error("pass changed a diagram with no duplicates")
	}
}

func TestNormalizeCopySkipsUnsharedInputs(t *testing.T) {
	// Two identical two-input boxes whose second inputs come from different
	// sources must not merge.
	d := wiring.New([]wiring.Value{"a", "b", "b"}, []wiring.Value{"c", "c"})
	cp := d.AddBox(wiring.Copy("a"))
	f1 := d.AddBox(wiring.Atomic("f", []wiring.Value{"a", "b"}, []wiring.Value{"c"}))
	f2 := d.AddBox(wiring.Atomic("f", []wiring.Value{"a", "b"}, []wiring.Value{"c"}))
	mustWire(t, d,
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 1), Target: port(cp, wiring.In, 1)},
		wiring.Wire{Source: port(cp, wiring.Out, 1), Target: port(f1, wiring.In, 1)},
		wiring.Wire{Source: port(cp, wiring.Out, 2), Target: port(f2, wiring.In, 1)},
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 2), Target: port(f1, wiring.In, 2)},
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 3), Target: port(f2, wiring.In, 2)},
		wiring.Wire{Source: port(f1, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 1)},
		wiring.Wire{Source: port(f2, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 2)},
	)
	snapshot := d.Clone()

	if res := NormalizeCopy(d); !res.Zero() {
		t.Errorf("result = %+v, want zero", res)
	}
	if !wiring.Equal(d, snapshot) {
		t.Error("pass merged boxes with unshared inputs")
	}
}
