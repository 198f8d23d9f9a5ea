package rewrite

import (
	"testing"

	"github.com/jhagedorn/wirecat/pkg/wiring"
)

func port(box int, kind wiring.PortKind, index int) wiring.Port {
	return wiring.Port{Box: box, Kind: kind, Index: index}
}

func mustWire(t *testing.T, d *wiring.Diagram, ws ...wiring.Wire) {
	t.Helper()
	if err := d.AddWires(ws...); err != nil {
		t.Fatalf("AddWires: %v", err)
	}
}

// copyDiagram builds input -> Copy -> two outputs over value "a".
func copyDiagram(t *testing.T) *wiring.Diagram {
	t.Helper()
	d := wiring.New([]wiring.Value{"a"}, []wiring.Value{"a", "a"})
	cp := d.AddBox(wiring.Copy("a"))
	mustWire(t, d,
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 1), Target: port(cp, wiring.In, 1)},
		wiring.Wire{Source: port(cp, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 1)},
		wiring.Wire{Source: port(cp, wiring.Out, 2), Target: port(wiring.OutputID, wiring.In, 2)},
	)
	return d
}

// generatorDiagram wires one of each generator kind into a single diagram:
// input 1 is copied, one leg merged with a created value, and input 2 deleted.
func generatorDiagram(t *testing.T) *wiring.Diagram {
	t.Helper()
	d := wiring.New([]wiring.Value{"a", "a"}, []wiring.Value{"a", "a"})
	cp := d.AddBox(wiring.Copy("a"))
	mg := d.AddBox(wiring.Merge("a"))
	cr := d.AddBox(wiring.Create("a"))
	del := d.AddBox(wiring.Delete("a"))
	mustWire(t, d,
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 1), Target: port(cp, wiring.In, 1)},
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 2), Target: port(del, wiring.In, 1)},
		wiring.Wire{Source: port(cp, wiring.Out, 1), Target: port(mg, wiring.In, 1)},
		wiring.Wire{Source: port(cr, wiring.Out, 1), Target: port(mg, wiring.In, 2)},
		wiring.Wire{Source: port(cp, wiring.Out, 2), Target: port(wiring.OutputID, wiring.In, 1)},
		wiring.Wire{Source: port(mg, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 2)},
	)
	return d
}

func TestAddJunctionsReplacesGenerators(t *testing.T) {
	d := generatorDiagram(t)

	res := AddJunctions(d)
	if res.JunctionsAdded != 4 {
		t.Errorf("JunctionsAdded = %d, want 4", res.JunctionsAdded)
	}

	wantArities := map[[2]int]int{
		{1, 2}: 1, // copy
		{2, 1}: 1, // merge
		{0, 1}: 1, // create
		{1, 0}: 1, // delete
	}
	got := map[[2]int]int{}
	for _, id := range d.BoxIDs() {
		b, _ := d.Box(id)
		if b.Kind != wiring.BoxJunction {
			t.Fatalf("box %d: kind = %s, want junction", id, b.Kind)
		}
		got[[2]int{b.NIn, b.NOut}]++
	}
	for k, n := range wantArities {
		if got[k] != n {
			t.Errorf("junction arity %v: count = %d, want %d", k, got[k], n)
		}
	}
	if d.WireCount() != 6 {
		t.Errorf("WireCount() = %d, want 6", d.WireCount())
	}
}

func TestAddJunctionsIdempotent(t *testing.T) {
	d := generatorDiagram(t)
	AddJunctions(d)
	snapshot := d.Clone()

	res := AddJunctions(d)
	if !res.Zero() {
		t.Errorf("second run result = %+v, want zero", res)
	}
	if !wiring.Equal(d, snapshot) {
		t.Error("second run changed the diagram")
	}
}

func TestAddJunctionsLeavesAtomicBoxes(t *testing.T) {
	d := wiring.New([]wiring.Value{"a"}, []wiring.Value{"a"})
	f := d.AddBox(wiring.Atomic("f", []wiring.Value{"a"}, []wiring.Value{"a"}))
	mustWire(t, d,
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 1), Target: port(f, wiring.In, 1)},
		wiring.Wire{Source: port(f, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 1)},
	)
	snapshot := d.Clone()

	if res := AddJunctions(d); !res.Zero() {
		t.Errorf("result = %+v, want zero", res)
	}
	if !wiring.Equal(d, snapshot) {
		t.Error("pass changed a generator-free diagram")
	}
}

func TestRemoveJunctionsInvertsAdd(t *testing.T) {
	builders := map[string]func(*testing.T) *wiring.Diagram{
		"copy only": copyDiagram,
		"all kinds": generatorDiagram,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			d := build(t)
			want := d.Clone()

			added := AddJunctions(d)
			removed := RemoveJunctions(d)
			if removed.JunctionsExpanded != added.JunctionsAdded {
				t.Errorf("expanded %d junctions, added %d", removed.JunctionsExpanded, added.JunctionsAdded)
			}
			if !wiring.Equal(d, want) {
				t.Error("remove(add(d)) != d")
			}
		})
	}
}

func TestRemoveJunctionsPassThrough(t *testing.T) {
	// Junction(v, 1, 1) splices into a bare wire.
	d := wiring.New([]wiring.Value{"a"}, []wiring.Value{"a"})
	j := d.AddBox(wiring.Junction("a", 1, 1))
	mustWire(t, d,
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 1), Target: port(j, wiring.In, 1)},
		wiring.Wire{Source: port(j, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 1)},
	)

	RemoveJunctions(d)

	if d.BoxCount() != 0 {
		t.Errorf("BoxCount() = %d, want 0", d.BoxCount())
	}
	ws := d.Wires()
	if len(ws) != 1 {
		t.Fatalf("WireCount() = %d, want 1", len(ws))
	}
	if ws[0].Source.Box != wiring.InputID || ws[0].Target.Box != wiring.OutputID {
		t.Errorf("wire = %v, want input -> output", ws[0])
	}
}

func TestRemoveJunctionsZeroArity(t *testing.T) {
	// Junction(v, 0, 0) becomes Create feeding Delete.
	d := wiring.New(nil, nil)
	d.AddBox(wiring.Junction("a", 0, 0))

	RemoveJunctions(d)

	kinds := map[wiring.BoxKind]int{}
	for _, id := range d.BoxIDs() {
		b, _ := d.Box(id)
		kinds[b.Kind]++
	}
	if kinds[wiring.BoxCreate] != 1 || kinds[wiring.BoxDelete] != 1 {
		t.Errorf("kinds = %v, want one create and one delete", kinds)
	}
	if d.WireCount() != 1 {
		t.Errorf("WireCount() = %d, want 1", d.WireCount())
	}
}

func TestRemoveJunctionsLargeArity(t *testing.T) {
	// Junction(v, 3, 2) decomposes into a merge tree and a copy chain.
	d := wiring.New([]wiring.Value{"a", "a", "a"}, []wiring.Value{"a", "a"})
	j := d.AddBox(wiring.Junction("a", 3, 2))
	mustWire(t, d,
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 1), Target: port(j, wiring.In, 1)},
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 2), Target: port(j, wiring.In, 2)},
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 3), Target: port(j, wiring.In, 3)},
		wiring.Wire{Source: port(j, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 1)},
		wiring.Wire{Source: port(j, wiring.Out, 2), Target: port(wiring.OutputID, wiring.In, 2)},
	)

	RemoveJunctions(d)

	kinds := map[wiring.BoxKind]int{}
	for _, id := range d.BoxIDs() {
		b, _ := d.Box(id)
		kinds[b.Kind]++
	}
	if kinds[wiring.BoxMerge] != 2 {
		t.Errorf("merge count = %d, want 2", kinds[wiring.BoxMerge])
	}
	if kinds[wiring.BoxCopy] != 1 {
		t.Errorf("copy count = %d, want 1", kinds[wiring.BoxCopy])
	}
	if kinds[wiring.BoxJunction] != 0 {
		t.Error("junction should be gone")
	}

	// Every boundary port must still be wired exactly once.
	for i := 1; i <= 3; i++ {
		if len(d.WiresFrom(port(wiring.InputID, wiring.Out, i))) != 1 {
			t.Errorf("input %d wire count != 1", i)
		}
	}
	for i := 1; i <= 2; i++ {
		if _, ok := d.WireInto(port(wiring.OutputID, wiring.In, i)); !ok {
			t.Errorf("output %d is unwired", i)
		}
	}
}

func TestRemoveJunctionsFanOutSharing(t *testing.T) {
	// A junction output port with several consumers keeps all of them.
	d := wiring.New([]wiring.Value{"a"}, []wiring.Value{"a", "a"})
	j := d.AddBox(wiring.Junction("a", 1, 1))
	mustWire(t, d,
		wiring.Wire{Source: port(wiring.InputID, wiring.Out, 1), Target: port(j, wiring.In, 1)},
		wiring.Wire{Source: port(j, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 1)},
		wiring.Wire{Source: port(j, wiring.Out, 1), Target: port(wiring.OutputID, wiring.In, 2)},
	)

	RemoveJunctions(d)

	if d.WireCount() != 2 {
		t.Errorf("WireCount() = %d, want 2", d.WireCount())
	}
}

func TestRemoveJunctionsPanicsOnUnwiredInput(t *testing.T) {
	d := wiring.New(nil, nil)
	d.AddBox(wiring.Junction("a", 1, 0))

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unwired junction input")
		}
	}()
	RemoveJunctions(d)
}
