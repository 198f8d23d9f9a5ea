package render

import (
	"strings"
	"testing"

	"github.com/jhagedorn/wirecat/pkg/wiring"
)

func testDiagram(t *testing.T) *wiring.Diagram {
	t.Helper()
	d := wiring.New([]wiring.Value{"a"}, []wiring.Value{"b", "b"})
	f := d.AddBox(wiring.Atomic("f", []wiring.Value{"a"}, []wiring.Value{"b"}))
	cp := d.AddBox(wiring.Copy("b"))
	err := d.AddWires(
		wiring.Wire{
			Source: wiring.Port{Box: wiring.InputID, Kind: wiring.Out, Index: 1},
			Target: wiring.Port{Box: f, Kind: wiring.In, Index: 1},
		},
		wiring.Wire{
			Source: wiring.Port{Box: f, Kind: wiring.Out, Index: 1},
			Target: wiring.Port{Box: cp, Kind: wiring.In, Index: 1},
		},
		wiring.Wire{
			Source: wiring.Port{Box: cp, Kind: wiring.Out, Index: 1},
			Target: wiring.Port{Box: wiring.OutputID, Kind: wiring.In, Index: 1},
		},
		wiring.Wire{
			Source: wiring.Port{Box: cp, Kind: wiring.Out, Index: 2},
			Target: wiring.Port{Box: wiring.OutputID, Kind: wiring.In, Index: 2},
		},
	)
	if err != nil {
		t.Fatalf("AddWires: %v", err)
	}
	return d
}

func TestToDOTStructure(t *testing.T) {
	d := testDiagram(t)
	src := ToDOT(d, Options{}).String()

	wantFragments := []string{
		`digraph "G" {`,
		`rankdir="TB"`,
		`"in1"`,  // input boundary port
		`"out1"`, // output boundary ports
		`"out2"`,
		`"n1"`, // the f box
		`"n2"`, // the copy
		`"in1" -> "n1";`,
		`"n1" -> "n2";`,
		`"n2" -> "out1";`,
		`"n2" -> "out2";`,
	}
	for _, frag := range wantFragments {
		if !strings.Contains(src, frag) {
			t.Errorf("DOT missing %q:\n%s", frag, src)
		}
	}
}

func TestToDOTName(t *testing.T) {
	d := testDiagram(t)
	src := ToDOT(d, Options{Name: "pipeline"}).String()
	if !strings.HasPrefix(src, `digraph "pipeline" {`) {
		t.Errorf("DOT = %q, want named digraph", src[:40])
	}
}

func TestToDOTShowValues(t *testing.T) {
	d := testDiagram(t)

	plain := ToDOT(d, Options{}).String()
	if strings.Contains(plain, `label="a"`) {
		t.Error("wire labels present without ShowValues")
	}

	labelled := ToDOT(d, Options{ShowValues: true}).String()
	for _, want := range []string{`label="a"`, `label="b"`} {
		if !strings.Contains(labelled, want) {
			t.Errorf("DOT missing wire %s:\n%s", want, labelled)
		}
	}
}

func TestToDOTEscapesNames(t *testing.T) {
	d := wiring.New(nil, nil)
	d.AddBox(wiring.Atomic("a<b>&c", nil, nil))

	src := ToDOT(d, Options{}).String()
	if !strings.Contains(src, "a&lt;b&gt;&amp;c") {
		t.Errorf("DOT did not escape label:\n%s", src)
	}
}

func TestToDOTJunctionStyle(t *testing.T) {
	d := wiring.New([]wiring.Value{"a"}, []wiring.Value{"a"})
	j := d.AddBox(wiring.Junction("a", 1, 1))
	err := d.AddWires(
		wiring.Wire{
			Source: wiring.Port{Box: wiring.InputID, Kind: wiring.Out, Index: 1},
			Target: wiring.Port{Box: j, Kind: wiring.In, Index: 1},
		},
		wiring.Wire{
			Source: wiring.Port{Box: j, Kind: wiring.Out, Index: 1},
			Target: wiring.Port{Box: wiring.OutputID, Kind: wiring.In, Index: 1},
		},
	)
	if err != nil {
		t.Fatalf("AddWires: %v", err)
	}

	src := ToDOT(d, Options{}).String()
	if !strings.Contains(src, `shape="point"`) {
		t.Errorf("junction not drawn as point:\n%s", src)
	}
	if !strings.Contains(src, `tooltip="a (1 to 1)"`) {
		t.Errorf("junction tooltip missing:\n%s", src)
	}
}

func TestToDOTRanks(t *testing.T) {
	d := testDiagram(t)
	src := ToDOT(d, Options{}).String()

	for _, want := range []string{`rank="source"`, `rank="sink"`, `rank="same"`} {
		if strings.Count(src, want) == 0 {
			t.Errorf("DOT missing %s subgraph:\n%s", want, src)
		}
	}
	// f and the copy sit on different layers, so two same-rank subgraphs.
	if n := strings.Count(src, `rank="same"`); n != 2 {
		t.Errorf("same-rank subgraph count = %d, want 2", n)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="4.00 8.00 100.00 200.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 200.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="200"`) {
		t.Errorf("dimensions not rewritten: %s", out)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte("<svg><g/></svg>")
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("normalizeViewBox changed SVG without a viewBox: %s", got)
	}
}
