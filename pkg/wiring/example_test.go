package wiring_test

import (
	"fmt"

	"github.com/jhagedorn/wirecat/pkg/wiring"
)

func ExampleDiagram_basic() {
	// Build input -> f -> output over a single int wire.
	d := wiring.New([]wiring.Value{"int"}, []wiring.Value{"int"})
	f := d.AddBox(wiring.Atomic("f", []wiring.Value{"int"}, []wiring.Value{"int"}))

	_ = d.AddWires(
		wiring.Wire{
			Source: wiring.Port{Box: wiring.InputID, Kind: wiring.Out, Index: 1},
			Target: wiring.Port{Box: f, Kind: wiring.In, Index: 1},
		},
		wiring.Wire{
			Source: wiring.Port{Box: f, Kind: wiring.Out, Index: 1},
			Target: wiring.Port{Box: wiring.OutputID, Kind: wiring.In, Index: 1},
		},
	)

	fmt.Println("Boxes:", d.BoxCount())
	fmt.Println("Wires:", d.WireCount())
	// Output:
	// Boxes: 1
	// Wires: 2
}

func ExampleDiagram_AddWires_validation() {
	d := wiring.New([]wiring.Value{"int"}, nil)
	f := d.AddBox(wiring.Atomic("f", []wiring.Value{"string"}, nil))

	// int and string ports cannot be wired together.
	err := d.AddWires(wiring.Wire{
		Source: wiring.Port{Box: wiring.InputID, Kind: wiring.Out, Index: 1},
		Target: wiring.Port{Box: f, Kind: wiring.In, Index: 1},
	})
	fmt.Println(err != nil)
	// Output:
	// true
}

func ExampleEqual() {
	build := func() *wiring.Diagram {
		d := wiring.New([]wiring.Value{"int"}, []wiring.Value{"int"})
		f := d.AddBox(wiring.Atomic("f", []wiring.Value{"int"}, []wiring.Value{"int"}))
		_ = d.AddWires(
			wiring.Wire{
				Source: wiring.Port{Box: wiring.InputID, Kind: wiring.Out, Index: 1},
				Target: wiring.Port{Box: f, Kind: wiring.In, Index: 1},
			},
			wiring.Wire{
				Source: wiring.Port{Box: f, Kind: wiring.Out, Index: 1},
				Target: wiring.Port{Box: wiring.OutputID, Kind: wiring.In, Index: 1},
			},
		)
		return d
	}

	fmt.Println(wiring.Equal(build(), build()))
	// Output:
	// true
}
