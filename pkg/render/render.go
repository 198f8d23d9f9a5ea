// Package render maps wiring diagrams onto the DOT AST and drives Graphviz
// to produce SVG, PDF, and PNG output.
//
// Atomic boxes draw as labelled rectangles, junctions as filled points, and
// the diagram boundaries as plaintext port nodes pinned to the source and
// sink ranks. Boxes are grouped into same-rank subgraphs by their layer
// assignment, with each rank's emission order chosen by the barycenter
// orderer so that simple diagrams come out crossing-free.
package render

import (
	"fmt"
	"maps"
	"slices"

	"github.com/jhagedorn/wirecat/pkg/dot"
	"github.com/jhagedorn/wirecat/pkg/wiring"
	"github.com/jhagedorn/wirecat/pkg/wiring/ordering"
)

// Options configures diagram rendering.
type Options struct {
	// ShowValues labels each wire with its port value-tag.
	ShowValues bool
	// Name sets the DOT graph name. Defaults to "G".
	Name string
}

// ToDOT converts a diagram to a DOT graph for layered rendering.
func ToDOT(d *wiring.Diagram, opts Options) dot.Graph {
	name := opts.Name
	if name == "" {
		name = "G"
	}
	g := dot.Graph{
		Name:     name,
		Directed: true,
		GraphAttrs: dot.Attrs{
			"rankdir": "TB",
			"ranksep": "0.5",
			"nodesep": "0.3",
		},
		NodeAttrs: dot.Attrs{
			"shape":     "box",
			"style":     "rounded,filled",
			"fillcolor": "white",
		},
	}

	g.Stmts = append(g.Stmts, boundaryRank("in", "source", d.Inputs()))
	for _, sub := range boxRanks(d) {
		g.Stmts = append(g.Stmts, sub)
	}
	g.Stmts = append(g.Stmts, boundaryRank("out", "sink", d.Outputs()))

	for _, w := range d.Wires() {
		e := dot.Edge{From: nodeName(w.Source.Box, w.Source.Index), To: nodeName(w.Target.Box, w.Target.Index)}
		if opts.ShowValues {
			if v, err := d.PortValue(w.Source); err == nil {
				e.Attrs = dot.Attrs{"label": string(v)}
			}
		}
		g.Stmts = append(g.Stmts, e)
	}
	return g
}

// boundaryRank builds the pinned rank of boundary port nodes.
func boundaryRank(prefix, rank string, values []wiring.Value) dot.Subgraph {
	sub := dot.Subgraph{
		GraphAttrs: dot.Attrs{"rank": rank},
		NodeAttrs:  dot.Attrs{"shape": "plaintext", "style": ""},
	}
	for i, v := range values {
		sub.Stmts = append(sub.Stmts, dot.Node{
			Name:  fmt.Sprintf("%s%d", prefix, i+1),
			Attrs: dot.Attrs{"label": dot.HTML(dot.EscapeText(string(v)))},
		})
	}
	return sub
}

// boxRanks groups boxes into same-rank subgraphs by layer, ordering each
// rank against the one above it.
func boxRanks(d *wiring.Diagram) []dot.Subgraph {
	layers := ordering.Layers(d)
	byLayer := make(map[int][]int)
	for _, id := range d.BoxIDs() {
		byLayer[layers[id]] = append(byLayer[layers[id]], id)
	}

	var subs []dot.Subgraph
	prev := []int{wiring.InputID}
	for _, l := range slices.Sorted(maps.Keys(byLayer)) {
		ids, err := ordering.MinimizeCrossings(d, byLayer[l], ordering.Options{Sources: prev})
		if err != nil {
			ids = byLayer[l]
		}
		sub := dot.Subgraph{GraphAttrs: dot.Attrs{"rank": "same"}}
		for _, id := range ids {
			b, _ := d.Box(id)
			sub.Stmts = append(sub.Stmts, dot.Node{Name: boxName(id), Attrs: boxAttrs(b)})
		}
		subs = append(subs, sub)
		prev = ids
	}
	return subs
}

func boxAttrs(b wiring.Box) dot.Attrs {
	switch b.Kind {
	case wiring.BoxAtomic:
		return dot.Attrs{"label": dot.HTML(dot.EscapeText(b.Name))}
	case wiring.BoxJunction:
		return dot.Attrs{
			"shape": "point", "style": "filled", "fillcolor": "black",
			"width": "0.08", "tooltip": fmt.Sprintf("%s (%d to %d)", b.Value, b.NIn, b.NOut),
		}
	default:
		return dot.Attrs{
			"shape": "point", "style": "filled", "fillcolor": "grey",
			"width": "0.08", "tooltip": fmt.Sprintf("%s %s", b.Kind, b.Value),
		}
	}
}

func boxName(id int) string { return fmt.Sprintf("n%d", id) }

// nodeName resolves a wire endpoint to its DOT node. Boundary sentinels map
// to the boundary port nodes; boxes map to their single node regardless of
// port index.
func nodeName(box, index int) string {
	switch box {
	case wiring.InputID:
		return fmt.Sprintf("in%d", index)
	case wiring.OutputID:
		return fmt.Sprintf("out%d", index)
	}
	return boxName(box)
}
