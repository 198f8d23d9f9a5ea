package ordering

import "github.com/jhagedorn/wirecat/pkg/wiring"

// Layers assigns each box to a horizontal layer using a longest-path
// traversal (Kahn's algorithm): boxes fed only by the input boundary sit at
// layer 0, and every other box sits one past the deepest of its producers.
// Renderers use the result to build ranks that [MinimizeCrossings] then
// orders.
//
// Layers assumes the diagram is acyclic; boxes on a cycle would never reach
// zero in-degree and are left at layer 0.
func Layers(d *wiring.Diagram) map[int]int {
	ids := d.BoxIDs()
	inDegree := make(map[int]int, len(ids))
	children := make(map[int][]int, len(ids))
	for _, w := range d.Wires() {
		if w.Source.Box < 0 || w.Target.Box < 0 {
			continue
		}
		inDegree[w.Target.Box]++
		children[w.Source.Box] = append(children[w.Source.Box], w.Target.Box)
	}

	layers := make(map[int]int, len(ids))
	var queue []int
	for _, id := range ids {
		layers[id] = 0
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range children[curr] {
			if l := layers[curr] + 1; l > layers[child] {
				layers[child] = l
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	return layers
}
