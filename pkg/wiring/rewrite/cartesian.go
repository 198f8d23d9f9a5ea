package rewrite

import (
	"errors"

	"github.com/jhagedorn/wirecat/pkg/wiring"
)

// ErrUnsupportedStructure is returned by [NormalizeCartesian] when the
// diagram contains merging or creation structure (Merge or Create boxes, or
// junctions with fan-in or zero in-arity). The copy and delete laws assume a
// cartesian category, where such structure has no normal form.
var ErrUnsupportedStructure = errors.New("cartesian normalization requires a diagram without merge or create structure")

// NormalizeCartesian applies [NormalizeCopy] and [NormalizeDelete] together,
// alternating until neither changes the diagram, and returns the combined
// result. It rejects diagrams containing Merge/Create structure up front
// rather than producing an unspecified rewrite; the diagram is untouched
// when an error is returned.
func NormalizeCartesian(d *wiring.Diagram) (Result, error) {
	for _, id := range d.BoxIDs() {
		b, _ := d.Box(id)
		switch b.Kind {
		case wiring.BoxMerge, wiring.BoxCreate:
			return Result{}, ErrUnsupportedStructure
		case wiring.BoxJunction:
			if b.NIn != 1 {
				return Result{}, ErrUnsupportedStructure
			}
		}
	}

	var res Result
	for {
		step := NormalizeCopy(d)
		step.add(NormalizeDelete(d))
		if step.Zero() {
			return res, nil
		}
		res.add(step)
	}
}
