package wiring

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownBox is returned by [Diagram.AddWires] and [Diagram.PortValue]
	// when a port reference names a box id that does not exist in the diagram.
	ErrUnknownBox = errors.New("unknown box id")

	// ErrPortOutOfRange is returned when a port reference's index exceeds the
	// arity of the referenced box (or boundary) for that port kind.
	ErrPortOutOfRange = errors.New("port index out of range")

	// ErrPortKindMismatch is returned when a wire does not run from an
	// output-kind port to an input-kind port.
	ErrPortKindMismatch = errors.New("wire must run from an output port to an input port")

	// ErrValueMismatch is returned when a wire's source and target port
	// value-tags differ. Wires are only legal between ports of equal value.
	ErrValueMismatch = errors.New("source and target port values differ")
)

// Reserved box ids for the diagram boundaries. The input boundary's output
// ports are the diagram's inputs; the output boundary's input ports are the
// diagram's outputs.
const (
	InputID  = -1
	OutputID = -2
)

// PortKind distinguishes input from output ports in a [Port] reference.
type PortKind int

const (
	// In refers to an input port of a box (or the output boundary).
	In PortKind = iota
	// Out refers to an output port of a box (or the input boundary).
	Out
)

// String returns "in" or "out".
func (k PortKind) String() string {
	if k == In {
		return "in"
	}
	return "out"
}

// Port references a single port: a box id (or boundary sentinel), a port
// kind, and a 1-based index. It is valid only while the index is within the
// arity of that port kind on the referenced box.
type Port struct {
	Box   int
	Kind  PortKind
	Index int
}

// String renders the reference as e.g. "3.out[1]" or "input.out[2]".
func (p Port) String() string {
	box := fmt.Sprintf("%d", p.Box)
	switch p.Box {
	case InputID:
		box = "input"
	case OutputID:
		box = "output"
	}
	return fmt.Sprintf("%s.%s[%d]", box, p.Kind, p.Index)
}

// Wire is a directed connection from an output-kind port (or the input
// boundary) to an input-kind port (or the output boundary).
type Wire struct {
	Source Port
	Target Port
}

// String renders the wire as "src -> tgt".
func (w Wire) String() string { return w.Source.String() + " -> " + w.Target.String() }

// Diagram is a mutable directed port graph encoding a morphism of a monoidal
// category. Boxes live in an arena indexed by stable integer id; wires are
// plain (id, kind, index) pairs, so boxes can be added and removed mid-pass
// without invalidating references.
//
// Diagrams are owned by a single caller. The rewriting passes in the rewrite
// subpackage mutate a diagram in place; callers needing the pre-pass state
// must [Diagram.Clone] first. A Diagram is not safe for concurrent use.
type Diagram struct {
	inputs  []Value
	outputs []Value
	boxes   map[int]Box
	order   []int // box ids in insertion order
	wires   []Wire
	nextID  int
}

// New creates an empty diagram with the given boundary port value sequences.
func New(inputs, outputs []Value) *Diagram {
	return &Diagram{
		inputs:  slices.Clone(inputs),
		outputs: slices.Clone(outputs),
		boxes:   make(map[int]Box),
		nextID:  1,
	}
}

// Inputs returns a copy of the diagram's input port value sequence.
func (d *Diagram) Inputs() []Value { return slices.Clone(d.inputs) }

// Outputs returns a copy of the diagram's output port value sequence.
func (d *Diagram) Outputs() []Value { return slices.Clone(d.outputs) }

// AddBox adds a box to the diagram and returns its fresh id.
// Ids are unique for the lifetime of the diagram and never reused.
func (d *Diagram) AddBox(b Box) int {
	id := d.nextID
	d.nextID++
	d.boxes[id] = b.Clone()
	d.order = append(d.order, id)
	return id
}

// Box returns the box with the given id and true, or the zero box and false.
func (d *Diagram) Box(id int) (Box, bool) {
	b, ok := d.boxes[id]
	return b, ok
}

// BoxIDs returns the box ids in insertion order. The order is stable across
// reads but carries no semantic meaning. The returned slice is a copy.
func (d *Diagram) BoxIDs() []int { return slices.Clone(d.order) }

// BoxCount returns the number of boxes in the diagram.
func (d *Diagram) BoxCount() int { return len(d.boxes) }

// Wires returns a copy of all wires in insertion order.
func (d *Diagram) Wires() []Wire { return slices.Clone(d.wires) }

// WireCount returns the number of wires in the diagram.
func (d *Diagram) WireCount() int { return len(d.wires) }

// PortValue resolves a port reference to its value-tag. Boundary sentinels
// resolve against the diagram's input/output sequences. Returns
// [ErrUnknownBox], [ErrPortOutOfRange], or [ErrPortKindMismatch] for invalid
// references.
func (d *Diagram) PortValue(p Port) (Value, error) {
	switch p.Box {
	case InputID:
		if p.Kind != Out {
			return "", fmt.Errorf("%w: %s (input boundary has only output ports)", ErrPortKindMismatch, p)
		}
		if p.Index < 1 || p.Index > len(d.inputs) {
			return "", fmt.Errorf("%w: %s", ErrPortOutOfRange, p)
		}
		return d.inputs[p.Index-1], nil
	case OutputID:
		if p.Kind != In {
			return "", fmt.Errorf("%w: %s (output boundary has only input ports)", ErrPortKindMismatch, p)
		}
		if p.Index < 1 || p.Index > len(d.outputs) {
			return "", fmt.Errorf("%w: %s", ErrPortOutOfRange, p)
		}
		return d.outputs[p.Index-1], nil
	}

	b, ok := d.boxes[p.Box]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownBox, p.Box)
	}
	var v Value
	var in bool
	if p.Kind == In {
		v, in = b.InValue(p.Index)
	} else {
		v, in = b.OutValue(p.Index)
	}
	if !in {
		return "", fmt.Errorf("%w: %s", ErrPortOutOfRange, p)
	}
	return v, nil
}

// AddWires validates and adds a batch of wires. Every wire must run from an
// output-kind port (or the input boundary) to an input-kind port (or the
// output boundary), reference existing boxes and in-range indexes, and
// connect ports of equal value. On any validation failure the diagram is
// left unmodified and the error identifies the offending wire.
func (d *Diagram) AddWires(ws ...Wire) error {
	for _, w := range ws {
		if err := d.checkWire(w); err != nil {
			return err
		}
	}
	d.wires = append(d.wires, ws...)
	return nil
}

func (d *Diagram) checkWire(w Wire) error {
	if w.Source.Kind != Out {
		return fmt.Errorf("%w: %s", ErrPortKindMismatch, w)
	}
	if w.Target.Kind != In {
		return fmt.Errorf("%w: %s", ErrPortKindMismatch, w)
	}
	sv, err := d.PortValue(w.Source)
	if err != nil {
		return err
	}
	tv, err := d.PortValue(w.Target)
	if err != nil {
		return err
	}
	if sv != tv {
		return fmt.Errorf("%w: %s (%s vs %s)", ErrValueMismatch, w, sv, tv)
	}
	return nil
}

// WiresInto returns all wires whose target is a port of the given box.
func (d *Diagram) WiresInto(id int) []Wire {
	var ws []Wire
	for _, w := range d.wires {
		if w.Target.Box == id {
			ws = append(ws, w)
		}
	}
	return ws
}

// WiresOutOf returns all wires whose source is a port of the given box.
func (d *Diagram) WiresOutOf(id int) []Wire {
	var ws []Wire
	for _, w := range d.wires {
		if w.Source.Box == id {
			ws = append(ws, w)
		}
	}
	return ws
}

// WireInto returns the first wire targeting exactly the given port.
func (d *Diagram) WireInto(p Port) (Wire, bool) {
	for _, w := range d.wires {
		if w.Target == p {
			return w, true
		}
	}
	return Wire{}, false
}

// WiresFrom returns all wires whose source is exactly the given port.
func (d *Diagram) WiresFrom(p Port) []Wire {
	var ws []Wire
	for _, w := range d.wires {
		if w.Source == p {
			ws = append(ws, w)
		}
	}
	return ws
}

// RemoveBox removes the box and every wire incident to it.
// Removing an unknown id is a no-op.
func (d *Diagram) RemoveBox(id int) {
	if _, ok := d.boxes[id]; !ok {
		return
	}
	delete(d.boxes, id)
	d.order = slices.DeleteFunc(d.order, func(i int) bool { return i == id })
	d.wires = slices.DeleteFunc(d.wires, func(w Wire) bool {
		return w.Source.Box == id || w.Target.Box == id
	})
}

// RemoveWires removes every wire for which pred returns true and reports how
// many were removed.
func (d *Diagram) RemoveWires(pred func(Wire) bool) int {
	before := len(d.wires)
	d.wires = slices.DeleteFunc(d.wires, pred)
	return before - len(d.wires)
}

// RetargetBox rewrites every wire endpoint referencing oldID to reference
// newID instead, keeping port kind and index unchanged. It is used by passes
// that replace a box with another of identical arity.
func (d *Diagram) RetargetBox(oldID, newID int) {
	for i := range d.wires {
		if d.wires[i].Source.Box == oldID {
			d.wires[i].Source.Box = newID
		}
		if d.wires[i].Target.Box == oldID {
			d.wires[i].Target.Box = newID
		}
	}
}

// Clone returns a fully independent deep copy of the diagram. The copy keeps
// the same box ids, so port references remain valid across the copy.
func (d *Diagram) Clone() *Diagram {
	c := &Diagram{
		inputs:  slices.Clone(d.inputs),
		outputs: slices.Clone(d.outputs),
		boxes:   make(map[int]Box, len(d.boxes)),
		order:   slices.Clone(d.order),
		wires:   slices.Clone(d.wires),
		nextID:  d.nextID,
	}
	for id, b := range d.boxes {
		c.boxes[id] = b.Clone()
	}
	return c
}
