package wiring

import "slices"

// Value is an opaque port value-tag. The engine never interprets values;
// it only compares them for equality when validating wires.
type Value string

// BoxKind identifies the variant of a [Box]. The set is closed: rewriting
// passes switch exhaustively over these constants.
type BoxKind int

const (
	// BoxAtomic is an ordinary box holding an opaque name and ordered
	// input/output port value-tags.
	BoxAtomic BoxKind = iota
	// BoxCopy duplicates a value (1 input, 2 outputs).
	BoxCopy
	// BoxMerge merges two values (2 inputs, 1 output).
	BoxMerge
	// BoxDelete discards a value (1 input, 0 outputs).
	BoxDelete
	// BoxCreate produces a value (0 inputs, 1 output).
	BoxCreate
	// BoxJunction is a generalized n-to-m structural node on a single shared
	// value, unifying copy/merge/delete/create into one representation.
	BoxJunction
)

// String returns the lower-case kind name used in serialization and logs.
func (k BoxKind) String() string {
	switch k {
	case BoxAtomic:
		return "atomic"
	case BoxCopy:
		return "copy"
	case BoxMerge:
		return "merge"
	case BoxDelete:
		return "delete"
	case BoxCreate:
		return "create"
	case BoxJunction:
		return "junction"
	}
	return "unknown"
}

// Box is a node in a wiring diagram. It is a tagged union over [BoxKind]:
// atomic boxes use Name/Inputs/Outputs, structural generators use Value, and
// junctions use Value plus the NIn/NOut arities. Junction arities are exposed
// separately from atomic port-tag sequences because junction ports are
// untyped-by-index: every port carries the same shared value.
//
// Boxes are plain values; copying a Box with [Box.Clone] yields an
// independent instance.
type Box struct {
	Kind BoxKind

	// Atomic boxes only.
	Name    string
	Inputs  []Value
	Outputs []Value

	// Structural generators and junctions.
	Value Value

	// Junctions only. Both arities are >= 0.
	NIn  int
	NOut int
}

// Atomic creates an atomic box with the given name and port value-tags.
func Atomic(name string, inputs, outputs []Value) Box {
	return Box{Kind: BoxAtomic, Name: name, Inputs: slices.Clone(inputs), Outputs: slices.Clone(outputs)}
}

// Copy creates a duplication generator for v (1 input, 2 outputs).
func Copy(v Value) Box { return Box{Kind: BoxCopy, Value: v} }

// Merge creates a merging generator for v (2 inputs, 1 output).
func Merge(v Value) Box { return Box{Kind: BoxMerge, Value: v} }

// Delete creates a deletion generator for v (1 input, 0 outputs).
func Delete(v Value) Box { return Box{Kind: BoxDelete, Value: v} }

// Create creates a creation generator for v (0 inputs, 1 output).
func Create(v Value) Box { return Box{Kind: BoxCreate, Value: v} }

// Junction creates an nin-to-nout junction on v. Arities may be zero;
// Junction(v, 1, 1) is a logical pass-through and is legal.
func Junction(v Value, nin, nout int) Box {
	return Box{Kind: BoxJunction, Value: v, NIn: nin, NOut: nout}
}

// IsStructural reports whether the box is one of the four generator kinds
// (Copy, Merge, Delete, Create). Junctions are not generators.
func (b Box) IsStructural() bool {
	switch b.Kind {
	case BoxCopy, BoxMerge, BoxDelete, BoxCreate:
		return true
	}
	return false
}

// InArity returns the number of input ports.
func (b Box) InArity() int {
	switch b.Kind {
	case BoxAtomic:
		return len(b.Inputs)
	case BoxCopy, BoxDelete:
		return 1
	case BoxMerge:
		return 2
	case BoxCreate:
		return 0
	case BoxJunction:
		return b.NIn
	}
	return 0
}

// OutArity returns the number of output ports.
func (b Box) OutArity() int {
	switch b.Kind {
	case BoxAtomic:
		return len(b.Outputs)
	case BoxCopy:
		return 2
	case BoxMerge, BoxCreate:
		return 1
	case BoxDelete:
		return 0
	case BoxJunction:
		return b.NOut
	}
	return 0
}

// InValue returns the value-tag of the i-th input port (1-based).
// The second result is false when i is out of range.
func (b Box) InValue(i int) (Value, bool) {
	if i < 1 || i > b.InArity() {
		return "", false
	}
	if b.Kind == BoxAtomic {
		return b.Inputs[i-1], true
	}
	return b.Value, true
}

// OutValue returns the value-tag of the i-th output port (1-based).
// The second result is false when i is out of range.
func (b Box) OutValue(i int) (Value, bool) {
	if i < 1 || i > b.OutArity() {
		return "", false
	}
	if b.Kind == BoxAtomic {
		return b.Outputs[i-1], true
	}
	return b.Value, true
}

// Equal reports whether two boxes are equal by value, including port order.
func (b Box) Equal(o Box) bool {
	if b.Kind != o.Kind {
		return false
	}
	switch b.Kind {
	case BoxAtomic:
		return b.Name == o.Name && slices.Equal(b.Inputs, o.Inputs) && slices.Equal(b.Outputs, o.Outputs)
	case BoxJunction:
		return b.Value == o.Value && b.NIn == o.NIn && b.NOut == o.NOut
	default:
		return b.Value == o.Value
	}
}

// Clone returns a deep copy of the box sharing no mutable state.
func (b Box) Clone() Box {
	b.Inputs = slices.Clone(b.Inputs)
	b.Outputs = slices.Clone(b.Outputs)
	return b
}
