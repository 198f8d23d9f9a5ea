package graphio

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/jhagedorn/wirecat/pkg/wiring"
)

// Box kinds as serialized.
const (
	KindAtomic   = "atomic"
	KindCopy     = "copy"
	KindMerge    = "merge"
	KindDelete   = "delete"
	KindCreate   = "create"
	KindJunction = "junction"
)

// Port kinds as serialized.
const (
	PortIn  = "in"
	PortOut = "out"
)

// Diagram is the canonical serialization format for wiring diagrams.
// Used for files, API responses, and storage.
//
// The format is human-readable and designed for round-trip fidelity up to
// box relabeling: import → transform → export → re-import preserves
// structural equality.
type Diagram struct {
	Inputs  []string `json:"inputs" bson:"inputs"`
	Outputs []string `json:"outputs" bson:"outputs"`
	Boxes   []Box    `json:"boxes" bson:"boxes"`
	Wires   []Wire   `json:"wires" bson:"wires"`
}

// Box is the serialized form of a box. Kind selects which fields apply:
// atomic boxes use name/inputs/outputs, generators use value, junctions use
// value plus the two arities.
type Box struct {
	ID      int      `json:"id" bson:"id"`
	Kind    string   `json:"kind" bson:"kind"`
	Name    string   `json:"name,omitempty" bson:"name,omitempty"`
	Inputs  []string `json:"inputs,omitempty" bson:"inputs,omitempty"`
	Outputs []string `json:"outputs,omitempty" bson:"outputs,omitempty"`
	Value   string   `json:"value,omitempty" bson:"value,omitempty"`
	In      int      `json:"in,omitempty" bson:"in,omitempty"`
	Out     int      `json:"out,omitempty" bson:"out,omitempty"`
}

// Port is a serialized port reference. Box -1 and -2 are the input and
// output boundary sentinels, matching [wiring.InputID] and [wiring.OutputID].
type Port struct {
	Box   int    `json:"box" bson:"box"`
	Kind  string `json:"kind" bson:"kind"`
	Index int    `json:"index" bson:"index"`
}

// Wire is a serialized wire.
type Wire struct {
	From Port `json:"from" bson:"from"`
	To   Port `json:"to" bson:"to"`
}

// FromDiagram converts a wiring diagram to its serialization format.
// Boxes are sorted by id for deterministic output.
func FromDiagram(d *wiring.Diagram) Diagram {
	out := Diagram{
		Inputs:  values(d.Inputs()),
		Outputs: values(d.Outputs()),
	}

	ids := d.BoxIDs()
	slices.Sort(ids)
	for _, id := range ids {
		b, _ := d.Box(id)
		out.Boxes = append(out.Boxes, boxFrom(id, b))
	}
	for _, w := range d.Wires() {
		out.Wires = append(out.Wires, Wire{From: portFrom(w.Source), To: portFrom(w.Target)})
	}
	return out
}

// ToDiagram converts serialized form back to a wiring diagram. Serialized
// box ids are remapped onto fresh ids, preserving structure. Returns an
// error for unknown kinds, duplicate ids, or wires that fail validation.
func ToDiagram(dj Diagram) (*wiring.Diagram, error) {
	d := wiring.New(valueTags(dj.Inputs), valueTags(dj.Outputs))

	idMap := map[int]int{wiring.InputID: wiring.InputID, wiring.OutputID: wiring.OutputID}
	for _, bj := range dj.Boxes {
		if _, dup := idMap[bj.ID]; dup {
			return nil, fmt.Errorf("duplicate box id %d", bj.ID)
		}
		b, err := boxTo(bj)
		if err != nil {
			return nil, err
		}
		idMap[bj.ID] = d.AddBox(b)
	}

	for _, wj := range dj.Wires {
		src, err := portTo(wj.From, idMap)
		if err != nil {
			return nil, err
		}
		tgt, err := portTo(wj.To, idMap)
		if err != nil {
			return nil, err
		}
		if err := d.AddWires(wiring.Wire{Source: src, Target: tgt}); err != nil {
			return nil, fmt.Errorf("add wire: %w", err)
		}
	}
	return d, nil
}

// Marshal serializes a wiring diagram to indented JSON bytes.
func Marshal(d *wiring.Diagram) ([]byte, error) {
	return json.MarshalIndent(FromDiagram(d), "", "  ")
}

// Unmarshal deserializes JSON bytes to a wiring diagram.
func Unmarshal(data []byte) (*wiring.Diagram, error) {
	var dj Diagram
	if err := json.Unmarshal(data, &dj); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToDiagram(dj)
}

func boxFrom(id int, b wiring.Box) Box {
	bj := Box{ID: id, Kind: b.Kind.String()}
	switch b.Kind {
	case wiring.BoxAtomic:
		bj.Name = b.Name
		bj.Inputs = values(b.Inputs)
		bj.Outputs = values(b.Outputs)
	case wiring.BoxJunction:
		bj.Value = string(b.Value)
		bj.In = b.NIn
		bj.Out = b.NOut
	default:
		bj.Value = string(b.Value)
	}
	return bj
}

func boxTo(bj Box) (wiring.Box, error) {
	switch bj.Kind {
	case KindAtomic:
		return wiring.Atomic(bj.Name, valueTags(bj.Inputs), valueTags(bj.Outputs)), nil
	case KindCopy:
		return wiring.Copy(wiring.Value(bj.Value)), nil
	case KindMerge:
		return wiring.Merge(wiring.Value(bj.Value)), nil
	case KindDelete:
		return wiring.Delete(wiring.Value(bj.Value)), nil
	case KindCreate:
		return wiring.Create(wiring.Value(bj.Value)), nil
	case KindJunction:
		if bj.In < 0 || bj.Out < 0 {
			return wiring.Box{}, fmt.Errorf("box %d: junction arities must be non-negative", bj.ID)
		}
		return wiring.Junction(wiring.Value(bj.Value), bj.In, bj.Out), nil
	}
	return wiring.Box{}, fmt.Errorf("box %d: unknown kind %q", bj.ID, bj.Kind)
}

func portFrom(p wiring.Port) Port {
	kind := PortIn
	if p.Kind == wiring.Out {
		kind = PortOut
	}
	return Port{Box: p.Box, Kind: kind, Index: p.Index}
}

func portTo(pj Port, idMap map[int]int) (wiring.Port, error) {
	id, ok := idMap[pj.Box]
	if !ok {
		return wiring.Port{}, fmt.Errorf("wire references unknown box id %d", pj.Box)
	}
	var kind wiring.PortKind
	switch pj.Kind {
	case PortIn:
		kind = wiring.In
	case PortOut:
		kind = wiring.Out
	default:
		return wiring.Port{}, fmt.Errorf("unknown port kind %q", pj.Kind)
	}
	return wiring.Port{Box: id, Kind: kind, Index: pj.Index}, nil
}

func values(vs []wiring.Value) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

func valueTags(ss []string) []wiring.Value {
	out := make([]wiring.Value, len(ss))
	for i, s := range ss {
		out[i] = wiring.Value(s)
	}
	return out
}
