// Package graphio serializes wiring diagrams to and from a canonical JSON
// format, with file and stream helpers.
//
// The format records the boundary value sequences, every box with its kind
// and ports, and every wire as a pair of port references. Boundary
// sentinels serialize as the ids -1 (input) and -2 (output). Round trips
// preserve structural equality up to box relabeling.
package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jhagedorn/wirecat/pkg/wiring"
)

// Write writes a wiring diagram as indented JSON to w.
func Write(d *wiring.Diagram, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromDiagram(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON diagram from r.
func Read(r io.Reader) (*wiring.Diagram, error) {
	var dj Diagram
	if err := json.NewDecoder(r).Decode(&dj); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToDiagram(dj)
}

// ExportJSON writes a wiring diagram to a JSON file.
// The file is created with 0644 permissions.
func ExportJSON(d *wiring.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(d, f)
}

// ImportJSON reads a JSON file and returns the decoded wiring diagram.
func ImportJSON(path string) (*wiring.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
