// Package pkg provides the core libraries for wirecat diagram rewriting.
//
// # Overview
//
// Wirecat represents morphisms of monoidal categories as wiring diagrams
// (directed port graphs) and rewrites them: making fan-out and fan-in
// structure explicit, simplifying duplication and deletion, and ordering
// layers for rendering. The pkg directory is organized into five areas:
//
//  1. [wiring] - The diagram model (boxes, ports, wires, structural equality)
//  2. [wiring/rewrite] - Graph-rewriting passes over diagrams
//  3. [wiring/ordering] - Layer assignment and crossing minimization
//  4. [dot], [render] - DOT printing and Graphviz-based rendering
//  5. [graphio], [cache], [server] - Serialization, artifact caching, HTTP API
//
// # Architecture
//
// The typical data flow through wirecat:
//
//	JSON diagram ([graphio])
//	         ↓
//	    [wiring] package (diagram structure + validation)
//	         ↓
//	    [wiring/rewrite] package (junctions, copy/delete normalization)
//	         ↓
//	    [wiring/ordering] + [dot] (layers, crossings, DOT source)
//	         ↓
//	    SVG/PDF/PNG output ([render], cached via [cache])
//
// # Quick Start
//
// Load a diagram, normalize it, and render DOT source:
//
//	import (
//	    "github.com/jhagedorn/wirecat/pkg/graphio"
//	    "github.com/jhagedorn/wirecat/pkg/render"
//	    "github.com/jhagedorn/wirecat/pkg/wiring/rewrite"
//	)
//
//	// 1. Load
//	d, _ := graphio.ImportJSON("diagram.json")
//
//	// 2. Rewrite
//	res, _ := rewrite.NormalizeCartesian(d)
//
//	// 3. Render
//	g := render.ToDOT(d, render.Options{ShowValues: true})
//	svg, _ := render.RenderSVG(g.String())
//
// # Main Packages
//
// [wiring] - Wiring diagrams as arenas of boxes with stable integer ids.
// Boxes are atomic (opaque named operations), structural generators (Copy,
// Merge, Delete, Create), or n-to-m junctions. Wires connect typed ports
// and are validated at add time. [wiring.Equal] decides structural equality
// up to box relabeling.
//
// [wiring/rewrite] - In-place passes: [rewrite.AddJunctions] and
// [rewrite.RemoveJunctions] convert between generator and junction form,
// [rewrite.NormalizeCopy] and [rewrite.NormalizeDelete] eliminate redundant
// duplication and dead computation, and [rewrite.NormalizeCartesian] runs
// both to a fixpoint.
//
// [wiring/ordering] - Longest-path layer assignment, the barycenter
// crossing-minimization heuristic, and Fenwick-tree crossing counts.
//
// [dot] - A small AST and deterministic printer for the Graphviz DOT
// language.
//
// [render] - Diagram-to-DOT conversion and SVG/PDF/PNG rendering via
// Graphviz.
//
// [graphio] - The canonical JSON serialization, with file and stream
// helpers. Round trips preserve structural equality.
//
// [cache] - Render-artifact caching with file, in-memory LRU, Redis, and
// null backends.
//
// [server] - The HTTP API: diagram storage (memory or MongoDB), rewrite
// passes, and cached rendering.
//
// [errors] - Coded errors shared by the CLI and server surfaces.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/wiring/...     # Specific package
//	go test -run Example         # Examples only
//
// [wiring]: https://pkg.go.dev/github.com/jhagedorn/wirecat/pkg/wiring
// [wiring/rewrite]: https://pkg.go.dev/github.com/jhagedorn/wirecat/pkg/wiring/rewrite
// [wiring/ordering]: https://pkg.go.dev/github.com/jhagedorn/wirecat/pkg/wiring/ordering
// [dot]: https://pkg.go.dev/github.com/jhagedorn/wirecat/pkg/dot
// [render]: https://pkg.go.dev/github.com/jhagedorn/wirecat/pkg/render
// [graphio]: https://pkg.go.dev/github.com/jhagedorn/wirecat/pkg/graphio
// [cache]: https://pkg.go.dev/github.com/jhagedorn/wirecat/pkg/cache
// [server]: https://pkg.go.dev/github.com/jhagedorn/wirecat/pkg/server
// [errors]: https://pkg.go.dev/github.com/jhagedorn/wirecat/pkg/errors
package pkg
