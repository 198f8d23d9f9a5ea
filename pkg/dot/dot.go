// Package dot provides a small AST for the Graphviz DOT graph-description
// language and a deterministic pretty-printer for it.
//
// The printer follows the conventions third-party drawing tools expect:
// attribute lists are comma-separated key=value pairs in brackets with
// string values double-quoted, [HTML] label content is passed through in
// angle brackets, default node/edge attribute statements are emitted before
// the per-statement bodies of a graph or subgraph, and the edge connective
// (-> vs --) is chosen per graph. Attribute keys print in sorted order so
// output is stable across runs.
package dot

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// HTML marks an attribute value as raw HTML-like label content. It is
// printed in angle brackets without quoting. Use [EscapeText] on any plain
// text embedded into HTML content.
type HTML string

// EscapeText escapes the five characters with meaning in HTML-like label
// content so s can be embedded as text.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"\"", "&quot;",
	"'", "&#39;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeText escapes & " ' < > for embedding s as text inside an [HTML]
// label.
func EscapeText(s string) string { return textEscaper.Replace(s) }

// Attrs is an attribute list. Values are plain strings (printed quoted) or
// [HTML] (printed in angle brackets).
type Attrs map[string]any

func (a Attrs) write(b *strings.Builder) {
	b.WriteString("[")
	for i, k := range slices.Sorted(maps.Keys(a)) {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s=%s", k, formatValue(a[k]))
	}
	b.WriteString("]")
}

func formatValue(v any) string {
	switch v := v.(type) {
	case HTML:
		return "<" + string(v) + ">"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%q", fmt.Sprint(v))
	}
}

// Stmt is a statement in a graph body: a [Node], an [Edge], or a [Subgraph].
type Stmt interface {
	writeStmt(b *strings.Builder, indent string, directed bool)
}

// Node is a node statement.
type Node struct {
	Name  string
	Attrs Attrs
}

func (n Node) writeStmt(b *strings.Builder, indent string, _ bool) {
	fmt.Fprintf(b, "%s%q", indent, n.Name)
	if len(n.Attrs) > 0 {
		b.WriteString(" ")
		n.Attrs.write(b)
	}
	b.WriteString(";\n")
}

// Edge is an edge statement. FromPort and ToPort are optional Graphviz port
// names appended with a colon.
type Edge struct {
	From     string
	To       string
	FromPort string
	ToPort   string
	Attrs    Attrs
}

func (e Edge) writeStmt(b *strings.Builder, indent string, directed bool) {
	conn := "--"
	if directed {
		conn = "->"
	}
	b.WriteString(indent)
	writeEndpoint(b, e.From, e.FromPort)
	fmt.Fprintf(b, " %s ", conn)
	writeEndpoint(b, e.To, e.ToPort)
	if len(e.Attrs) > 0 {
		b.WriteString(" ")
		e.Attrs.write(b)
	}
	b.WriteString(";\n")
}

func writeEndpoint(b *strings.Builder, name, port string) {
	fmt.Fprintf(b, "%q", name)
	if port != "" {
		fmt.Fprintf(b, ":%s", port)
	}
}

// Subgraph is a subgraph statement with its own defaults and body.
type Subgraph struct {
	Name       string
	GraphAttrs Attrs
	NodeAttrs  Attrs
	EdgeAttrs  Attrs
	Stmts      []Stmt
}

func (s Subgraph) writeStmt(b *strings.Builder, indent string, directed bool) {
	b.WriteString(indent)
	b.WriteString("subgraph")
	if s.Name != "" {
		fmt.Fprintf(b, " %q", s.Name)
	}
	b.WriteString(" {\n")
	writeBody(b, indent+"  ", directed, s.GraphAttrs, s.NodeAttrs, s.EdgeAttrs, s.Stmts)
	b.WriteString(indent)
	b.WriteString("}\n")
}

// Graph is a top-level DOT graph.
type Graph struct {
	Name       string
	Directed   bool
	Strict     bool
	GraphAttrs Attrs
	NodeAttrs  Attrs
	EdgeAttrs  Attrs
	Stmts      []Stmt
}

// String renders the graph as DOT source.
func (g Graph) String() string {
	var b strings.Builder
	if g.Strict {
		b.WriteString("strict ")
	}
	if g.Directed {
		b.WriteString("digraph")
	} else {
		b.WriteString("graph")
	}
	if g.Name != "" {
		fmt.Fprintf(&b, " %q", g.Name)
	}
	b.WriteString(" {\n")
	writeBody(&b, "  ", g.Directed, g.GraphAttrs, g.NodeAttrs, g.EdgeAttrs, g.Stmts)
	b.WriteString("}\n")
	return b.String()
}

// writeBody emits graph/node/edge default-attribute statements before the
// per-statement body, as drawing tools require.
func writeBody(b *strings.Builder, indent string, directed bool, graph, node, edge Attrs, stmts []Stmt) {
	for _, def := range []struct {
		kw    string
		attrs Attrs
	}{{"graph", graph}, {"node", node}, {"edge", edge}} {
		if len(def.attrs) == 0 {
			continue
		}
		b.WriteString(indent)
		b.WriteString(def.kw)
		b.WriteString(" ")
		def.attrs.write(b)
		b.WriteString(";\n")
	}
	for _, s := range stmts {
		s.writeStmt(b, indent, directed)
	}
}
