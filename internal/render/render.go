// Package render produces Graphviz DOT output from guest call graphs.
package render

import (
	"fmt"
	"strings"

	"github.com/zboralski/lattice"
)

// Theme holds colors for graph rendering.
type Theme struct {
	Background string
	NodeFill   string
	NodeBorder string
	TextColor  string

	EdgeDirect     string
	EdgeUnresolved string
	StubFill       string
}

// Mono is the default theme: geometric, monochrome, sparse color.
var Mono = Theme{
	Background:     "#F5F5F5",
	NodeFill:       "white",
	NodeBorder:     "#1A1A1A",
	TextColor:      "#1A1A1A",
	EdgeDirect:     "#424242",
	EdgeUnresolved: "#FC3D21",
	StubFill:       "#ECEFF1",
}

// dotEscape escapes a string for DOT HTML labels.
func dotEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// dotID creates a safe DOT identifier from a function name.
func dotID(name string) string {
	var b strings.Builder
	b.WriteString("n_")
	for _, c := range name {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		} else {
			fmt.Fprintf(&b, "_%04x", c)
		}
	}
	return b.String()
}

// DOT renders a call graph. Callees without a node of their own (stubs,
// unresolved sub_* targets) are drawn as plaintext externals.
func DOT(g *lattice.Graph, title string, t Theme) string {
	var b strings.Builder
	b.WriteString("digraph callgraph {\n")
	b.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&b, "  bgcolor=%q;\n", t.Background)
	fmt.Fprintf(&b, "  node [shape=rect, style=filled, fillcolor=%q, color=%q, penwidth=0.5, fontname=\"Courier,monospace\", fontsize=9, fontcolor=%q];\n",
		t.NodeFill, t.NodeBorder, t.TextColor)
	fmt.Fprintf(&b, "  edge [penwidth=0.7, arrowsize=0.5, arrowhead=vee, color=%q];\n", t.EdgeDirect)
	fmt.Fprintf(&b, "  label=%q;\n  labelloc=t;\n  labeljust=l;\n\n", title)

	known := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n] = true
		fmt.Fprintf(&b, "  %s [label=<%s>];\n", dotID(n), dotEscape(n))
	}
	b.WriteByte('\n')

	external := make(map[string]bool)
	for _, e := range g.Edges {
		if !known[e.Callee] && !external[e.Callee] {
			external[e.Callee] = true
			fmt.Fprintf(&b, "  %s [shape=plaintext, fillcolor=%q, fontcolor=%q, label=<%s>];\n",
				dotID(e.Callee), t.StubFill, t.EdgeUnresolved, dotEscape(e.Callee))
		}
	}
	b.WriteByte('\n')

	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %s -> %s;\n", dotID(e.Caller), dotID(e.Callee))
	}

	b.WriteString("}\n")
	return b.String()
}

// CFGDOT renders one function's basic-block graph.
func CFGDOT(cfg *lattice.FuncCFG, t Theme) string {
	if len(cfg.Blocks) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("digraph cfg {\n")
	b.WriteString("  rankdir=TB;\n  nodesep=0.3;\n  ranksep=0.4;\n")
	fmt.Fprintf(&b, "  bgcolor=%q;\n", t.Background)
	fmt.Fprintf(&b, "  node [shape=rect, style=filled, fillcolor=%q, color=%q, penwidth=0.5, fontname=\"Courier,monospace\", fontsize=8, fontcolor=%q];\n",
		t.NodeFill, t.NodeBorder, t.TextColor)
	fmt.Fprintf(&b, "  label=%q;\n  labelloc=t;\n  labeljust=l;\n\n", cfg.Name)

	for _, blk := range cfg.Blocks {
		attrs := ""
		if blk.Term {
			attrs = fmt.Sprintf(", fillcolor=%q", t.StubFill)
		}
		fmt.Fprintf(&b, "  bb%d [label=\"bb%d [%d:%d)\"%s];\n", blk.ID, blk.ID, blk.Start, blk.End, attrs)
	}
	b.WriteByte('\n')

	for _, blk := range cfg.Blocks {
		for _, s := range blk.Succs {
			switch s.Cond {
			case "T":
				fmt.Fprintf(&b, "  bb%d -> bb%d [color=%q, label=\"T\"];\n", blk.ID, s.BlockID, t.EdgeDirect)
			case "F":
				fmt.Fprintf(&b, "  bb%d -> bb%d [color=%q, label=\"F\"];\n", blk.ID, s.BlockID, t.EdgeUnresolved)
			default:
				fmt.Fprintf(&b, "  bb%d -> bb%d;\n", blk.ID, s.BlockID)
			}
		}
	}

	b.WriteString("}\n")
	return b.String()
}
