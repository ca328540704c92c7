package layout

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/md2ifdam/pkg/diagram"
)

// pointsPerInch converts between Graphviz inches and SVG user units.
const pointsPerInch = 72.0

// minSize keeps zero-sized boxes representable; Graphviz rejects width 0
// with fixedsize.
const minSize = 1.0

// names maps graph elements to their DOT identifiers. Nodes are "n<i>" and
// edge label nodes "l<i>" by creation order, which keeps the DOT free of
// user text.
type names struct {
	node  map[string]string // node ID -> DOT name
	label map[int]string    // edge index -> DOT name of its label node
}

// ToDOT converts g to Graphviz DOT. Every node becomes a fixed-size box of
// its current Width x Height; labelled edges become two edges through a box
// sized like the label.
func ToDOT(g *diagram.Graph) (string, error) {
	dot, _, err := toDOT(g)
	return dot, err
}

func toDOT(g *diagram.Graph) (string, names, error) {
	cfg := g.Config
	nm := names{node: make(map[string]string, g.NodeCount()), label: make(map[int]string)}

	rankSep := cfg.RankSep
	for _, e := range g.Edges() {
		if e.HasLabel() {
			rankSep /= 2
			break
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	rankDir := cfg.RankDir
	if rankDir == "" {
		rankDir = "TB"
	}
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankDir)
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(cfg.NodeSep))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(rankSep))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for i, n := range g.Nodes() {
		name := "n" + strconv.Itoa(i)
		nm.node[n.ID] = name
		fmt.Fprintf(&buf, "  %s [width=%s, height=%s];\n", name, inches(n.Width), inches(n.Height))
	}
	for i, e := range g.Edges() {
		if !e.HasLabel() {
			continue
		}
		name := "l" + strconv.Itoa(i)
		nm.label[i] = name
		fmt.Fprintf(&buf, "  %s [width=%s, height=%s];\n", name, inches(e.Width), inches(e.Height))
	}

	buf.WriteString("\n")
	for i, e := range g.Edges() {
		from, ok := nm.node[e.From]
		if !ok {
			return "", nm, fmt.Errorf("edge %s: unknown source %q", e.Key, e.From)
		}
		to, ok := nm.node[e.To]
		if !ok {
			return "", nm, fmt.Errorf("edge %s: unknown target %q", e.Key, e.To)
		}
		if label, ok := nm.label[i]; ok {
			fmt.Fprintf(&buf, "  %s -> %s;\n  %s -> %s;\n", from, label, label, to)
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", from, to)
	}

	buf.WriteString("}\n")
	return buf.String(), nm, nil
}

func inches(points float64) string {
	return strconv.FormatFloat(max(points, minSize)/pointsPerInch, 'f', 4, 64)
}
