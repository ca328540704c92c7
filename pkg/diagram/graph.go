package diagram

import (
	"fmt"
	"maps"
	"slices"
)

// NodeKind is the visual type of a node, determined by heading depth.
type NodeKind string

const (
	// KindVoid is produced only for a heading token without any '#' markup.
	KindVoid NodeKind = "void"
	// KindDiagram nodes come from '#' headings and render without chrome.
	KindDiagram NodeKind = "diagram"
	// KindScreen nodes come from '##' headings and render as framed boxes
	// of at least 200x120.
	KindScreen NodeKind = "screen"
	// KindOperation nodes come from '###' headings and render as rounded boxes.
	KindOperation NodeKind = "operation"
	// KindUnknown marks a placeholder registered by an edge whose target
	// heading has not been seen (yet).
	KindUnknown NodeKind = "unknown"
)

var headingKinds = [...]NodeKind{KindVoid, KindDiagram, KindScreen, KindOperation}

// KindForDepth maps a heading depth (count of '#') to a node kind.
// Depths beyond 3 produce no node.
func KindForDepth(depth int) (NodeKind, bool) {
	if depth < 0 || depth >= len(headingKinds) {
		return "", false
	}
	return headingKinds[depth], true
}

// ItemType distinguishes text lines from horizontal rules inside a node.
type ItemType string

const (
	ItemText ItemType = "text"
	ItemHR   ItemType = "hr"

	// ItemParagraph renders like text. The parser never emits it but
	// hand-built graphs may.
	ItemParagraph ItemType = "paragraph"
)

// NodeItem is one rendered line of a node, top to bottom.
type NodeItem struct {
	Type  ItemType `json:"type"`
	Depth int      `json:"depth"`
	Text  string   `json:"text"`
	Close bool     `json:"close,omitempty"` // synthetic "}" closing a brace block
}

// Point is a 2D coordinate in render space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a heading of the source document.
//
// ID is unique within the graph; Label keeps the plain heading text so that
// duplicate headings can be counted. Width and Height are written by the
// renderer, X and Y (centers) by the layout.
type Node struct {
	ID    string
	Label string
	Ref   string
	Kind  NodeKind
	Items []NodeItem
	Style StyleMap

	Width, Height float64
	X, Y          float64
}

// Placeholder reports whether the node was registered by an edge rather than
// a heading.
func (n *Node) Placeholder() bool { return n.Kind == KindUnknown }

// Backref implements [Styled].
func (n *Node) Backref() string { return n.Ref }

// Styles implements [Styled].
func (n *Node) Styles() StyleMap { return n.Style }

// MergeStyle implements [Styled].
func (n *Node) MergeStyle(s StyleMap) { n.Style = n.Style.Merge(s) }

// Edge is a link from one node to another. Parallel edges between the same
// pair are distinguished by Key.
type Edge struct {
	Key   string
	From  string
	To    string
	Label string
	Ref   string
	Style StyleMap

	// Width and Height are the label box size; zero for unlabelled edges.
	Width, Height float64
	// X and Y are the label center assigned by the layout.
	X, Y   float64
	Points []Point
}

// Backref implements [Styled].
func (e *Edge) Backref() string { return e.Ref }

// Styles implements [Styled].
func (e *Edge) Styles() StyleMap { return e.Style }

// MergeStyle implements [Styled].
func (e *Edge) MergeStyle(s StyleMap) { e.Style = e.Style.Merge(s) }

// HasLabel reports whether the edge carries a visible label.
func (e *Edge) HasLabel() bool { return e.Label != "" }

// Styled is the capability shared by nodes and edges that footnotes can
// target.
type Styled interface {
	Backref() string
	Styles() StyleMap
	MergeStyle(StyleMap)
}

// Config holds graph-level layout settings. Distances are in pixels.
type Config struct {
	MarginX float64 `json:"margin_x" toml:"margin_x"`
	MarginY float64 `json:"margin_y" toml:"margin_y"`
	RankSep float64 `json:"rank_sep" toml:"rank_sep"`
	NodeSep float64 `json:"node_sep" toml:"node_sep"`
	RankDir string  `json:"rank_dir" toml:"rank_dir"`
}

// Rank directions accepted by [Config.RankDir].
var RankDirs = []string{"TB", "BT", "LR", "RL"}

// DefaultConfig returns margins of 30 and separations of 50, top to bottom.
func DefaultConfig() Config {
	return Config{MarginX: 30, MarginY: 30, RankSep: 50, NodeSep: 50, RankDir: "TB"}
}

// Validate reports an error for negative distances or an unknown rank
// direction.
func (c Config) Validate() error {
	if c.MarginX < 0 || c.MarginY < 0 {
		return fmt.Errorf("margins must not be negative (got %v, %v)", c.MarginX, c.MarginY)
	}
	if c.RankSep < 0 || c.NodeSep < 0 {
		return fmt.Errorf("separations must not be negative (got %v, %v)", c.RankSep, c.NodeSep)
	}
	if c.RankDir != "" && !slices.Contains(RankDirs, c.RankDir) {
		return fmt.Errorf("unknown rank direction %q", c.RankDir)
	}
	return nil
}

// Graph is a directed multigraph of nodes and edges in creation order.
//
// The zero value is not usable - use [New]. Graph is not safe for concurrent
// use.
type Graph struct {
	Config Config
	// Width and Height are the canvas size assigned by the layout.
	Width, Height float64

	nodes []*Node
	byID  map[string]*Node
	edges []*Edge
	byKey map[string]*Edge
}

// New creates an empty graph.
func New(cfg Config) *Graph {
	return &Graph{
		Config: cfg,
		byID:   make(map[string]*Node),
		byKey:  make(map[string]*Edge),
	}
}

// Nodes returns nodes in creation order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns edges in creation order.
func (g *Graph) Edges() []*Edge { return g.edges }

// NodeCount returns the number of nodes, placeholders included.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node looks up a node by ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Edge looks up an edge by key.
func (g *Graph) Edge(key string) (*Edge, bool) {
	e, ok := g.byKey[key]
	return e, ok
}

// NodeIDs returns all node IDs in creation order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

// SetNode inserts n, or replaces the payload of the node with the same ID
// while keeping its position in creation order.
func (g *Graph) SetNode(n *Node) *Node {
	if old, ok := g.byID[n.ID]; ok {
		*old = *n
		return old
	}
	g.nodes = append(g.nodes, n)
	g.byID[n.ID] = n
	return n
}

// EdgeKey returns the key that keeps parallel edges with different labels
// apart: "(from)[label](to)".
func EdgeKey(from, to, label string) string {
	return fmt.Sprintf("(%s)[%s](%s)", from, label, to)
}

// SetEdge adds an edge from -> to, or replaces the payload of an existing
// edge with the same key. Unknown endpoints are registered as placeholder
// nodes so that forward links resolve once their heading appears.
func (g *Graph) SetEdge(from, to, label, ref string) *Edge {
	g.ensureNode(from)
	g.ensureNode(to)

	key := EdgeKey(from, to, label)
	e := &Edge{Key: key, From: from, To: to, Label: label, Ref: ref}
	if old, ok := g.byKey[key]; ok {
		*old = *e
		return old
	}
	g.edges = append(g.edges, e)
	g.byKey[key] = e
	return e
}

func (g *Graph) ensureNode(id string) {
	if _, ok := g.byID[id]; !ok {
		g.SetNode(&Node{ID: id, Kind: KindUnknown})
	}
}

// FindByRef returns the first node, then the first edge, whose backref
// equals ref. It returns nil when nothing matches.
func (g *Graph) FindByRef(ref string) Styled {
	if ref == "" {
		return nil
	}
	for _, n := range g.nodes {
		if n.Ref == ref {
			return n
		}
	}
	for _, e := range g.edges {
		if e.Ref == ref {
			return e
		}
	}
	return nil
}

// countLabel returns the number of heading nodes whose plain label is label.
func (g *Graph) countLabel(label string) int {
	count := 0
	for _, n := range g.nodes {
		if !n.Placeholder() && n.Label == label {
			count++
		}
	}
	return count
}

// Kinds returns the number of nodes per kind.
func (g *Graph) Kinds() map[NodeKind]int {
	out := make(map[NodeKind]int)
	for _, n := range g.nodes {
		out[n.Kind]++
	}
	return out
}

// SortedKinds returns the kinds present in the graph in lexical order.
func (g *Graph) SortedKinds() []NodeKind {
	return slices.Sorted(maps.Keys(g.Kinds()))
}
