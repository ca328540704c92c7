package diagram

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/matzehuels/md2ifdam/pkg/markdown"
)

// CreateNode builds a node from a heading of the given depth and its inline
// token. The first text child becomes the ID and a footnote reference child
// the backref. Repeated headings get a " [n]" suffix, n being the number of
// earlier headings with the same text. A placeholder registered by an edge
// under the same ID is upgraded in place.
//
// CreateNode returns nil for depths beyond 3.
func CreateNode(g *Graph, depth int, inline markdown.Token) *Node {
	kind, ok := KindForDepth(depth)
	if !ok {
		return nil
	}

	var id, ref string
	idSet := false
	for _, child := range inline.Children {
		switch child.Type {
		case markdown.TypeText:
			if !idSet {
				id = strings.TrimSpace(child.Content)
				idSet = true
			}
		case markdown.TypeFootnoteRef:
			ref = child.Label()
		}
	}

	key := id
	n := g.countLabel(id)
	if n > 0 {
		key = fmt.Sprintf("%s [%d]", id, n)
	}
	for {
		existing, ok := g.Node(key)
		if !ok || existing.Placeholder() {
			break
		}
		n++
		key = fmt.Sprintf("%s [%d]", id, n)
	}

	return g.SetNode(&Node{
		ID:    key,
		Label: id,
		Ref:   ref,
		Kind:  kind,
		Items: []NodeItem{{Type: ItemText, Depth: 0, Text: key}},
	})
}

// itemDepth converts a markdown nesting level into an indentation depth:
// top-level paragraphs are 0, first-level list items 1, and so on.
func itemDepth(level int) int {
	if level > 0 {
		return (level - 1) / 2
	}
	return 0
}

// decodeTarget URL-decodes a link destination, keeping it verbatim when it
// is not valid percent-encoding.
func decodeTarget(href string) string {
	s, err := url.PathUnescape(href)
	if err != nil {
		return href
	}
	return s
}

// ParseInline appends one text item per source line of inline to node and
// creates an edge for every link.
//
// Once a link opens, all further text on the same line accumulates into the
// edge label, and a footnote reference supplies the edge backref. The result
// reports whether the inline opened a brace block: a nested line starting
// with '@' gets " {" appended and must be closed by the enclosing list item.
func ParseInline(g *Graph, node *Node, inline markdown.Token) bool {
	depth := itemDepth(inline.Level)

	var text, label, target, ref string
	inLink := false
	flush := func() {
		if text != "" {
			node.Items = append(node.Items, NodeItem{Type: ItemText, Depth: depth, Text: text})
		}
		if target != "" {
			g.SetEdge(node.ID, target, label, ref)
		}
		text, label, target, ref = "", "", "", ""
	}

	for _, child := range inline.Children {
		switch child.Type {
		case markdown.TypeText:
			s := strings.TrimSpace(child.Content)
			if inLink {
				label += s
			} else {
				text += s
			}
		case markdown.TypeFootnoteRef:
			if inLink {
				ref = child.Label()
			}
		case markdown.TypeLinkOpen:
			target = decodeTarget(child.Attr("href"))
			inLink = true
		case markdown.TypeSoftbreak:
			flush()
			inLink = false
		}
	}

	open := inline.Level > 0 && strings.HasPrefix(text, "@")
	if open {
		text += " {"
	}
	flush()
	return open
}

// ParseFootnoteInline merges the declarations of a footnote body into the
// node or edge whose backref is ref. Keys already set on the target win.
// Unmatched refs are ignored.
func ParseFootnoteInline(g *Graph, ref string, inline markdown.Token) {
	target := g.FindByRef(ref)
	if target == nil {
		return
	}
	for _, child := range inline.Children {
		if child.Type == markdown.TypeText {
			target.MergeStyle(ExtractStyle(child.Content))
		}
	}
}

// ParseMarkdown tokenizes source and builds its graph.
func ParseMarkdown(source []byte, cfg Config) *Graph {
	g := New(cfg)
	ParseTokens(g, markdown.Tokenize(source))
	return g
}
