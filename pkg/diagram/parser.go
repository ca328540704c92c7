package diagram

import "github.com/matzehuels/md2ifdam/pkg/markdown"

// parseState is where the scanner sits relative to the last structural
// token.
type parseState int

const (
	stateBody     parseState = iota // regular content of the current node
	stateHeading                    // after heading_open; next inline names a node
	stateFootnote                   // inside a footnote definition; inlines are styles
)

// listFrame tracks one open list item and whether its latest inline opened a
// brace block.
type listFrame struct {
	open bool
}

// parser is the single left-to-right pass over a token stream.
type parser struct {
	graph    *Graph
	state    parseState
	heading  markdown.Token // pending heading_open
	footnote string         // label of the open footnote
	node     *Node          // current node; nil drops body tokens
	lists    []listFrame
}

type handler func(p *parser, tok markdown.Token)

// dispatch maps token types to handlers. Types without an entry are
// ignored.
var dispatch = map[string]handler{
	markdown.TypeHeadingOpen:   (*parser).headingOpen,
	markdown.TypeHeadingClose:  (*parser).toBody,
	markdown.TypeFootnoteOpen:  (*parser).footnoteOpen,
	markdown.TypeFootnoteClose: (*parser).toBody,
	markdown.TypeInline:        (*parser).inline,
	markdown.TypeHR:            (*parser).hr,
	markdown.TypeListItemOpen:  (*parser).listItemOpen,
	markdown.TypeListItemClose: (*parser).listItemClose,
}

// ParseTokens populates g from tokens.
//
// A heading of depth 1-3 starts a new current node; body tokens until the
// next heading are appended to it. Footnote bodies merge styles into the
// node or edge carrying their label. Content under a heading deeper than 3
// is dropped, as is content before the first heading.
func ParseTokens(g *Graph, tokens []markdown.Token) {
	p := &parser{graph: g}
	for _, tok := range tokens {
		if h, ok := dispatch[tok.Type]; ok {
			h(p, tok)
		}
	}
}

func (p *parser) headingOpen(tok markdown.Token) {
	p.state = stateHeading
	p.heading = tok
}

func (p *parser) footnoteOpen(tok markdown.Token) {
	p.state = stateFootnote
	p.footnote = tok.Label()
}

func (p *parser) toBody(markdown.Token) {
	p.state = stateBody
}

func (p *parser) inline(tok markdown.Token) {
	switch {
	case p.state == stateHeading:
		p.node = CreateNode(p.graph, len(p.heading.Markup), tok)
	case p.node == nil:
		// no current node
	case p.state == stateFootnote:
		ParseFootnoteInline(p.graph, p.footnote, tok)
	default:
		open := ParseInline(p.graph, p.node, tok)
		if n := len(p.lists); n > 0 {
			p.lists[n-1].open = open
		}
	}
}

func (p *parser) hr(markdown.Token) {
	if p.node == nil {
		return
	}
	p.node.Items = append(p.node.Items, NodeItem{Type: ItemHR})
}

func (p *parser) listItemOpen(markdown.Token) {
	if p.node == nil {
		return
	}
	p.lists = append(p.lists, listFrame{})
}

func (p *parser) listItemClose(tok markdown.Token) {
	if p.node == nil || len(p.lists) == 0 {
		return
	}
	top := p.lists[len(p.lists)-1]
	p.lists = p.lists[:len(p.lists)-1]
	if top.open {
		p.node.Items = append(p.node.Items, NodeItem{
			Type:  ItemText,
			Depth: itemDepth(tok.Level),
			Text:  "}",
			Close: true,
		})
	}
}
