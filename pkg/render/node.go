package render

import (
	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/svg"
)

const (
	// nodeMargin pads node content on every side.
	nodeMargin = 10

	minScreenWidth  = 200
	minScreenHeight = 120

	operationRadius = 10
)

// itemDefaults adds the default item margin under the node style.
var itemDefaults = diagram.StyleMap{"margin": "10"}

// NodeFactory builds the shape of node and records its size on the node.
//
// Items are stacked from y = 10; each uses the node style with a default
// margin of 10. Diagram nodes have no frame and skip horizontal rules.
func (s *Session) NodeFactory(node *diagram.Node) (*svg.Element, error) {
	kind := node.Kind
	if kind == "" {
		kind = diagram.KindUnknown
	}
	g := svg.New("g").Class(string(kind))
	g.Datum = node

	framed := kind != diagram.KindDiagram
	var frame *svg.Element
	if framed {
		frame = g.Append("rect").AttrFloat("x", 0).AttrFloat("y", 0)
		ApplyStyles(frame, node.Style, rectDefaults)
	}

	var (
		boxes []Box
		rules []*Rule
		last  = Box{Y: nodeMargin}
	)
	for _, item := range node.Items {
		style := node.Style.Clone().Merge(itemDefaults)
		switch {
		case item.Type == diagram.ItemText || item.Type == diagram.ItemParagraph:
			box, err := s.AppendText(g, last.Y+last.Height, item, style, nil)
			if err != nil {
				return nil, err
			}
			last = box
			boxes = append(boxes, box)
		case item.Type == diagram.ItemHR && framed:
			box, rule := AppendHorizontalRule(g, last.Y+last.Height, style)
			last = box
			boxes = append(boxes, box)
			rules = append(rules, rule)
		}
	}

	var width float64
	for _, b := range boxes {
		width = max(width, b.X+b.Width+nodeMargin)
	}
	height := last.Y + last.Height + nodeMargin
	if kind == diagram.KindScreen {
		width = max(width, minScreenWidth)
		height = max(height, minScreenHeight)
	}

	if framed {
		frame.AttrFloat("width", width).AttrFloat("height", height)
		if kind == diagram.KindOperation {
			frame.AttrFloat("rx", operationRadius).AttrFloat("ry", operationRadius)
		}
		AdjustHorizontalRules(rules, width)
	}

	node.Width, node.Height = width, height
	return g, nil
}
