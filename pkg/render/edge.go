package render

import (
	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/svg"
)

// EdgeLabelFactory builds the label shape of edge: a background rect sized
// to the 9pt label text. The size is recorded on the edge for layout.
func (s *Session) EdgeLabelFactory(edge *diagram.Edge) (*svg.Element, error) {
	outer := svg.New("g")
	outer.Datum = edge
	g := outer.Append("g")

	background := g.Append("rect").AttrFloat("x", 0).AttrFloat("y", 0)
	ApplyStyles(background, edge.Style, labelDefaults)

	item := diagram.NodeItem{Type: diagram.ItemText, Text: edge.Label}
	box, err := s.AppendText(g, 0, item, edge.Style, labelText)
	if err != nil {
		return nil, err
	}
	background.AttrFloat("width", box.Width).AttrFloat("height", box.Height)

	edge.Width, edge.Height = box.Width, box.Height
	return outer, nil
}
