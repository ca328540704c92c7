package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/md2ifdam/pkg/cache"
	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/errors"
	"github.com/matzehuels/md2ifdam/pkg/layout"
	"github.com/matzehuels/md2ifdam/pkg/observability"
	"github.com/matzehuels/md2ifdam/pkg/svg"
)

// Shape classes.
const (
	ClassNode      = "ifdam-node"
	ClassEdgeLabel = "ifdam-edge-label"
	ClassEdgePath  = "ifdam-edge-path"
)

// Render draws g into the single element of doc matched by selector.
//
// Node and edge label shapes are built first so that their sizes are known
// to the layout; they are then moved to the layout positions and the edge
// paths are drawn on top. Render fails with INVALID_SELECTOR unless selector
// matches exactly one element.
func (s *Session) Render(ctx context.Context, doc *svg.Document, selector string, g *diagram.Graph) error {
	matches, err := doc.SelectAll(selector)
	if err != nil || len(matches) != 1 {
		return errors.New(errors.ErrCodeInvalidSelector, "selector '%s' is not for a SVGGElement.", selector)
	}
	root := matches[0]
	start := time.Now()

	var shapes []*svg.Element
	for _, n := range g.Nodes() {
		shape, err := s.NodeFactory(n)
		if err != nil {
			return err
		}
		root.AppendChild(shape.Class(ClassNode))
		shapes = append(shapes, shape)
	}
	for _, e := range g.Edges() {
		if !e.HasLabel() {
			continue
		}
		shape, err := s.EdgeLabelFactory(e)
		if err != nil {
			return err
		}
		root.AppendChild(shape.Class(ClassEdgeLabel))
		shapes = append(shapes, shape)
	}

	engine := layout.Name(s.layouter)
	observability.Pipeline().OnLayoutStart(ctx, engine, g.NodeCount())
	layoutStart := time.Now()
	err = s.layouter.Layout(ctx, g)
	observability.Pipeline().OnLayoutComplete(ctx, engine, time.Since(layoutStart), err)
	if err != nil {
		return err
	}

	for _, shape := range shapes {
		translate(shape)
	}

	defs := root.Select("defs")
	if defs == nil {
		defs = doc.Defs()
	}
	for _, e := range g.Edges() {
		appendEdgePath(root, defs, e)
	}

	s.logger.Debug("rendered graph",
		"nodes", g.NodeCount(), "edges", g.EdgeCount(), "took", time.Since(start))
	return nil
}

// translate moves a shape so that its top-left corner is at the layout
// center minus half its size.
func translate(shape *svg.Element) {
	var x, y, w, h float64
	switch d := shape.Datum.(type) {
	case *diagram.Node:
		x, y, w, h = d.X, d.Y, d.Width, d.Height
	case *diagram.Edge:
		x, y, w, h = d.X, d.Y, d.Width, d.Height
	default:
		return
	}
	shape.Attr("transform", fmt.Sprintf("translate(%s, %s)", svg.FormatFloat(x-w/2), svg.FormatFloat(y-h/2)))
}

func appendEdgePath(root, defs *svg.Element, e *diagram.Edge) {
	path := root.Append("g").Class(ClassEdgePath).
		Append("path").
		Attr("d", BasisPath(e.Points)).
		Style("fill-opacity", "0")
	path.Datum = e
	applying := ApplyStyles(path, e.Style, lineDefaults)

	color := applying.Get("stroke")
	id := MarkerID(color)
	path.Attr("marker-end", "url(#"+id+")")
	if defs.Select("marker#"+id) == nil {
		appendMarker(defs, id, color)
	}
}

// MarkerID returns the id of the arrowhead marker for a stroke color.
// Characters that are not valid in an id selector, like '#' in "#f00", are
// replaced with '_', and the id then gets a short hash of color so that
// "#f00" and "_f00" keep separate markers.
func MarkerID(color string) string {
	replaced := false
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		replaced = true
		return '_'
	}, color)
	if replaced {
		safe += "-" + cache.Hash([]byte(color))[:6]
	}
	return "arrowhead-" + safe
}

func appendMarker(defs *svg.Element, id, color string) {
	defs.Append("marker").
		Attr("id", id).
		Attr("viewBox", "0 0 10 10").
		AttrFloat("refX", 9).
		AttrFloat("refY", 5).
		AttrFloat("markerWidth", 8).
		AttrFloat("markerHeight", 6).
		Attr("markerUnits", "strokeWidth").
		Attr("orient", "auto").
		Append("path").
		Attr("d", "M 0 0 L 10 5 L 0 10 z").
		Style("fill", color)
}
