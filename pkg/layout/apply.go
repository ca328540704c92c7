package layout

import (
	"fmt"

	"github.com/matzehuels/md2ifdam/pkg/diagram"
)

// apply copies a plain layout onto g, converting inches to points, flipping
// the y axis and adding the graph margins.
func apply(g *diagram.Graph, nm names, p *Plain) error {
	mx, my := g.Config.MarginX, g.Config.MarginY
	pt := func(x, y float64) diagram.Point {
		return diagram.Point{
			X: x*pointsPerInch + mx,
			Y: (p.Height-y)*pointsPerInch + my,
		}
	}

	for _, n := range g.Nodes() {
		pn, ok := p.Nodes[nm.node[n.ID]]
		if !ok {
			return fmt.Errorf("node %q missing from layout", n.ID)
		}
		c := pt(pn.X, pn.Y)
		n.X, n.Y = c.X, c.Y
	}

	// Parallel edges share tail and head; Graphviz reports them in input
	// order, so each pair is consumed first in, first out.
	type pair struct{ tail, head string }
	routes := make(map[pair][]PlainEdge)
	for _, e := range p.Edges {
		k := pair{e.Tail, e.Head}
		routes[k] = append(routes[k], e)
	}
	next := func(tail, head string) ([]diagram.Point, error) {
		k := pair{tail, head}
		q := routes[k]
		if len(q) == 0 {
			return nil, fmt.Errorf("edge %s -> %s missing from layout", tail, head)
		}
		routes[k] = q[1:]
		pts := make([]diagram.Point, len(q[0].Points))
		for i, v := range q[0].Points {
			pts[i] = pt(v[0], v[1])
		}
		return pts, nil
	}

	for i, e := range g.Edges() {
		from, to := nm.node[e.From], nm.node[e.To]
		label, ok := nm.label[i]
		if !ok {
			pts, err := next(from, to)
			if err != nil {
				return err
			}
			e.Points = pts
			continue
		}
		ln, ok := p.Nodes[label]
		if !ok {
			return fmt.Errorf("label of edge %s missing from layout", e.Key)
		}
		a, err := next(from, label)
		if err != nil {
			return err
		}
		b, err := next(label, to)
		if err != nil {
			return err
		}
		c := pt(ln.X, ln.Y)
		e.X, e.Y = c.X, c.Y
		e.Points = append(append(a, c), b...)
	}

	g.Width = p.Width*pointsPerInch + 2*mx
	g.Height = p.Height*pointsPerInch + 2*my
	return nil
}
