package render

import (
	"strings"

	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/svg"
)

// BasisPath returns SVG path data for a uniform cubic B-spline through
// points: it starts at the first point, ends at the last and is pulled
// toward the points in between. Fewer than two points give "".
func BasisPath(points []diagram.Point) string {
	if len(points) < 2 {
		return ""
	}
	var p pathBuilder
	p0, p1 := points[0], points[0]
	for i, pt := range points {
		switch i {
		case 0:
			p.moveTo(pt.X, pt.Y)
		case 1:
		case 2:
			p.lineTo((5*p0.X+p1.X)/6, (5*p0.Y+p1.Y)/6)
			p.basis(p0, p1, pt)
		default:
			p.basis(p0, p1, pt)
		}
		p0, p1 = p1, pt
	}
	if len(points) > 2 {
		p.basis(p0, p1, p1)
	}
	p.lineTo(p1.X, p1.Y)
	return p.String()
}

// pathBuilder writes compact path data such as "M0,0L5,5C1,2,3,4,5,6".
type pathBuilder struct {
	strings.Builder
}

func (p *pathBuilder) moveTo(x, y float64) {
	p.WriteByte('M')
	p.coords(x, y)
}

func (p *pathBuilder) lineTo(x, y float64) {
	p.WriteByte('L')
	p.coords(x, y)
}

// basis emits the cubic segment of the spline section p0, p1, p.
func (p *pathBuilder) basis(p0, p1, pt diagram.Point) {
	p.WriteByte('C')
	p.coords(
		(2*p0.X+p1.X)/3, (2*p0.Y+p1.Y)/3,
		(p0.X+2*p1.X)/3, (p0.Y+2*p1.Y)/3,
		(p0.X+4*p1.X+pt.X)/6, (p0.Y+4*p1.Y+pt.Y)/6,
	)
}

func (p *pathBuilder) coords(v ...float64) {
	for i, f := range v {
		if i > 0 {
			p.WriteByte(',')
		}
		p.WriteString(svg.FormatFloat(f))
	}
}
