package render

import (
	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/svg"
)

// defaultRuleHeight is the height of a rule whose style has no margin.
const defaultRuleHeight = 10

// Rule is a horizontal line drawn before its final length is known.
type Rule struct {
	line *svg.Element
}

// Widen sets the end of the line to x = width.
func (r *Rule) Widen(width float64) {
	r.line.AttrFloat("x2", width)
}

// Element returns the line element.
func (r *Rule) Element() *svg.Element { return r.line }

// AppendHorizontalRule appends a zero-length line to parent, vertically
// centered in a box of height margin (10 without a positive margin)
// starting at y. Call [Rule.Widen] or [AdjustHorizontalRules] once the
// width of the parent is known.
func AppendHorizontalRule(parent *svg.Element, y float64, style diagram.StyleMap) (Box, *Rule) {
	height := float64(defaultRuleHeight)
	if m := intValue(style.Get("margin")); m > 0 {
		height = float64(m)
	}
	mid := y + height/2
	line := parent.Append("line").
		AttrFloat("x1", 0).
		AttrFloat("y1", mid).
		AttrFloat("x2", 0).
		AttrFloat("y2", mid)
	ApplyStyles(line, style, lineDefaults)
	return Box{Y: y, Height: height}, &Rule{line: line}
}

// AdjustHorizontalRules widens every rule to width.
func AdjustHorizontalRules(rules []*Rule, width float64) {
	for _, r := range rules {
		r.Widen(width)
	}
}
