// Package svg is a small mutable SVG scene graph.
//
// Elements keep attributes, inline style declarations and classes in
// insertion order, so serialization is deterministic. Shapes can be created,
// measured and resized before the tree is written, which is what two-phase
// layouts need (a divider line is widened once its box is known).
//
//	doc := svg.NewDocument()
//	g := doc.Root.Append("g").Class("node")
//	g.Append("rect").AttrFloat("width", 120).Style("fill", "white")
//	doc.WriteTo(os.Stdout)
//
// Selectors are whitespace-separated descendant chains of compound
// selectors made of an optional tag, any number of ".class" and an optional
// "#id": "svg", "g.ifdam-edge-path", "defs marker#arrowhead-black".
package svg
