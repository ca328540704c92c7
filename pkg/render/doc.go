// Package render turns a diagram graph into positioned SVG shapes.
//
// # Overview
//
// A [Session] owns everything one render needs: a font loader that caches
// parsed fonts, the fallback base font, a [layout.Layouter] and a logger.
// Sessions are independent, so concurrent renders do not share font state
// unless they share a loader.
//
//	s := render.NewSession(render.WithLogger(logger))
//	doc := svg.NewDocument()
//	if err := s.Render(ctx, doc, "svg", g); err != nil {
//	    return err
//	}
//
// # Shapes
//
// Every node becomes a "g.<kind>.ifdam-node" group: a framed rect (except
// for diagram nodes) holding one text line per item, stacked top to bottom
// with a 10 unit margin. Horizontal rules are drawn with zero length and
// widened once the node width is known. Screens are at least 200x120 and
// operations get rounded corners. Labelled edges get a "g.ifdam-edge-label"
// group with a white background behind 9pt text.
//
// After layout every shape is translated so its top-left corner sits at
// (x - width/2, y - height/2), and each edge is drawn as a B-spline path in
// its own "g.ifdam-edge-path" group, ending in an arrowhead marker shared
// by all edges of the same stroke color.
//
// # Styles
//
// Node and edge styles come from footnotes (see package diagram). Only the
// properties a shape declares defaults for are written; the pseudo
// properties "font-fill" and "font-stroke" style text fill and stroke.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert finished SVG with the external rsvg-convert
// tool (from librsvg).
package render
