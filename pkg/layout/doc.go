// Package layout assigns coordinates to a sized diagram graph.
//
// A [Layouter] reads the width and height of every node and labelled edge
// and writes back center coordinates, an edge point list and the overall
// canvas size, margins included. Renderers depend on the interface only.
//
// # Graphviz
//
// [Graphviz] emits DOT with one fixed-size box per node, renders it with
// the in-process Graphviz library (github.com/goccy/go-graphviz) in the
// "plain" output format and reads the positions back with [ParsePlain].
// Labelled edges are routed through an extra fixed-size node holding the
// label, so the label center lies on the edge path:
//
//	Login -> [label "Submit"] -> Home
//
// Graphviz works in inches with a bottom-left origin; coordinates are
// converted to points (1/72 in) with a top-left origin and shifted by the
// graph margins.
package layout
