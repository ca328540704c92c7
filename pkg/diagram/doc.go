// Package diagram builds the typed graph model of an IFDAM document.
//
// # Overview
//
// A document is markdown in which headings declare nodes, links declare
// edges and footnotes attach styles:
//
//	# App                     diagram
//	## Login[^login]          screen, backref "login"
//	- @ form                  brace block "@ form {"
//	  - user name
//
//	[Submit](Home)[^submit]   edge Login -> Home labelled "Submit"
//	## Home                   screen
//	[^login]: fill: #eef;
//	[^submit]: stroke: red;
//
// [ParseMarkdown] tokenizes the source with [markdown.Tokenize] and folds the
// tokens into a [Graph] with [ParseTokens].
//
// # Nodes
//
// Heading depth selects the [NodeKind]: '#' diagram, '##' screen, '###'
// operation. Deeper headings produce no node and the content below them is
// dropped. Node IDs are unique; a repeated heading "Login" becomes
// "Login [1]", "Login [2]" and so on. Every node starts with a text item
// holding its ID, followed by one item per body line.
//
// # Edges
//
// Links inside a node body become edges from that node to the (URL-decoded)
// link destination. Edges are keyed by source, label and target, so two
// links between the same pair with different labels are parallel edges.
// Targets that have no heading (yet) are registered as [KindUnknown]
// placeholder nodes and upgraded when the heading appears.
//
// # Styles
//
// A footnote definition is a list of "key: value;" declarations (see
// [ExtractStyle]) merged into the node or edge that references the footnote.
// The first value set for a key wins.
package diagram
